// Package sqlite implements the SQLite persistence sink for workouts.
// Values live in a single key-value table inside DataDir/mapty.db.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// DBFileName is the database file created inside DataDir.
const DBFileName = "mapty.db"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("sqlite backend is detached")
	ErrAlreadyAttached = errors.New("sqlite backend is already attached")
)

// Compile-time interface check: Backend must implement persist.Sink.
var _ persist.Sink = (*Backend)(nil)

// Backend implements persist.Sink using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens DataDir/mapty.db, creating DataDir and the schema if needed.
// Existing data is kept. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	// Create DataDir if needed
	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return err
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent. After Detach, all
// operations return ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Get returns the value stored under key.
func (b *Backend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return "", false, ErrDetached
	}

	var value string
	err := b.db.QueryRow(selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (b *Backend) Set(key, value string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return ErrDetached
	}

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := b.db.Exec(upsertValue, key, value, updatedAt); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key succeeds.
func (b *Backend) Remove(key string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return ErrDetached
	}

	if _, err := b.db.Exec(deleteValue, key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}
