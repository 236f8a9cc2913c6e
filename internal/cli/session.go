package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mapty/internal/app"
	"github.com/mesh-intelligence/mapty/internal/geo"
	"github.com/mesh-intelligence/mapty/internal/intent"
	"github.com/mesh-intelligence/mapty/internal/paths"
	"github.com/mesh-intelligence/mapty/internal/persist"
	"github.com/mesh-intelligence/mapty/internal/sqlite"
	"github.com/mesh-intelligence/mapty/internal/view"
	"github.com/mesh-intelligence/mapty/pkg/types"
)

// session is one command's view of the application: the restored
// orchestrator plus the sinks it renders into.
type session struct {
	settings settings
	storage  types.Config
	logger   *slog.Logger
	locator  app.Geolocator

	orch  *app.Orchestrator
	list  *view.List
	layer *geo.Layer

	detach func() error
}

// openSession loads configuration, attaches the storage backend and
// restores the saved workouts. The caller must defer s.Close(). Log output
// goes to logOut.
func openSession(logOut io.Writer) (*session, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, sysError(err)
	}
	st := decodeSettings(v)

	dataDir, err := paths.ResolveDataDir(flags.dataDir, st.DataDir)
	if err != nil {
		return nil, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	logger := newLogger(st.Log, logOut)

	locator, err := st.locator()
	if err != nil {
		return nil, sysError(err)
	}

	cfg := types.Config{Backend: st.Backend, DataDir: dataDir, Key: st.StorageKey}
	sink, detach, err := attachSink(cfg)
	if err != nil {
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}

	s := &session{
		settings: st,
		storage:  cfg,
		logger:   logger,
		locator:  locator,
		list:     view.NewList(),
		layer:    geo.NewLayer(),
		detach:   detach,
	}
	s.orch = app.New(app.Deps{
		View:    s.list,
		Map:     s.layer,
		Persist: persist.NewGateway(sink, cfg.StorageKey()),
		Geo:     locator,
		Logger:  logger,
		Zoom:    st.Zoom,
		Limits:  st.Limits,
	})

	n := s.orch.Restore()
	logger.Debug("session opened", "backend", cfg.Backend, "data_dir", dataDir, "workouts", n)
	return s, nil
}

// attachSink opens the persistence sink named by cfg.Backend.
func attachSink(cfg types.Config) (persist.Sink, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %q", err, cfg.Backend)
	}
	noop := func() error { return nil }

	switch cfg.Backend {
	case types.BackendMemory:
		return persist.NewMemorySink(), noop, nil
	case types.BackendFile:
		sink, err := persist.NewFileSink(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return sink, noop, nil
	default:
		backend := sqlite.NewBackend()
		if err := backend.Attach(cfg); err != nil {
			return nil, nil, err
		}
		return backend, backend.Detach, nil
	}
}

// Close detaches the storage backend.
func (s *session) Close() error {
	if s.detach == nil {
		return nil
	}
	return s.detach()
}

// dispatch feeds events to the orchestrator in order and stops at the first
// error.
func (s *session) dispatch(events ...intent.Event) error {
	for _, ev := range events {
		if err := s.orch.Dispatch(ev); err != nil {
			return err
		}
	}
	return nil
}

// withSession runs fn inside an open session. A swallowed persistence
// failure is reported as an error, since a one-shot command that cannot save
// has lost the change.
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := openSession(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := fn(s); err != nil {
		return err
	}
	if s.orch.MemoryOnly() {
		return fmt.Errorf("%w: changes were not saved to %s", types.ErrPersistence, s.storage.DataDir)
	}
	return nil
}
