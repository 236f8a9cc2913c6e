package sqlite

// Schema DDL. The kv table holds one serialized value per key.
const (
	createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createKV,
}

// Queries against the kv table.
const (
	selectValue = `SELECT value FROM kv WHERE key = ?`
	upsertValue = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteValue = `DELETE FROM kv WHERE key = ?`
)
