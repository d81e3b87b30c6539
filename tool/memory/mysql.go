package memory

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLBackend persists key-value pairs in a MySQL table, for agents that
// share memory across processes or hosts.
type MySQLBackend struct {
	db *sql.DB
}

// NewMySQLBackend opens a MySQL-backed memory store using dsn (a
// go-sql-driver/mysql data source name, e.g.
// "user:pass@tcp(127.0.0.1:3306)/dbname").
func NewMySQLBackend(dsn string) (*MySQLBackend, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("memory: failed to open mysql connection: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS memory_kv (
		mkey VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("memory: failed to create table: %w", err)
	}

	return &MySQLBackend{db: db}, nil
}

// Close closes the underlying connection pool.
func (b *MySQLBackend) Close() error { return b.db.Close() }

// Get implements Backend.
func (b *MySQLBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM memory_kv WHERE mkey = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("memory: get failed: %w", err)
	}
	return value, true, nil
}

// Set implements Backend.
func (b *MySQLBackend) Set(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO memory_kv (mkey, value) VALUES (?, ?)
		 ON DUPLICATE KEY UPDATE value = VALUES(value)`, key, value)
	if err != nil {
		return fmt.Errorf("memory: set failed: %w", err)
	}
	return nil
}

// Delete implements Backend.
func (b *MySQLBackend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM memory_kv WHERE mkey = ?`, key)
	if err != nil {
		return fmt.Errorf("memory: delete failed: %w", err)
	}
	return nil
}
