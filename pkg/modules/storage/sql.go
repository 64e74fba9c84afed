package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	driverSQLite   = "sqlite3"
	driverMySQL    = "mysql"
	driverPostgres = "postgres"
	driverRedis    = "redis"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type poolConfig struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	connMaxIdleTime time.Duration
	pingTimeout     time.Duration
}

type SQLOption func(*poolConfig)

func WithConnectionPool(maxOpen, maxIdle int, maxLifetime time.Duration) SQLOption {
	return func(c *poolConfig) {
		c.maxOpenConns = maxOpen
		c.maxIdleConns = maxIdle
		c.connMaxLifetime = maxLifetime
	}
}

func WithConnectionIdleTime(idleTime time.Duration) SQLOption {
	return func(c *poolConfig) {
		c.connMaxIdleTime = idleTime
	}
}

func WithPingTimeout(timeout time.Duration) SQLOption {
	return func(c *poolConfig) {
		if timeout > 0 {
			c.pingTimeout = timeout
		}
	}
}

type dialect struct {
	createTable string
	get         string
	upsert      string
	remove      string
	keys        string
	clear       string
}

func newDialect(driver, table string) dialect {
	placeholder := func(n int) string { return "?" }
	if driver == driverPostgres {
		placeholder = func(n int) string { return fmt.Sprintf("$%d", n) }
	}

	keyType, valueType := "TEXT", "TEXT"
	upsert := fmt.Sprintf(
		"INSERT INTO %s (storage_key, storage_value) VALUES (%s, %s) "+
			"ON CONFLICT (storage_key) DO UPDATE SET storage_value = excluded.storage_value",
		table, placeholder(1), placeholder(2),
	)
	if driver == driverMySQL {
		keyType, valueType = "VARCHAR(255)", "LONGTEXT"
		upsert = fmt.Sprintf(
			"INSERT INTO %s (storage_key, storage_value) VALUES (?, ?) "+
				"ON DUPLICATE KEY UPDATE storage_value = VALUES(storage_value)",
			table,
		)
	}

	return dialect{
		createTable: fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (storage_key %s NOT NULL PRIMARY KEY, storage_value %s NOT NULL)",
			table, keyType, valueType,
		),
		get:    fmt.Sprintf("SELECT storage_value FROM %s WHERE storage_key = %s", table, placeholder(1)),
		upsert: upsert,
		remove: fmt.Sprintf("DELETE FROM %s WHERE storage_key = %s", table, placeholder(1)),
		keys:   fmt.Sprintf("SELECT storage_key FROM %s ORDER BY storage_key", table),
		clear:  fmt.Sprintf("DELETE FROM %s", table),
	}
}

type sqlBackend struct {
	driver  string
	dsn     string
	table   string
	config  poolConfig
	dialect dialect

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLBackend stores values in table through database/sql. driver accepts the usual
// aliases (sqlite, postgresql) and is normalized before the table is named.
func NewSQLBackend(driver, dsn, table string, opts ...SQLOption) (Backend, error) {
	driver = normalizeDriver(driver)
	switch driver {
	case driverSQLite, driverMySQL, driverPostgres:
	default:
		return nil, ErrUnsupportedDriver.WithDetail("driver", driver)
	}
	if !tableName.MatchString(table) {
		return nil, ErrInvalidTable.WithDetail("table", table)
	}

	cfg := poolConfig{
		maxOpenConns:    25,
		maxIdleConns:    5,
		connMaxLifetime: time.Hour,
		connMaxIdleTime: 5 * time.Minute,
		pingTimeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	// Each connection to an in-memory sqlite database sees its own empty database.
	if driver == driverSQLite && strings.Contains(dsn, ":memory:") {
		cfg.maxOpenConns = 1
		cfg.maxIdleConns = 1
		cfg.connMaxLifetime = 0
		cfg.connMaxIdleTime = 0
	}

	return &sqlBackend{
		driver:  driver,
		dsn:     dsn,
		table:   table,
		config:  cfg,
		dialect: newDialect(driver, table),
	}, nil
}

func (b *sqlBackend) Open(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db != nil {
		return nil
	}

	db, err := sql.Open(b.driver, b.dsn)
	if err != nil {
		return ErrOpen.WithDetail("driver", b.driver).WithCause(err)
	}
	db.SetMaxOpenConns(b.config.maxOpenConns)
	db.SetMaxIdleConns(b.config.maxIdleConns)
	db.SetConnMaxLifetime(b.config.connMaxLifetime)
	db.SetConnMaxIdleTime(b.config.connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, b.config.pingTimeout)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return ErrOpen.WithDetail("driver", b.driver).WithCause(err)
	}
	if _, err = db.ExecContext(ctx, b.dialect.createTable); err != nil {
		_ = db.Close()
		return ErrOpen.WithDetail("driver", b.driver).WithCause(err)
	}

	b.db = db
	return nil
}

func (b *sqlBackend) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := b.conn()
	if err != nil {
		return "", false, err
	}

	var value string
	err = db.QueryRowContext(ctx, b.dialect.get, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, ErrQuery.WithDetail("op", "get").WithCause(err)
	}
	return value, true, nil
}

func (b *sqlBackend) Set(ctx context.Context, key, value string) error {
	return b.exec(ctx, "set", b.dialect.upsert, key, value)
}

func (b *sqlBackend) Remove(ctx context.Context, key string) error {
	return b.exec(ctx, "remove", b.dialect.remove, key)
}

func (b *sqlBackend) Clear(ctx context.Context) error {
	return b.exec(ctx, "clear", b.dialect.clear)
}

func (b *sqlBackend) Keys(ctx context.Context) ([]string, error) {
	db, err := b.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, b.dialect.keys)
	if err != nil {
		return nil, ErrQuery.WithDetail("op", "keys").WithCause(err)
	}
	defer func() { _ = rows.Close() }()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, ErrQuery.WithDetail("op", "keys").WithCause(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrQuery.WithDetail("op", "keys").WithCause(err)
	}
	return keys, nil
}

func (b *sqlBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

func (b *sqlBackend) exec(ctx context.Context, op, query string, args ...any) error {
	db, err := b.conn()
	if err != nil {
		return err
	}
	if _, err = db.ExecContext(ctx, query, args...); err != nil {
		return ErrQuery.WithDetail("op", op).WithCause(err)
	}
	return nil
}

func (b *sqlBackend) conn() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.db == nil {
		return nil, ErrNotOpen
	}
	return b.db, nil
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "mysql":
		return driverMySQL
	case "postgres", "postgresql":
		return driverPostgres
	case "sqlite", "sqlite3":
		return driverSQLite
	case "redis":
		return driverRedis
	default:
		return driver
	}
}
