package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-crm-sync/core"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type persistenceConfig struct {
	driver string
	server string
	debug  bool
}

func (c persistenceConfig) GetDebug() bool {
	return c.debug
}

func (c persistenceConfig) GetDriver() string {
	return c.driver
}

func (c persistenceConfig) GetServer() string {
	return c.server
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	return 5 * time.Second
}

func (c persistenceConfig) GetOtelIdentifier() string {
	return "go-crm-sync"
}

// Open creates a persistence client for the configured driver. Postgres is
// the production driver; sqlite3 exists for local runs and tests.
func Open(cfg core.StoreConfig) (*persistence.Client, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return OpenPostgres(cfg.DSN)
	case DriverSQLite:
		return OpenSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported store driver %q", cfg.Driver)
	}
}

func OpenPostgres(dsn string) (*persistence.Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: postgres dsn is required")
	}
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open postgres: %w", err)
	}
	client, err := persistence.New(persistenceConfig{
		driver: DriverPostgres,
		server: dsn,
	}, sqlDB, pgdialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}
	return client, nil
}

func OpenSQLite(dsn string) (*persistence.Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlstore: sqlite dsn is required")
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open sqlite: %w", err)
	}
	// shared in-memory databases disappear once the last connection closes
	sqlDB.SetMaxOpenConns(1)
	client, err := persistence.New(persistenceConfig{
		driver: DriverSQLite,
		server: dsn,
	}, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlstore: new persistence client: %w", err)
	}
	return client, nil
}
