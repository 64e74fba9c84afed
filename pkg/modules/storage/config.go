package storage

import (
	"time"

	"github.com/shuldan/nativebridge/pkg/contracts"
)

const (
	defaultDSN   = ":memory:"
	defaultTable = "async_storage"
)

// BackendFromConfig reads modules.storage.{driver,dsn,table,pool.*}. A nil config
// yields an in-memory sqlite backend.
func BackendFromConfig(cfg contracts.Config) (Backend, error) {
	driver, dsn, table := driverSQLite, defaultDSN, defaultTable
	var opts []SQLOption

	if cfg != nil {
		if sub, ok := cfg.GetSub("modules.storage"); ok {
			driver = sub.GetString("driver", driverSQLite)
			dsn = sub.GetString("dsn", defaultDSN)
			table = sub.GetString("table", defaultTable)
			opts = poolOptions(sub)
		}
	}

	if normalizeDriver(driver) == driverRedis {
		return NewRedisBackend(dsn, table)
	}
	return NewSQLBackend(driver, dsn, table, opts...)
}

func poolOptions(cfg contracts.Config) []SQLOption {
	var opts []SQLOption
	if pool, ok := cfg.GetSub("pool"); ok {
		opts = append(opts,
			WithConnectionPool(
				pool.GetInt("max_open_connections", 25),
				pool.GetInt("max_idle_connections", 5),
				pool.GetDuration("conn_max_lifetime", time.Hour),
			),
			WithConnectionIdleTime(pool.GetDuration("conn_max_idle_time", 5*time.Minute)),
		)
	}
	if cfg.Has("ping_timeout") {
		opts = append(opts, WithPingTimeout(cfg.GetDuration("ping_timeout")))
	}
	return opts
}
