// Package pg provides PostgreSQL connection management with migrations and health checking.
//
// It wraps the pgx driver with retry logic, connection pool tuning and goose
// migrations, plus helpers for carrying a transaction through a context.
//
// # Key Features
//
//   - Connect: creates a pool with retry logic and connection verification
//   - Migrate: applies goose migrations from an fs.FS (usually embed.FS)
//   - Healthcheck: returns a health check function for monitoring connectivity
//   - Error classification functions for common PostgreSQL error patterns
//   - WithTx / TxFromContext: pass a pgx.Tx down to repositories
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
// # Usage Example
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("Failed to connect to PostgreSQL:", err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, logger); err != nil {
//		log.Fatal("Migration failed:", err)
//	}
//
// # Error Handling
//
//	isNotFound := pg.IsNotFoundError(err)               // pgx.ErrNoRows
//	isDuplicate := pg.IsDuplicateKeyError(err)          // unique constraint violations
//	isFKViolation := pg.IsForeignKeyViolationError(err) // referential integrity violations
//	isTxClosed := pg.IsTxClosedError(err)               // closed transaction usage
//
// # Transactions via context
//
// Repositories check the context for a transaction started by the caller and
// fall back to the pool otherwise:
//
//	func (s *Store) exec(ctx context.Context, q string, args ...any) (pgconn.CommandTag, error) {
//		if tx, ok := pg.TxFromContext(ctx); ok {
//			return tx.Exec(ctx, q, args...)
//		}
//		return s.pool.Exec(ctx, q, args...)
//	}
package pg
