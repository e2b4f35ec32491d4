// Package pgstore implements twofactor.Store on PostgreSQL using pgx.
//
// Secrets live in two_factor_secrets and recovery code hashes in
// two_factor_recovery_codes, one row per code. Consuming a code is a single
// DELETE, so concurrent attempts with the same code see exactly one affected
// row between them.
//
// Apply the embedded schema before use:
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, pgstore.MigrationsDir, log); err != nil {
//		return err
//	}
//	store := pgstore.New(pool)
//
// Methods join a transaction stored in the context with pg.WithTx.
package pgstore
