package pgstore

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/twofactor/core/twofactor"
	"github.com/dmitrymomot/twofactor/integration/database/pg"
)

// Migrations holds the goose migrations for the store schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that holds the SQL files.
const MigrationsDir = "migrations"

// Compile-time check that Store implements twofactor.Store.
var _ twofactor.Store = (*Store)(nil)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the part of *pgxpool.Pool the store needs.
type DB interface {
	querier
	pg.TxBeginner
}

var _ DB = (*pgxpool.Pool)(nil)

// Store keeps two-factor records in PostgreSQL.
type Store struct {
	pool DB
}

// New creates a Store on top of db, usually a *pgxpool.Pool.
func New(db DB) *Store {
	return &Store{pool: db}
}

func (s *Store) db(ctx context.Context) querier {
	if tx, ok := pg.TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

const loadQuery = `
SELECT s.secret,
       s.created_at,
       COALESCE(array_agg(c.code_hash ORDER BY c.position) FILTER (WHERE c.code_hash IS NOT NULL), '{}')
FROM two_factor_secrets s
LEFT JOIN two_factor_recovery_codes c ON c.owner_id = s.owner_id
WHERE s.owner_id = $1
GROUP BY s.owner_id, s.secret, s.created_at`

func (s *Store) Load(ctx context.Context, ownerID string) (*twofactor.Record, error) {
	rec := &twofactor.Record{OwnerID: ownerID}
	var createdAt time.Time

	err := s.db(ctx).QueryRow(ctx, loadQuery, ownerID).Scan(&rec.Secret, &createdAt, &rec.RecoveryCodes)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, twofactor.ErrNotFound
		}
		return nil, fmt.Errorf("pgstore: load %q: %w", ownerID, err)
	}
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}

const (
	upsertSecretQuery = `
INSERT INTO two_factor_secrets (owner_id, secret, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (owner_id) DO UPDATE
SET secret = EXCLUDED.secret, created_at = EXCLUDED.created_at`

	deleteCodesQuery = `DELETE FROM two_factor_recovery_codes WHERE owner_id = $1`

	insertCodesQuery = `
INSERT INTO two_factor_recovery_codes (owner_id, position, code_hash)
SELECT $1, c.ord, c.hash
FROM unnest($2::text[]) WITH ORDINALITY AS c(hash, ord)`
)

func (s *Store) Save(ctx context.Context, rec *twofactor.Record) error {
	if rec == nil || rec.OwnerID == "" {
		return twofactor.ErrInvalidOwner
	}

	codes := rec.RecoveryCodes
	if codes == nil {
		codes = []string{}
	}

	err := pg.InTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertSecretQuery, rec.OwnerID, rec.Secret, rec.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteCodesQuery, rec.OwnerID); err != nil {
			return err
		}
		if len(codes) == 0 {
			return nil
		}
		_, err := tx.Exec(ctx, insertCodesQuery, rec.OwnerID, codes)
		return err
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return fmt.Errorf("pgstore: save %q: duplicate recovery code: %w", rec.OwnerID, err)
		}
		return fmt.Errorf("pgstore: save %q: %w", rec.OwnerID, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID string) error {
	// Recovery codes go with the secret via ON DELETE CASCADE.
	if _, err := s.db(ctx).Exec(ctx, `DELETE FROM two_factor_secrets WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("pgstore: delete %q: %w", ownerID, err)
	}
	return nil
}

func (s *Store) RemoveRecoveryCode(ctx context.Context, ownerID, codeHash string) (bool, error) {
	tag, err := s.db(ctx).Exec(ctx,
		`DELETE FROM two_factor_recovery_codes WHERE owner_id = $1 AND code_hash = $2`,
		ownerID, codeHash,
	)
	if err != nil {
		return false, fmt.Errorf("pgstore: remove recovery code for %q: %w", ownerID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ReplaceRecoveryCodes(ctx context.Context, ownerID string, codeHashes []string) (bool, error) {
	codes := codeHashes
	if codes == nil {
		codes = []string{}
	}

	var found bool
	err := pg.InTx(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		// The row lock orders this against Delete and Save for the same owner.
		var one int
		err := tx.QueryRow(ctx,
			`SELECT 1 FROM two_factor_secrets WHERE owner_id = $1 FOR UPDATE`, ownerID,
		).Scan(&one)
		if pg.IsNotFoundError(err) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		if _, err := tx.Exec(ctx, deleteCodesQuery, ownerID); err != nil {
			return err
		}
		if len(codes) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, insertCodesQuery, ownerID, codes)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("pgstore: replace recovery codes for %q: %w", ownerID, err)
	}
	return found, nil
}
