package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mark3labs/astroguide/internal/account/migrations"
	ierr "github.com/mark3labs/astroguide/internal/errors"
	"github.com/mark3labs/astroguide/internal/logger"
)

var _ ReadingStore = (*PGStore)(nil)

// PGStore keeps readings in a PostgreSQL database the user controls.
// Sign-in still goes through the backend; the session only supplies the owner id.
type PGStore struct {
	pool *pgxpool.Pool
}

// OpenPGStore connects to dsn and applies pending migrations.
func OpenPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PGStore{pool: pool}, nil
}

// Migrate applies the embedded migrations through a database/sql handle on pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("account: applied migration %s", r.Source.Path)
	}
	return nil
}

// Close releases the pool.
func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) List(ctx context.Context, sess Session) ([]Reading, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return nil, err
	}

	const query = `
		SELECT id, user_id, birth_date, birth_time, birth_location, current_location,
		       avatar, influence, created_at, updated_at
		FROM readings
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, storeError("list readings", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var (
			r          Reading
			id, userID uuid.UUID
		)
		if err := rows.Scan(&id, &userID, &r.BirthDate, &r.BirthTime, &r.BirthLocation,
			&r.CurrentLocation, &r.Avatar, &r.Influence, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, storeError("list readings", err)
		}
		r.ID = id.String()
		r.UserID = userID.String()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list readings", err)
	}
	return out, nil
}

func (s *PGStore) Insert(ctx context.Context, sess Session, r Reading) (Reading, error) {
	owner, err := ownerID(sess)
	if err != nil {
		return Reading{}, err
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		id = uuid.New()
	}

	const query = `
		INSERT INTO readings (id, user_id, birth_date, birth_time, birth_location,
		                      current_location, avatar, influence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err = s.pool.QueryRow(ctx, query, id, owner, r.BirthDate, r.BirthTime, r.BirthLocation,
		r.CurrentLocation, r.Avatar, r.Influence).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return Reading{}, storeError("save reading", err)
	}
	r.ID = id.String()
	r.UserID = owner.String()
	return r, nil
}

func (s *PGStore) Delete(ctx context.Context, sess Session, id string) error {
	owner, err := ownerID(sess)
	if err != nil {
		return err
	}
	rid, err := uuid.Parse(id)
	if err != nil {
		return ierr.New(ierr.KindNotFound, "delete reading", "That reading no longer exists.")
	}

	cmd, err := s.pool.Exec(ctx, `DELETE FROM readings WHERE id = $1 AND user_id = $2`, rid, owner)
	if err != nil {
		return storeError("delete reading", err)
	}
	if cmd.RowsAffected() == 0 {
		return ierr.New(ierr.KindNotFound, "delete reading", "That reading no longer exists.")
	}
	return nil
}

func ownerID(sess Session) (uuid.UUID, error) {
	id, err := uuid.Parse(sess.User.ID)
	if err != nil {
		return uuid.Nil, ierr.Wrap(ierr.KindUnauthorized, "readings", "Please sign in again.", err)
	}
	return id, nil
}

func storeError(op string, err error) error {
	return ierr.Wrap(ierr.KindNetworkUnavailable, op, "Could not reach the readings database.", err)
}
