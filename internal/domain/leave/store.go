package leave

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	pgtx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(&txStore{tx: pgtx}); err != nil {
		_ = pgtx.Rollback(ctx)
		return err
	}
	return pgtx.Commit(ctx)
}
