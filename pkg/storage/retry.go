package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
)

const (
	sqliteBusy   = 5
	sqliteLocked = 6
)

func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code() & 0xff
	return code == sqliteBusy || code == sqliteLocked
}

func (s *Store) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = s.retryElapsed
	return backoff.WithContext(b, ctx)
}

// withTx runs fn in a transaction. The whole transaction is retried while
// the database reports it busy; any other error is returned at once.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := s.runTx(ctx, fn)
		if err == nil {
			return nil
		}
		if isBusy(err) {
			s.log.Debug().Err(err).Int("attempt", attempt).Msg("database busy, retrying")
			return err
		}
		return backoff.Permanent(err)
	}
	return backoff.Retry(op, s.newBackOff(ctx))
}

func (s *Store) runTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
