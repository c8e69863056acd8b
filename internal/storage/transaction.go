package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// TxFunc is a function that runs within a transaction.
type TxFunc func(*sql.Tx) error

// WithTransaction runs fn in a transaction, committing on success and rolling
// back on error or panic.
func (db *DB) WithTransaction(ctx context.Context, fn TxFunc) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
			}
			return
		}
		if err = tx.Commit(); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

// SaveCardMetadataBatch upserts several printings in one transaction, for
// warming the cache from a whole decklist at once.
func (s *Service) SaveCardMetadataBatch(ctx context.Context, batch []cards.Metadata) error {
	if len(batch) == 0 {
		return nil
	}

	fetchedAt := s.now().Unix()
	return s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO card_metadata (
				name, set_code, image_ref, color_identity, type_line, fetched_at
			) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name, set_code) DO UPDATE SET
				image_ref = excluded.image_ref,
				color_identity = excluded.color_identity,
				type_line = excluded.type_line,
				fetched_at = excluded.fetched_at
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare card metadata insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, md := range batch {
			if _, err := stmt.ExecContext(ctx,
				md.Name, md.SetCode, md.ImageRef, md.ColorIdentity.String(), md.TypeLine, fetchedAt,
			); err != nil {
				return fmt.Errorf("failed to save card metadata for %s: %w", md.Key(), err)
			}
		}
		return nil
	})
}
