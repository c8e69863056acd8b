package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// CachedCard is a persisted lookup result together with when it was fetched.
type CachedCard struct {
	Metadata  cards.Metadata
	FetchedAt time.Time
}

// Age returns how long ago the card was fetched.
func (c *CachedCard) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// SaveCardMetadata saves or replaces the metadata for a card printing.
func (s *Service) SaveCardMetadata(ctx context.Context, md cards.Metadata) error {
	query := `
		INSERT INTO card_metadata (
			name, set_code, image_ref, color_identity, type_line, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, set_code) DO UPDATE SET
			image_ref = excluded.image_ref,
			color_identity = excluded.color_identity,
			type_line = excluded.type_line,
			fetched_at = excluded.fetched_at
	`

	_, err := s.db.Conn().ExecContext(ctx, query,
		md.Name, md.SetCode, md.ImageRef, md.ColorIdentity.String(), md.TypeLine, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save card metadata for %s: %w", md.Key(), err)
	}

	return nil
}

// GetCardMetadata retrieves a card printing. It returns nil, nil when the
// card has never been stored.
func (s *Service) GetCardMetadata(ctx context.Context, key cards.Key) (*CachedCard, error) {
	query := `
		SELECT name, set_code, image_ref, color_identity, type_line, fetched_at
		FROM card_metadata
		WHERE name = ? AND set_code = ?
	`

	var (
		card      CachedCard
		colors    string
		fetchedAt int64
	)
	err := s.db.Conn().QueryRowContext(ctx, query, key.Name, key.SetCode).Scan(
		&card.Metadata.Name, &card.Metadata.SetCode, &card.Metadata.ImageRef,
		&colors, &card.Metadata.TypeLine, &fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card metadata for %s: %w", key, err)
	}

	card.Metadata.ColorIdentity = cards.ParseColorSet(colors)
	card.FetchedAt = time.Unix(fetchedAt, 0)
	return &card, nil
}

// CountCardMetadata returns the number of stored card printings.
func (s *Service) CountCardMetadata(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM card_metadata`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count card metadata: %w", err)
	}
	return n, nil
}

// DeleteStaleCardMetadata removes rows fetched longer ago than olderThan.
func (s *Service) DeleteStaleCardMetadata(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).Unix()

	result, err := s.db.Conn().ExecContext(ctx, `DELETE FROM card_metadata WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale card metadata: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	return n, nil
}
