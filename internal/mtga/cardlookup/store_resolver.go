package cardlookup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/storage"
)

// StoreResolver serves lookups from the sqlite card_metadata table while the
// stored row is younger than the TTL, and otherwise asks the inner resolver.
// Fresh answers are buffered and written in one transaction by Flush.
type StoreResolver struct {
	inner   Resolver
	storage *storage.Service
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
	onHit   func()

	mu      sync.Mutex
	pending map[cards.Key]cards.Metadata
}

// StoreResolverOptions configures a StoreResolver.
type StoreResolverOptions struct {
	// TTL is how old a stored row may be before it is refetched.
	// Default: 7 days
	TTL time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// OnHit is called for each lookup answered from the store.
	OnHit func()
}

// NewStoreResolver wraps inner with a persistent tier.
func NewStoreResolver(inner Resolver, store *storage.Service, options StoreResolverOptions) *StoreResolver {
	if options.TTL <= 0 {
		options.TTL = 7 * 24 * time.Hour
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &StoreResolver{
		inner:   inner,
		storage: store,
		ttl:     options.TTL,
		now:     time.Now,
		logger:  options.Logger,
		onHit:   options.OnHit,
		pending: make(map[cards.Key]cards.Metadata),
	}
}

// Resolve implements Resolver.
func (r *StoreResolver) Resolve(ctx context.Context, name, setCode string) (*cards.Resolution, error) {
	key := cards.NewKey(name, setCode)

	cached, err := r.storage.GetCardMetadata(ctx, key)
	if err != nil {
		// The store is an optimization; fall through to the inner resolver.
		r.logger.Warn("card store read failed", "card", key.String(), "error", err)
	}
	if cached != nil && cached.Age(r.now()) < r.ttl {
		if r.onHit != nil {
			r.onHit()
		}
		return &cards.Resolution{
			ImageRef:      cached.Metadata.ImageRef,
			ColorIdentity: cached.Metadata.ColorIdentity.String(),
			TypeLine:      cached.Metadata.TypeLine,
		}, nil
	}

	res, err := r.inner.Resolve(ctx, key.Name, key.SetCode)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", key, err)
	}

	r.mu.Lock()
	r.pending[key] = cards.NewMetadata(key, res)
	r.mu.Unlock()
	return res, nil
}

// Pending returns the number of buffered answers not yet written.
func (r *StoreResolver) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Flush writes every buffered answer in a single transaction. On failure the
// answers stay buffered for the next Flush.
func (r *StoreResolver) Flush(ctx context.Context) error {
	r.mu.Lock()
	batch := make([]cards.Metadata, 0, len(r.pending))
	for _, md := range r.pending {
		batch = append(batch, md)
	}
	r.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := r.storage.SaveCardMetadataBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to persist %d cards: %w", len(batch), err)
	}

	r.mu.Lock()
	for _, md := range batch {
		key := md.Key()
		if cur, ok := r.pending[key]; ok && cur == md {
			delete(r.pending, key)
		}
	}
	r.mu.Unlock()

	r.logger.Debug("persisted card metadata", "cards", len(batch))
	return nil
}
