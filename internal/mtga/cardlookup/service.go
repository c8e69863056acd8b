// Package cardlookup resolves decklist cards to metadata through a memoizing
// cache in front of an external resolver.
package cardlookup

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ramonehamilton/MTG-Drawer/internal/metrics"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// Resolver fetches metadata for one card printing. Implementations may fail;
// the lookup service treats every failure as final for that card.
type Resolver interface {
	Resolve(ctx context.Context, name, setCode string) (*cards.Resolution, error)
}

// Flusher is implemented by resolvers that buffer writes. The service flushes
// once after each Lookup or LookupAll.
type Flusher interface {
	Flush(ctx context.Context) error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, name, setCode string) (*cards.Resolution, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, name, setCode string) (*cards.Resolution, error) {
	return f(ctx, name, setCode)
}

// ServiceOptions configures the card lookup service.
type ServiceOptions struct {
	// MaxConcurrency bounds simultaneous resolver calls in LookupAll.
	// Default: 8
	MaxConcurrency int

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metrics.LookupMetrics

	// OnFailure, if set, is called for each card replaced by a placeholder.
	OnFailure func(key cards.Key, err error)
}

// DefaultServiceOptions returns sensible defaults.
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		MaxConcurrency: 8,
	}
}

// Service provides card lookup with caching.
type Service struct {
	resolver       Resolver
	cache          *Cache
	maxConcurrency int
	logger         *slog.Logger
	metrics        *metrics.LookupMetrics
	onFailure      func(key cards.Key, err error)
}

// NewService creates a new card lookup service. A nil cache gets a fresh one.
func NewService(resolver Resolver, cache *Cache, options ServiceOptions) *Service {
	if cache == nil {
		cache = NewCache()
	}
	if options.MaxConcurrency <= 0 {
		options.MaxConcurrency = DefaultServiceOptions().MaxConcurrency
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	return &Service{
		resolver:       resolver,
		cache:          cache,
		maxConcurrency: options.MaxConcurrency,
		logger:         options.Logger,
		metrics:        options.Metrics,
		onFailure:      options.OnFailure,
	}
}

// Cache returns the service's cache.
func (s *Service) Cache() *Cache {
	return s.cache
}

// Lookup returns metadata for a card printing. Cache hits never reach the
// resolver. A resolver failure is logged and yields an uncached placeholder.
// The only error returned is the context's, once it is done.
func (s *Service) Lookup(ctx context.Context, name, setCode string) (cards.Metadata, error) {
	md, err := s.lookup(ctx, name, setCode)
	s.flush(ctx)
	return md, err
}

// flush persists buffered resolver writes. Results already fetched are worth
// keeping even when the caller's context is done.
func (s *Service) flush(ctx context.Context) {
	f, ok := s.resolver.(Flusher)
	if !ok {
		return
	}
	if err := f.Flush(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to persist card metadata", "error", err)
	}
}

func (s *Service) lookup(ctx context.Context, name, setCode string) (cards.Metadata, error) {
	key := cards.NewKey(name, setCode)

	if md, ok := s.cache.Get(key); ok {
		if s.metrics != nil {
			s.metrics.RecordHit()
		}
		return md, nil
	}
	if s.metrics != nil {
		s.metrics.RecordMiss()
	}

	if err := ctx.Err(); err != nil {
		return cards.Metadata{}, err
	}

	start := time.Now()
	res, err := s.resolver.Resolve(ctx, key.Name, key.SetCode)
	if s.metrics != nil {
		s.metrics.RecordResolve(time.Since(start), err)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return cards.Metadata{}, ctxErr
		}
		s.logger.Warn("card lookup failed, using placeholder", "card", key.String(), "error", err)
		if s.onFailure != nil {
			s.onFailure(key, err)
		}
		return cards.Placeholder(key), nil
	}

	md, _ := s.cache.PutIfAbsent(cards.NewMetadata(key, res))
	return md, nil
}

// LookupAll resolves every distinct key concurrently and returns the results
// keyed by normalized key. Per-card failures become placeholders; only
// context cancellation aborts the batch. Buffered resolver writes are flushed
// once for the whole batch.
func (s *Service) LookupAll(ctx context.Context, keys []cards.Key) (map[cards.Key]cards.Metadata, error) {
	distinct := make([]cards.Key, 0, len(keys))
	seen := make(map[cards.Key]struct{}, len(keys))
	for _, k := range keys {
		k = cards.NewKey(k.Name, k.SetCode)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		distinct = append(distinct, k)
	}

	results := make(map[cards.Key]cards.Metadata, len(distinct))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	sem := make(chan struct{}, s.maxConcurrency)

	for _, key := range distinct {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			s.flush(ctx)
			return nil, ctx.Err()
		}

		wg.Add(1)
		go func(key cards.Key) {
			defer wg.Done()
			defer func() { <-sem }()

			md, err := s.lookup(ctx, key.Name, key.SetCode)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[key] = md
		}(key)
	}

	wg.Wait()
	s.flush(ctx)
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
