package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/codec"
	"github.com/goliatone/go-catalog-cache/notify"
	"github.com/goliatone/go-catalog-cache/repository"
)

// DefaultRoutingKey is the routing identity notifications are published
// under when the caller does not configure one.
const DefaultRoutingKey = "book_queue"

// Storage is the repository contract the service orchestrates. Satisfied by
// *repository.Repository[T].
type Storage[T any] interface {
	Create(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, bool, error)
	GetAll(ctx context.Context, opts repository.ListOptions) ([]T, error)
	Update(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error)
	Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	Count(ctx context.Context) (int, error)
	GetIDByFilter(ctx context.Context, filters map[string]any) (uuid.UUID, bool, error)
}

// Config wires a Service's collaborators. Repository and Name are required;
// everything else has working defaults.
type Config[T any] struct {
	// Name namespaces cache keys, e.g. "books".
	Name string

	// Entity is the noun used in notification text, e.g. "Book".
	Entity string

	// Label renders a record's human identity for notifications.
	Label func(T) string

	Repository Storage[T]
	Cache      cache.Store
	Codec      codec.Codec[T]
	ListCodec  codec.Codec[[]T]
	Publisher  notify.Publisher
	RoutingKey string

	// TTL applied to cache entries. Zero means cache.DefaultTTL.
	TTL time.Duration

	Logger *zap.Logger
}

// Service orchestrates Repository + Cache + Codec + key construction into
// cached reads and notifying write-throughs for one record type.
type Service[T any] struct {
	name       string
	entity     string
	label      func(T) string
	repo       Storage[T]
	store      cache.Store
	codec      codec.Codec[T]
	listCodec  codec.Codec[[]T]
	publisher  notify.Publisher
	routingKey string
	ttl        time.Duration
	log        *zap.Logger
}

// New creates a read-through service from cfg.
func New[T any](cfg Config[T]) (*Service[T], error) {
	if cfg.Name == "" {
		return nil, errors.New("service: empty name")
	}
	if cfg.Repository == nil {
		return nil, errors.New("service: nil repository")
	}

	s := &Service[T]{
		name:       cfg.Name,
		entity:     cfg.Entity,
		label:      cfg.Label,
		repo:       cfg.Repository,
		store:      cfg.Cache,
		codec:      cfg.Codec,
		listCodec:  cfg.ListCodec,
		publisher:  cfg.Publisher,
		routingKey: cfg.RoutingKey,
		ttl:        cfg.TTL,
		log:        cfg.Logger,
	}
	if s.entity == "" {
		s.entity = cfg.Name
	}
	if s.label == nil {
		s.label = func(rec T) string { return fmt.Sprintf("%v", rec) }
	}
	if s.store == nil {
		s.store = cache.NewMemory()
	}
	if s.codec == nil {
		s.codec = codec.JSON[T]{}
	}
	if s.listCodec == nil {
		s.listCodec = codec.JSON[[]T]{}
	}
	if s.publisher == nil {
		s.publisher = notify.Nop{}
	}
	if s.routingKey == "" {
		s.routingKey = DefaultRoutingKey
	}
	if s.ttl <= 0 {
		s.ttl = cache.DefaultTTL
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s, nil
}

// Get returns the record for id, serving from cache when possible and
// refilling the cache from the repository on a miss. An absent record is
// (zero, false, nil) and is not negatively cached.
func (s *Service[T]) Get(ctx context.Context, id uuid.UUID) (T, bool, error) {
	var zero T
	key := cache.BuildKey(s.name, "get", []any{id}, nil)

	if raw, ok := s.cacheGet(ctx, key); ok {
		rec, err := s.codec.Decode(raw)
		if err == nil {
			return rec, true, nil
		}
		s.log.Debug("cached value discarded",
			zap.String("key", key), zap.Error(err))
	}

	rec, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	s.cacheSet(ctx, key, func() (string, error) { return s.codec.Encode(rec) })
	return rec, true, nil
}

// GetAll returns records for the given bounds, cached per distinct
// limit/offset combination.
func (s *Service[T]) GetAll(ctx context.Context, opts repository.ListOptions) ([]T, error) {
	kwargs := map[string]any{}
	if opts.Limit > 0 {
		kwargs["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		kwargs["offset"] = opts.Offset
	}
	key := cache.BuildKey(s.name, "get_all", nil, kwargs)

	if raw, ok := s.cacheGet(ctx, key); ok {
		recs, err := s.listCodec.Decode(raw)
		if err == nil {
			return recs, nil
		}
		s.log.Debug("cached value discarded",
			zap.String("key", key), zap.Error(err))
	}

	recs, err := s.repo.GetAll(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, func() (string, error) { return s.listCodec.Encode(recs) })
	return recs, nil
}

// Create writes through to the repository and publishes a creation
// notification after the commit. Existing cache entries are left to expire
// by TTL; list reads may briefly predate the new record.
func (s *Service[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return zero, err
	}
	s.notify(ctx, fmt.Sprintf("%s %q was created", s.entity, s.label(created)))
	return created, nil
}

// Update applies patch through the repository and publishes an update
// notification. Cached entries for the record, including its per-id entry,
// expire by TTL rather than being invalidated.
func (s *Service[T]) Update(ctx context.Context, id uuid.UUID, patch map[string]any) (T, error) {
	var zero T
	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return zero, err
	}
	s.notify(ctx, fmt.Sprintf("%s %q was updated", s.entity, s.label(updated)))
	return updated, nil
}

// Remove deletes the record through the repository and publishes a removal
// notification naming the id.
func (s *Service[T]) Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	s.notify(ctx, fmt.Sprintf("%s with id %s was removed", s.entity, removed))
	return removed, nil
}

// Count passes through to the repository, uncached.
func (s *Service[T]) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// cacheGet reads the store, absorbing any failure into a miss.
func (s *Service[T]) cacheGet(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache read failed, serving from storage",
			zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, ok
}

// cacheSet encodes and stores a value, absorbing any failure. The write-back
// is best effort; a lost entry only costs the next reader a database trip.
func (s *Service[T]) cacheSet(ctx context.Context, key string, encode func() (string, error)) {
	raw, err := encode()
	if err != nil {
		s.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, key, raw, s.ttl); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// notify publishes after a committed write. Failures are logged, never
// propagated: the write has already durably happened.
func (s *Service[T]) notify(ctx context.Context, message string) {
	if err := s.publisher.Publish(ctx, s.routingKey, message); err != nil {
		s.log.Warn("notification publish failed",
			zap.String("routing_key", s.routingKey), zap.Error(err))
	}
}
