package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/model"
	"github.com/goliatone/go-catalog-cache/notify"
	"github.com/goliatone/go-catalog-cache/repository"
)

// BookCreate is the payload for creating a book.
type BookCreate struct {
	Title         string
	Author        string
	PublishedDate time.Time
}

func (b BookCreate) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.Length(1, 64)),
		validation.Field(&b.Author, validation.Length(0, 64)),
	)
}

// BookUpdate carries partial update fields; nil fields are left untouched.
type BookUpdate struct {
	Title         *string
	Author        *string
	PublishedDate *time.Time
}

func (b BookUpdate) Validate() error {
	if b.Title != nil {
		if err := validation.Validate(*b.Title, validation.Required, validation.Length(1, 64)); err != nil {
			return err
		}
	}
	if b.Author != nil {
		if err := validation.Validate(*b.Author, validation.Length(0, 64)); err != nil {
			return err
		}
	}
	return nil
}

// patch maps the set fields to their columns.
func (b BookUpdate) patch() map[string]any {
	p := map[string]any{}
	if b.Title != nil {
		p["title"] = *b.Title
	}
	if b.Author != nil {
		p["author"] = *b.Author
	}
	if b.PublishedDate != nil {
		p["published_date"] = *b.PublishedDate
	}
	return p
}

// BookServiceConfig wires a BookService.
type BookServiceConfig struct {
	Repository Storage[*model.Book]
	Cache      cache.Store
	Publisher  notify.Publisher
	RoutingKey string
	TTL        time.Duration
	Logger     *zap.Logger
}

// BookService is the typed façade over the generic read-through service for
// books, adding payload validation and the duplicate-title pre-check.
type BookService struct {
	svc         *Service[*model.Book]
	titleUnique *UniquenessChecker
}

// NewBookService creates the book façade.
func NewBookService(cfg BookServiceConfig) (*BookService, error) {
	svc, err := New(Config[*model.Book]{
		Name:       "books",
		Entity:     "Book",
		Label:      model.BookHandlers().Label,
		Repository: cfg.Repository,
		Cache:      cfg.Cache,
		Publisher:  cfg.Publisher,
		RoutingKey: cfg.RoutingKey,
		TTL:        cfg.TTL,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &BookService{
		svc:         svc,
		titleUnique: NewUniquenessChecker(cfg.Repository, "book", "title"),
	}, nil
}

// Create validates the payload, rejects duplicate titles, and writes through.
func (s *BookService) Create(ctx context.Context, in BookCreate) (*model.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, &repository.InvalidArgumentError{Reason: err.Error()}
	}
	if err := s.titleUnique.Check(ctx, in.Title); err != nil {
		return nil, err
	}
	return s.svc.Create(ctx, &model.Book{
		Title:         in.Title,
		Author:        in.Author,
		PublishedDate: in.PublishedDate,
	})
}

func (s *BookService) Get(ctx context.Context, id uuid.UUID) (*model.Book, bool, error) {
	return s.svc.Get(ctx, id)
}

func (s *BookService) GetAll(ctx context.Context, opts repository.ListOptions) ([]*model.Book, error) {
	return s.svc.GetAll(ctx, opts)
}

// Update validates the partial payload, keeps titles unique, and writes
// through with PATCH semantics.
func (s *BookService) Update(ctx context.Context, id uuid.UUID, in BookUpdate) (*model.Book, error) {
	if err := in.Validate(); err != nil {
		return nil, &repository.InvalidArgumentError{Reason: err.Error()}
	}
	if in.Title != nil {
		if err := s.titleUnique.Check(ctx, *in.Title, id); err != nil {
			return nil, err
		}
	}
	return s.svc.Update(ctx, id, in.patch())
}

func (s *BookService) Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return s.svc.Remove(ctx, id)
}

func (s *BookService) Count(ctx context.Context) (int, error) {
	return s.svc.Count(ctx)
}
