package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/model"
	"github.com/goliatone/go-catalog-cache/notify"
	"github.com/goliatone/go-catalog-cache/repository"
)

// UserCreate is the payload for creating a user. Password is expected to
// arrive already hashed; credential mechanics live at the transport layer.
type UserCreate struct {
	Email       string
	Password    string
	Username    string
	IsSuperuser bool
}

func (u UserCreate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.Email, validation.Length(3, 64)),
		validation.Field(&u.Password, validation.Required, validation.Length(1, 255)),
		validation.Field(&u.Username, validation.Length(0, 64)),
	)
}

// UserUpdate carries partial update fields; nil fields are left untouched.
type UserUpdate struct {
	Email       *string
	Password    *string
	Username    *string
	IsSuperuser *bool
}

func (u UserUpdate) Validate() error {
	if u.Email != nil {
		if err := validation.Validate(*u.Email, validation.Required, is.Email, validation.Length(3, 64)); err != nil {
			return err
		}
	}
	if u.Username != nil {
		if err := validation.Validate(*u.Username, validation.Length(0, 64)); err != nil {
			return err
		}
	}
	return nil
}

func (u UserUpdate) patch() map[string]any {
	p := map[string]any{}
	if u.Email != nil {
		p["email"] = *u.Email
	}
	if u.Password != nil {
		p["password"] = *u.Password
	}
	if u.Username != nil {
		p["username"] = *u.Username
	}
	if u.IsSuperuser != nil {
		p["is_superuser"] = *u.IsSuperuser
	}
	return p
}

// UserServiceConfig wires a UserService.
type UserServiceConfig struct {
	Repository Storage[*model.User]
	Cache      cache.Store
	Publisher  notify.Publisher
	RoutingKey string
	TTL        time.Duration
	Logger     *zap.Logger
}

// UserService is the typed façade for users, keeping email and username
// unique ahead of the store's own constraints.
type UserService struct {
	svc            *Service[*model.User]
	repo           Storage[*model.User]
	emailUnique    *UniquenessChecker
	usernameUnique *UniquenessChecker
	log            *zap.Logger
}

// NewUserService creates the user façade.
func NewUserService(cfg UserServiceConfig) (*UserService, error) {
	svc, err := New(Config[*model.User]{
		Name:       "users",
		Entity:     "User",
		Label:      model.UserHandlers().Label,
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
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		svc:            svc,
		repo:           cfg.Repository,
		emailUnique:    NewUniquenessChecker(cfg.Repository, "user", "email"),
		usernameUnique: NewUniquenessChecker(cfg.Repository, "user", "username"),
		log:            log,
	}, nil
}

// Create validates the payload, rejects duplicate emails and usernames, and
// writes through.
func (s *UserService) Create(ctx context.Context, in UserCreate) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, &repository.InvalidArgumentError{Reason: err.Error()}
	}
	if err := s.emailUnique.Check(ctx, in.Email); err != nil {
		return nil, err
	}
	if in.Username != "" {
		if err := s.usernameUnique.Check(ctx, in.Username); err != nil {
			return nil, err
		}
	}
	return s.svc.Create(ctx, &model.User{
		Email:       in.Email,
		Password:    in.Password,
		Username:    in.Username,
		IsSuperuser: in.IsSuperuser,
	})
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, bool, error) {
	return s.svc.Get(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context, opts repository.ListOptions) ([]*model.User, error) {
	return s.svc.GetAll(ctx, opts)
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UserUpdate) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, &repository.InvalidArgumentError{Reason: err.Error()}
	}
	if in.Email != nil {
		if err := s.emailUnique.Check(ctx, *in.Email, id); err != nil {
			return nil, err
		}
	}
	if in.Username != nil && *in.Username != "" {
		if err := s.usernameUnique.Check(ctx, *in.Username, id); err != nil {
			return nil, err
		}
	}
	return s.svc.Update(ctx, id, in.patch())
}

func (s *UserService) Remove(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return s.svc.Remove(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.svc.Count(ctx)
}

// EnsureAdmin creates the superuser account at startup when it does not
// exist yet. Goes straight to the repository: bootstrap is not a user-facing
// mutation, so no notification is published. Idempotent.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, found, err := s.repo.GetIDByFilter(ctx, map[string]any{"email": email})
	if err != nil {
		return err
	}
	if found {
		s.log.Info("admin user already exists", zap.String("email", email))
		return nil
	}
	_, err = s.repo.Create(ctx, &model.User{
		Email:       email,
		Password:    password,
		Username:    "admin",
		IsSuperuser: true,
	})
	if err != nil {
		return err
	}
	s.log.Info("created admin user", zap.String("email", email))
	return nil
}
