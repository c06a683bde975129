package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/brookse/smartdoc-backend/internal/domain/entity"
	repo "github.com/brookse/smartdoc-backend/internal/domain/repository"
	"github.com/brookse/smartdoc-backend/pkg/helpers"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrConflict is returned when an update raced a concurrent write to
	// the same user and lost.
	ErrConflict = errors.New("user was modified concurrently")
	// ErrResolutionFailed wraps any failure of the zipcode enrichment.
	ErrResolutionFailed = errors.New("location resolution failed")
)

// LocationResolver turns a validated zipcode into coordinates and a timezone.
type LocationResolver interface {
	Resolve(ctx context.Context, zipcode string) (entity.Location, error)
}

// Service implements the enrichment-on-write policy: a user is created only
// together with a successful resolution of its zipcode, and an update
// re-resolves only when the zipcode actually changed. A failed resolution
// aborts the whole write so the stored record never holds a zipcode with
// mismatched or missing location fields.
type Service struct {
	Repo     repo.UserRepository
	Resolver LocationResolver
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewService(r repo.UserRepository, resolver LocationResolver, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Resolver: resolver, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

// UserInput carries the client-supplied fields, already past the validation gate.
type UserInput struct {
	Name    string
	Zipcode string
}

func cacheKey(id string) string {
	return "user:" + id
}

// CreateUser resolves the zipcode and inserts the full record. Nothing is
// inserted when resolution fails.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*entity.User, error) {
	loc, err := s.Resolver.Resolve(ctx, in.Zipcode)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("zipcode", in.Zipcode).Warn("zipcode resolution failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	u := &entity.User{Name: in.Name, Zipcode: in.Zipcode}
	u.ApplyLocation(loc)

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, u)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "zipcode": u.Zipcode, "timezone": u.Timezone}).Info("user created")
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if s.Redis != nil {
		var cached entity.User
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKey(id), &cached); err == nil && hit {
			return &cached, nil
		}
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.cacheSet(ctx, u)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser changes the name unconditionally and re-resolves the location
// only when the requested zipcode differs from the stored one (exact string
// comparison, +4 suffix included). On resolution failure the stored record
// stays at its prior, internally consistent state.
func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (*entity.User, error) {
	// Read the store directly: the optimistic-concurrency token must come
	// from the current row, not from a cached copy.
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.Zipcode != u.Zipcode {
		loc, rerr := s.Resolver.Resolve(ctx, in.Zipcode)
		if rerr != nil {
			if s.Logger != nil {
				s.Logger.WithError(rerr).WithFields(logrus.Fields{"user_id": id, "zipcode": in.Zipcode}).Warn("zipcode resolution failed")
			}
			return nil, fmt.Errorf("%w: %v", ErrResolutionFailed, rerr)
		}
		u.Zipcode = in.Zipcode
		u.ApplyLocation(loc)
	}
	u.Name = in.Name

	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrConflict):
			return nil, ErrConflict
		}
		return nil, err
	}
	s.cacheSet(ctx, u)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "zipcode": u.Zipcode}).Info("user updated")
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.cacheDel(ctx, id)
	return nil
}

func (s *Service) cacheSet(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, cacheKey(u.ID), u, s.CacheTTL); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user cache write failed")
	}
}

func (s *Service) cacheDel(ctx context.Context, id string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, cacheKey(id)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("user cache invalidation failed")
	}
}
