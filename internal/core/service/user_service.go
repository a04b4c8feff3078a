package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamblers/ledger-api/internal/pkg/metrics"
	"github.com/gamblers/ledger-api/internal/core/domain"
	"github.com/gamblers/ledger-api/internal/core/ports"
)

// UserService enforces the user invariants and is the only writer of users.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	audit  ports.AuditRecorder
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, audit ports.AuditRecorder, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, audit: audit, logger: logger, now: time.Now}
}

// Create registers a user. The email must be unique ignoring case; consent
// given at registration is timestamped immediately.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.UserView, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	email := strings.TrimSpace(in.Email)

	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	user.SetConsent(in.Consent, now)

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(string(saved.Role)).Inc()
	s.logger.Info().Str("user_id", saved.ID).Str("role", string(saved.Role)).Msg("user created")

	view := saved.View()
	return &view, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := user.View()
	return &view, nil
}

// FindAll returns the users whose name and email contain the given filters,
// ignoring case.
func (s *UserService) FindAll(ctx context.Context, filter ports.UserFilter) ([]domain.UserView, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]domain.UserView, 0, len(users))
	for _, u := range users {
		if filter.Name != nil && !containsFold(u.Name, *filter.Name) {
			continue
		}
		if filter.Email != nil && !containsFold(u.Email, *filter.Email) {
			continue
		}
		out = append(out, u.View())
	}
	return out, nil
}

// Update overwrites only the supplied fields. Password and consent are never
// touched here.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validateName(*in.Name); err != nil {
			return nil, err
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		taken, err := s.repo.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = email
	}
	if in.Role != nil {
		if err := validateRole(*in.Role); err != nil {
			return nil, err
		}
		user.Role = *in.Role
	}
	user.UpdatedAt = s.now().UTC()

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", saved.ID).Msg("user updated")
	view := saved.View()
	return &view, nil
}

// Delete removes the user. Transactions owned by the user are left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// SetConsent records the user's consent decision and emits an audit event
// naming the caller found in ctx.
func (s *UserService) SetConsent(ctx context.Context, id string, granted bool) (*domain.UserView, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user.SetConsent(granted, now)
	user.UpdatedAt = now

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	action := domain.AuditConsentRevoked
	if granted {
		action = domain.AuditConsentGranted
	}
	var actorID string
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		actorID = p.UserID
	}
	if s.audit != nil {
		s.audit.Record(ctx, domain.AuditEvent{
			Action:     action,
			ActorID:    actorID,
			TargetID:   saved.ID,
			Subject:    saved.Email,
			OccurredAt: now,
		})
	}

	metrics.ConsentChangesTotal.WithLabelValues(strconv.FormatBool(granted)).Inc()
	s.logger.Info().Str("user_id", saved.ID).Str("actor_id", actorID).Bool("granted", granted).Msg("consent changed")

	view := saved.View()
	return &view, nil
}

// EnsureAdmin creates an ADMIN account for email unless any account already
// uses it. It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	taken, err := s.repo.EmailTaken(ctx, strings.TrimSpace(email), "")
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if taken {
		s.logger.Info().Str("email", email).Msg("admin account already present")
		return false, nil
	}

	_, err = s.Create(ctx, ports.CreateUserInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	return true, nil
}
