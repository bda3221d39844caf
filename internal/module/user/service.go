package user

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/simp-lee/pagination"

	"github.com/certvault/giftcert/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
	log  *slog.Logger
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository, log *slog.Logger) domain.UserService {
	if log == nil {
		log = slog.Default()
	}
	return &userService{repo: repo, log: log}
}

// CreateUser validates the nickname and persists a new user.
func (s *userService) CreateUser(ctx context.Context, nickname string) (*domain.User, error) {
	nickname = strings.TrimSpace(nickname)
	if err := validateNickname(nickname); err != nil {
		return nil, err
	}

	user := &domain.User{Nickname: nickname}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user created", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, domain.Validation("user id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.User], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, req)
}

// validateNickname checks that the nickname is present and within bounds.
func validateNickname(nickname string) error {
	if nickname == "" {
		return domain.Validation("nickname is required")
	}
	if utf8.RuneCountInString(nickname) < 2 {
		return domain.Validation("nickname must be at least 2 characters")
	}
	if utf8.RuneCountInString(nickname) > 100 {
		return domain.Validation("nickname must be at most 100 characters")
	}
	return nil
}
