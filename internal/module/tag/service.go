package tag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/simp-lee/pagination"

	"github.com/certvault/giftcert/internal/domain"
)

// tagService implements domain.TagService.
type tagService struct {
	repo       domain.TagRepository
	reconciler domain.TagReconciler
	tx         domain.Transactor
	log        *slog.Logger
}

// NewTagService creates a new TagService.
func NewTagService(repo domain.TagRepository, reconciler domain.TagReconciler, tx domain.Transactor, log *slog.Logger) domain.TagService {
	if log == nil {
		log = slog.Default()
	}
	return &tagService{repo: repo, reconciler: reconciler, tx: tx, log: log}
}

// CreateTag stores a new tag. An existing name yields AlreadyExists.
func (s *tagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	tag := &domain.Tag{Name: name}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "tag created", slog.Uint64("tag_id", uint64(tag.ID)), slog.String("name", tag.Name))
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (*domain.Tag, error) {
	if id == 0 {
		return nil, domain.Validation("tag id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *tagService) SearchTags(ctx context.Context, fragment string, req domain.PageRequest) (*pagination.Pagination[domain.Tag], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, strings.TrimSpace(fragment), req)
}

// DeleteTag removes a tag that no certificate references.
func (s *tagService) DeleteTag(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validation("tag id must be positive")
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		used, err := s.repo.CountUsages(ctx, id)
		if err != nil {
			return err
		}
		if used > 0 {
			return domain.NewAppError(domain.CodeConflict, "tag is attached to certificates", nil)
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "tag deleted", slog.Uint64("tag_id", uint64(id)))
	return nil
}

// ResolveTags maps names to stored tags in one transaction, creating the
// missing ones.
func (s *tagService) ResolveTags(ctx context.Context, names []string) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		tags, err = s.reconciler.Resolve(ctx, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *tagService) MostPopularTag(ctx context.Context) (*domain.Tag, error) {
	return s.repo.MostPopular(ctx)
}
