package certificate

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simp-lee/pagination"

	"github.com/certvault/giftcert/internal/domain"
)

const (
	maxNameLength        = 255
	maxDescriptionLength = 1000
)

// certificateService implements domain.CertificateService.
type certificateService struct {
	repo  domain.CertificateRepository
	tags  domain.TagReconciler
	tx    domain.Transactor
	log   *slog.Logger
	clock func() time.Time
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(repo domain.CertificateRepository, tags domain.TagReconciler, tx domain.Transactor, log *slog.Logger) domain.CertificateService {
	if log == nil {
		log = slog.Default()
	}
	return &certificateService{repo: repo, tags: tags, tx: tx, log: log, clock: time.Now}
}

// Search validates params and returns one page of matching certificates.
func (s *certificateService) Search(ctx context.Context, params domain.SearchParams) (*pagination.Pagination[domain.Certificate], error) {
	req := domain.PageRequest{Page: params.Page, PageSize: params.PageSize}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	field, err := domain.ParseSortField(params.SortField)
	if err != nil {
		return nil, err
	}
	direction, err := domain.ParseSortDirection(params.SortDirection)
	if err != nil {
		return nil, err
	}

	filter := domain.NewCertificateFilter(params.Keyword, params.TagNames, field, direction)
	return s.repo.FindByFilter(ctx, filter, req)
}

func (s *certificateService) Get(ctx context.Context, id uint) (*domain.Certificate, error) {
	if id == 0 {
		return nil, domain.Validation("certificate id must be positive")
	}
	return s.repo.GetByID(ctx, id)
}

// Create stores the certificate and links its tags in one transaction.
func (s *certificateService) Create(ctx context.Context, in domain.CreateCertificateInput) (*domain.Certificate, error) {
	cert := &domain.Certificate{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Duration:    in.Duration,
	}
	if err := validateFields(cert); err != nil {
		return nil, err
	}
	if err := validateTagNames(in.TagNames); err != nil {
		return nil, err
	}

	var created *domain.Certificate
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, cert); err != nil {
			return err
		}
		tags, err := s.tags.Resolve(ctx, in.TagNames)
		if err != nil {
			return err
		}
		if err := s.repo.AddTags(ctx, cert.ID, domain.TagIDs(tags)); err != nil {
			return err
		}
		created, err = s.repo.GetByID(ctx, cert.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "certificate created",
		slog.Uint64("certificate_id", uint64(created.ID)),
		slog.Int("tags", len(created.Tags)),
	)
	return created, nil
}

// Update applies the non-nil fields of in. When in.TagNames is non-nil the
// tag set is replaced by it.
func (s *certificateService) Update(ctx context.Context, id uint, in domain.UpdateCertificateInput) (*domain.Certificate, error) {
	if id == 0 {
		return nil, domain.Validation("certificate id must be positive")
	}
	if err := validatePatch(in); err != nil {
		return nil, err
	}

	var updated *domain.Certificate
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockByID(ctx, id); err != nil {
			return err
		}
		cert, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		applyPatch(cert, in)
		now := s.clock().UTC()
		cert.LastUpdatedAt = &now
		if err := s.repo.Update(ctx, cert); err != nil {
			return err
		}

		if in.TagNames != nil {
			if err := s.replaceTags(ctx, id, in.TagNames); err != nil {
				return err
			}
		}

		updated, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "certificate updated", slog.Uint64("certificate_id", uint64(id)))
	return updated, nil
}

// replaceTags moves the certificate's links to exactly the named tags.
func (s *certificateService) replaceTags(ctx context.Context, id uint, names []string) error {
	desired, err := s.tags.Resolve(ctx, names)
	if err != nil {
		return err
	}
	current, err := s.repo.TagsOf(ctx, id)
	if err != nil {
		return err
	}

	toAdd, toRemove := s.tags.Diff(current, desired)
	if err := s.repo.RemoveTags(ctx, id, domain.TagIDs(toRemove)); err != nil {
		return err
	}
	return s.repo.AddTags(ctx, id, domain.TagIDs(toAdd))
}

// Delete removes a certificate that has no orders, along with its tag links.
func (s *certificateService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validation("certificate id must be positive")
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockByID(ctx, id); err != nil {
			return err
		}
		current, err := s.repo.TagsOf(ctx, id)
		if err != nil {
			return err
		}
		orders, err := s.repo.CountOrders(ctx, id)
		if err != nil {
			return err
		}
		if orders > 0 {
			return domain.NewAppError(domain.CodeConflict, "certificate has orders", nil)
		}
		if err := s.repo.RemoveTags(ctx, id, domain.TagIDs(current)); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "certificate deleted", slog.Uint64("certificate_id", uint64(id)))
	return nil
}

func applyPatch(cert *domain.Certificate, in domain.UpdateCertificateInput) {
	if in.Name != nil {
		cert.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		cert.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		cert.Price = *in.Price
	}
	if in.Duration != nil {
		cert.Duration = *in.Duration
	}
}

func validateFields(cert *domain.Certificate) error {
	if err := validateName(cert.Name); err != nil {
		return err
	}
	if err := validateDescription(cert.Description); err != nil {
		return err
	}
	if err := validatePrice(cert.Price); err != nil {
		return err
	}
	return validateDuration(cert.Duration)
}

func validatePatch(in domain.UpdateCertificateInput) error {
	if in.Name != nil {
		if err := validateName(strings.TrimSpace(*in.Name)); err != nil {
			return err
		}
	}
	if in.Description != nil {
		if err := validateDescription(strings.TrimSpace(*in.Description)); err != nil {
			return err
		}
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return err
		}
	}
	if in.Duration != nil {
		if err := validateDuration(*in.Duration); err != nil {
			return err
		}
	}
	return validateTagNames(in.TagNames)
}

func validateTagNames(names []string) error {
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return domain.Validation("tag name must not be blank")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return domain.Validation("name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return domain.Validation("name must be at most 255 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if description == "" {
		return domain.Validation("description is required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return domain.Validation("description must be at most 1000 characters")
	}
	return nil
}

func validatePrice(price float64) error {
	if err := domain.ValidateAmount("price", price); err != nil {
		return err
	}
	if price <= 0 {
		return domain.Validation("price must be positive")
	}
	return nil
}

func validateDuration(duration int) error {
	if duration <= 0 {
		return domain.Validation("duration must be positive")
	}
	return nil
}
