package tag

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/certvault/giftcert/internal/domain"
)

const maxNameLength = 100

// reconciler implements domain.TagReconciler on top of a TagRepository.
type reconciler struct {
	repo domain.TagRepository
}

// NewReconciler creates a TagReconciler that resolves names through repo.
func NewReconciler(repo domain.TagRepository) domain.TagReconciler {
	return &reconciler{repo: repo}
}

// Resolve returns one stored tag per distinct name in first-seen order.
// Names that do not exist yet are created. When a concurrent writer creates
// the same name first, the stored tag is read back instead.
func (r *reconciler) Resolve(ctx context.Context, names []string) ([]domain.Tag, error) {
	normalized, err := normalizeNames(names)
	if err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, 0, len(normalized))
	seen := make(map[uint]struct{}, len(normalized))
	for _, name := range normalized {
		tag, err := r.resolveOne(ctx, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[tag.ID]; dup {
			continue
		}
		seen[tag.ID] = struct{}{}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (r *reconciler) resolveOne(ctx context.Context, name string) (*domain.Tag, error) {
	tag, err := r.repo.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}

	tag = &domain.Tag{Name: name}
	err = r.repo.Create(ctx, tag)
	if err == nil {
		return tag, nil
	}
	if domain.IsAlreadyExists(err) {
		return r.repo.GetByName(ctx, name)
	}
	return nil, err
}

// Diff compares tags by id.
func (r *reconciler) Diff(current, desired []domain.Tag) (toAdd, toRemove []domain.Tag) {
	have := make(map[uint]struct{}, len(current))
	for _, t := range current {
		have[t.ID] = struct{}{}
	}
	want := make(map[uint]struct{}, len(desired))
	for _, t := range desired {
		if _, dup := want[t.ID]; dup {
			continue
		}
		want[t.ID] = struct{}{}
		if _, ok := have[t.ID]; !ok {
			toAdd = append(toAdd, t)
		}
	}
	for _, t := range current {
		if _, ok := want[t.ID]; !ok {
			toRemove = append(toRemove, t)
			want[t.ID] = struct{}{}
		}
	}
	return toAdd, toRemove
}

// normalizeNames trims names and drops repeats. Blank or overlong names are
// rejected.
func normalizeNames(names []string) ([]string, error) {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if err := validateName(n); err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}

func validateName(name string) error {
	if name == "" {
		return domain.Validation("tag name must not be blank")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return domain.Validation("tag name must be at most 100 characters")
	}
	return nil
}
