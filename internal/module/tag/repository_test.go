package tag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/certvault/giftcert/internal/domain"
	"github.com/certvault/giftcert/internal/pkg"
	"github.com/certvault/giftcert/internal/testutil"
)

func seedTags(t *testing.T, repo domain.TagRepository, names ...string) []domain.Tag {
	t.Helper()
	tags := make([]domain.Tag, 0, len(names))
	for _, n := range names {
		tag := &domain.Tag{Name: n}
		require.NoError(t, repo.Create(context.Background(), tag))
		tags = append(tags, *tag)
	}
	return tags
}

// seedCertificate stores a certificate linked to tags, bypassing the certificate module.
func seedCertificate(t *testing.T, db *gorm.DB, name string, tags ...domain.Tag) domain.Certificate {
	t.Helper()
	cert := domain.Certificate{Name: name, Description: name + " description", Price: 10, Duration: 30}
	require.NoError(t, db.Omit(clause.Associations).Create(&cert).Error)
	for _, tag := range tags {
		require.NoError(t, db.Create(&domain.CertificateTag{CertificateID: cert.ID, TagID: tag.ID}).Error)
	}
	return cert
}

func seedOrder(t *testing.T, db *gorm.DB, user domain.User, cert domain.Certificate, cost float64) {
	t.Helper()
	order := domain.Order{UserID: user.ID, CertificateID: cert.ID, Cost: cost}
	require.NoError(t, db.Omit(clause.Associations).Create(&order).Error)
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) domain.User {
	t.Helper()
	user := domain.User{Nickname: nickname}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestTagRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()

	tag := &domain.Tag{Name: "spa"}
	require.NoError(t, repo.Create(ctx, tag))
	require.NotZero(t, tag.ID)

	byID, err := repo.GetByID(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "spa", byID.Name)

	byName, err := repo.GetByName(ctx, "spa")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, byName.ID)
}

func TestTagRepository_GetByName_ExactMatch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "spa")

	_, err := repo.GetByName(context.Background(), "sp")
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestTagRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestTagRepository_Create_Duplicate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "spa")

	err := repo.Create(context.Background(), &domain.Tag{Name: "spa"})
	assert.True(t, domain.IsAlreadyExists(err), "got %v", err)
}

func TestTagRepository_Create_DuplicateKeepsTransactionUsable(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "spa")

	err := pkg.WithTx(context.Background(), db, func(ctx context.Context) error {
		if err := repo.Create(ctx, &domain.Tag{Name: "spa"}); !domain.IsAlreadyExists(err) {
			return fmt.Errorf("want already exists, got %v", err)
		}
		return repo.Create(ctx, &domain.Tag{Name: "travel"})
	})
	require.NoError(t, err)

	_, err = repo.GetByName(context.Background(), "travel")
	assert.NoError(t, err)
}

func TestTagRepository_Search(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "Spa", "sparkling", "travel", "50%_off")
	ctx := context.Background()

	page, err := repo.Search(ctx, "SPA", domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalItems)
	assert.Equal(t, []string{"Spa", "sparkling"}, domain.TagNames(page.Items))

	page, err = repo.Search(ctx, "%", domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"50%_off"}, domain.TagNames(page.Items), "wildcards are matched literally")

	page, err = repo.Search(ctx, "", domain.PageRequest{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.HasPreviousPage())
	assert.False(t, page.HasNextPage())
}

func TestTagRepository_Search_NonASCII(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "Café", "cafe", "ÉTÉ", "Über")
	ctx := context.Background()

	tests := []struct {
		fragment string
		want     []string
	}{
		{"café", []string{"Café"}},
		{"CAFÉ", []string{"Café"}},
		{"été", []string{"ÉTÉ"}},
		{"über", []string{"Über"}},
		{"caf", []string{"Café", "cafe"}},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			page, err := repo.Search(ctx, tt.fragment, domain.PageRequest{Page: 1, PageSize: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.want, domain.TagNames(page.Items))
		})
	}
}

func TestTagRepository_Search_NoMatch(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "spa")

	page, err := repo.Search(context.Background(), "zzz", domain.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(0), page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
}

func TestTagRepository_CountUsagesAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	ctx := context.Background()
	tags := seedTags(t, repo, "used", "free")
	seedCertificate(t, db, "Spa", tags[0])

	n, err := repo.CountUsages(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.CountUsages(ctx, tags[1].ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.Delete(ctx, tags[1].ID))
	_, err = repo.GetByID(ctx, tags[1].ID)
	assert.True(t, domain.IsNotFound(err))

	err = repo.Delete(ctx, tags[1].ID)
	assert.True(t, domain.IsNotFound(err), "second delete: got %v", err)
}

func TestTagRepository_MostPopular(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	tags := seedTags(t, repo, "a", "b", "c")
	a, b, c := tags[0], tags[1], tags[2]

	c1 := seedCertificate(t, db, "one", a, b)
	c2 := seedCertificate(t, db, "two", b, c)
	c3 := seedCertificate(t, db, "three", c)

	small := seedUser(t, db, "small")
	big := seedUser(t, db, "big")
	seedOrder(t, db, small, c1, 10)
	seedOrder(t, db, small, c2, 10)
	seedOrder(t, db, big, c3, 100)
	seedOrder(t, db, big, c2, 5)

	got, err := repo.MostPopular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "c", got.Name)
}

func TestTagRepository_MostPopular_TopSpenderDecides(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	tags := seedTags(t, repo, "a", "b", "c")
	a, b, c := tags[0], tags[1], tags[2]

	c1 := seedCertificate(t, db, "one", a, b)
	c2 := seedCertificate(t, db, "two", b, c)
	c3 := seedCertificate(t, db, "three", c)

	top := seedUser(t, db, "top")
	other := seedUser(t, db, "other")
	seedOrder(t, db, top, c1, 60)
	seedOrder(t, db, top, c2, 60)
	seedOrder(t, db, other, c3, 100)

	got, err := repo.MostPopular(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
}

func TestTagRepository_MostPopular_NoOrders(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTagRepository(db)
	seedTags(t, repo, "a")

	_, err := repo.MostPopular(context.Background())
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}
