package services

import (
	"context"
	"testing"
	"time"

	"review-backend/internal/apperr"
	"review-backend/internal/metrics"
	"review-backend/internal/models"
	"review-backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCatalog_AdminOnlyWrites(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(memCategories{store}, memGenres{store}, testLogger(), metrics.Nop())
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)
	mod := store.addUser("mod", policy.RoleModerator)
	user := store.addUser("alice", policy.RoleUser)

	_, err := svc.CreateCategory(ctx, policy.Anonymous(), "Films", "films")
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	_, err = svc.CreateCategory(ctx, user, "Films", "films")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	_, err = svc.CreateCategory(ctx, mod, "Films", "films")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	created, err := svc.CreateCategory(ctx, admin, " Films ", "films")
	require.NoError(t, err)
	assert.Equal(t, "Films", created.Name)

	superuser := policy.Actor{UserID: 999, Username: "su", Role: policy.RoleUser, IsSuperuser: true}
	_, err = svc.CreateGenre(ctx, superuser, "Drama", "drama")
	require.NoError(t, err)

	list, err := svc.ListCategories(ctx, "fil")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "films", list[0].Slug)
}

func TestCatalog_SlugRules(t *testing.T) {
	store := newMemStore()
	svc := NewCatalogService(memCategories{store}, memGenres{store}, testLogger(), metrics.Nop())
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)

	_, err := svc.CreateGenre(ctx, admin, "Drama", "drama")
	require.NoError(t, err)

	_, err = svc.CreateGenre(ctx, admin, "Drama again", "drama")
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = svc.CreateGenre(ctx, admin, "Bad", "not a slug")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.CreateGenre(ctx, admin, "", "empty-name")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = svc.DeleteGenre(ctx, admin, "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	require.NoError(t, svc.DeleteGenre(ctx, admin, "drama"))
	genres, err := svc.ListGenres(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, genres)
}

func TestCatalog_DeleteCategoryKeepsTitles(t *testing.T) {
	store := newMemStore()
	catalog := NewCatalogService(memCategories{store}, memGenres{store}, testLogger(), metrics.Nop())
	titles := NewTitleService(memTitles{store}, memCategories{store}, memGenres{store}, nil, testLogger(), metrics.Nop())
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)
	store.addCategory("Films", "films")
	store.addGenre("Drama", "drama")

	title, err := titles.CreateTitle(ctx, admin, TitleInput{
		Name:     ptr("Solaris"),
		Year:     ptr(1972),
		Genres:   &[]string{"drama"},
		Category: ptr("films"),
	})
	require.NoError(t, err)
	require.NotNil(t, title.Category)

	require.NoError(t, catalog.DeleteCategory(ctx, admin, "films"))

	got, err := titles.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)
}

func newTitleFixture() (*memStore, TitleService, *fakePosters) {
	store := newMemStore()
	posters := &fakePosters{}
	svc := NewTitleService(memTitles{store}, memCategories{store}, memGenres{store}, posters, testLogger(), metrics.Nop())
	store.addGenre("Drama", "drama")
	store.addGenre("Sci-Fi", "sci-fi")
	store.addCategory("Films", "films")
	return store, svc, posters
}

func TestCreateTitle(t *testing.T) {
	store, svc, _ := newTitleFixture()
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)

	title, err := svc.CreateTitle(ctx, admin, TitleInput{
		Name:        ptr("Solaris"),
		Year:        ptr(1972),
		Description: ptr("Ocean planet."),
		Genres:      &[]string{"drama", "sci-fi", "drama"},
		Category:    ptr("films"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Solaris", title.Name)
	assert.Len(t, title.Genres, 2)
	require.NotNil(t, title.Category)
	assert.Equal(t, "films", title.Category.Slug)
	assert.Nil(t, title.Rating)
}

func TestCreateTitle_Validation(t *testing.T) {
	store, svc, _ := newTitleFixture()
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)
	nextYear := time.Now().Year() + 1

	cases := []struct {
		name  string
		in    TitleInput
		field string
	}{
		{"missing name", TitleInput{Year: ptr(2000), Genres: &[]string{"drama"}}, "name"},
		{"future year", TitleInput{Name: ptr("Later"), Year: ptr(nextYear), Genres: &[]string{"drama"}}, "year"},
		{"no genres", TitleInput{Name: ptr("X"), Year: ptr(2000), Genres: &[]string{}}, "genre"},
		{"unknown genre", TitleInput{Name: ptr("X"), Year: ptr(2000), Genres: &[]string{"western"}}, "genre"},
		{"unknown category", TitleInput{Name: ptr("X"), Year: ptr(2000), Genres: &[]string{"drama"}, Category: ptr("books")}, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTitle(ctx, admin, tc.in)
			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tc.field, appErr.Details[0].Field)
		})
	}
	assert.Zero(t, store.writeCount())
}

func TestUpdateTitle_PartialAndPosterCleanup(t *testing.T) {
	store, svc, posters := newTitleFixture()
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)
	user := store.addUser("alice", policy.RoleUser)

	title, err := svc.CreateTitle(ctx, admin, TitleInput{
		Name:      ptr("Stalker"),
		Year:      ptr(1979),
		Genres:    &[]string{"sci-fi"},
		PosterURL: ptr("http://minio.local/posters/old.png"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateTitle(ctx, user, title.ID, TitleInput{Name: ptr("Hacked")})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	updated, err := svc.UpdateTitle(ctx, admin, title.ID, TitleInput{
		Description: ptr("The Zone."),
		PosterURL:   ptr("http://minio.local/posters/new.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Stalker", updated.Name)
	assert.Equal(t, 1979, updated.Year)
	assert.Equal(t, "The Zone.", updated.Description)
	assert.Equal(t, []string{"http://minio.local/posters/old.png"}, posters.deleted)

	require.NoError(t, svc.DeleteTitle(ctx, admin, title.ID))
	assert.Contains(t, posters.deleted, "http://minio.local/posters/new.png")

	_, err = svc.GetTitle(ctx, title.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListTitles_Filter(t *testing.T) {
	store, svc, _ := newTitleFixture()
	ctx := context.Background()
	store.addTitle("Solaris", 1972)
	store.addTitle("Solaris", 2002)
	store.addTitle("Mirror", 1975)

	list, err := svc.ListTitles(ctx, models.TitleFilter{Name: "sol"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.ListTitles(ctx, models.TitleFilter{Name: "sol", Year: 2002})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2002, list[0].Year)
}

func TestPresignPoster(t *testing.T) {
	store, svc, _ := newTitleFixture()
	ctx := context.Background()
	admin := store.addUser("root", policy.RoleAdmin)
	user := store.addUser("alice", policy.RoleUser)

	_, err := svc.PresignPoster(ctx, user, "poster.png")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	_, err = svc.PresignPoster(ctx, admin, " ")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	upload, err := svc.PresignPoster(ctx, admin, "poster.png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local/posters/poster.png", upload.PublicURL)

	disabled := NewTitleService(memTitles{store}, memCategories{store}, memGenres{store}, nil, testLogger(), metrics.Nop())
	_, err = disabled.PresignPoster(ctx, admin, "poster.png")
	assert.True(t, apperr.IsKind(err, apperr.KindInternal))
}
