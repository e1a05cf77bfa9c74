package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"review-backend/internal/models"
	"review-backend/internal/policy"
	"review-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

// memStore backs the in-memory repositories used by the service tests.
type memStore struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]models.User
	codes      []models.ConfirmationCode
	categories map[uint]models.Category
	genres     map[uint]models.Genre
	titles     map[uint]models.Title
	reviews    map[uint]models.Review
	comments   map[uint]models.Comment
	writes     int
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uint]models.User{},
		categories: map[uint]models.Category{},
		genres:     map[uint]models.Genre{},
		titles:     map[uint]models.Title{},
		reviews:    map[uint]models.Review{},
		comments:   map[uint]models.Comment{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// users

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.id()
	r.users[user.ID] = *user
	r.writes++
	return nil
}

func (r memUsers) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = *user
	r.writes++
	return nil
}

func (r memUsers) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r memUsers) find(match func(models.User) bool) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			u := u
			return &u
		}
	}
	return nil
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username }), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r memUsers) FindAll(_ context.Context, search string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(search)) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// confirmation codes

type memCodes struct{ *memStore }

func (r memCodes) Issue(_ context.Context, code *models.ConfirmationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		if r.codes[i].UserID == code.UserID && r.codes[i].ConsumedAt == nil {
			at := code.IssuedAt
			r.codes[i].ConsumedAt = &at
		}
	}
	code.ID = r.id()
	r.codes = append(r.codes, *code)
	return nil
}

func (r memCodes) Latest(_ context.Context, userID uint) (*models.ConfirmationCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.codes) - 1; i >= 0; i-- {
		if r.codes[i].UserID == userID {
			c := r.codes[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCodes) Consume(_ context.Context, id uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.codes {
		if r.codes[i].ID == id && r.codes[i].ConsumedAt == nil {
			r.codes[i].ConsumedAt = &at
			return true, nil
		}
	}
	return false, nil
}

// catalog

type memCategories struct{ *memStore }

func (r memCategories) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == category.Slug {
			return repository.ErrDuplicate
		}
	}
	category.ID = r.id()
	r.categories[category.ID] = *category
	r.writes++
	return nil
}

func (r memCategories) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	for tid, t := range r.titles {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
			r.titles[tid] = t
		}
	}
	r.writes++
	return nil
}

func (r memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

func (r memCategories) FindAll(_ context.Context, search string) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, c := range r.categories {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memGenres struct{ *memStore }

func (r memGenres) Create(_ context.Context, genre *models.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.genres {
		if g.Slug == genre.Slug {
			return repository.ErrDuplicate
		}
	}
	genre.ID = r.id()
	r.genres[genre.ID] = *genre
	r.writes++
	return nil
}

func (r memGenres) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.genres, id)
	r.writes++
	return nil
}

func (r memGenres) FindBySlug(_ context.Context, slug string) (*models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.genres {
		if g.Slug == slug {
			return &g, nil
		}
	}
	return nil, nil
}

func (r memGenres) FindBySlugs(_ context.Context, slugs []string) ([]models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Genre
	for _, g := range r.genres {
		for _, s := range slugs {
			if g.Slug == s {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (r memGenres) FindAll(_ context.Context, search string) ([]models.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Genre
	for _, g := range r.genres {
		if strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// titles

type memTitles struct{ *memStore }

func (r memTitles) Create(_ context.Context, title *models.Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	title.ID = r.id()
	r.titles[title.ID] = *title
	r.writes++
	return nil
}

func (r memTitles) Update(_ context.Context, title *models.Title) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles[title.ID] = *title
	r.writes++
	return nil
}

func (r memTitles) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for rid, rv := range r.reviews {
		if rv.TitleID == id {
			r.deleteReviewLocked(rid)
		}
	}
	delete(r.titles, id)
	r.writes++
	return nil
}

func (r memTitles) FindByID(_ context.Context, id uint) (*models.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.titles[id]
	if !ok {
		return nil, nil
	}
	if t.CategoryID != nil {
		if c, ok := r.categories[*t.CategoryID]; ok {
			t.Category = &c
		}
	}
	return &t, nil
}

func (r memTitles) FindAll(_ context.Context, filter models.TitleFilter) ([]models.Title, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Title
	for _, t := range r.titles {
		if filter.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Year != 0 && t.Year != filter.Year {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memTitles) Scores(_ context.Context, ids []uint) (map[uint][]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := map[uint]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := map[uint][]int{}
	for _, rv := range r.reviews {
		if wanted[rv.TitleID] {
			out[rv.TitleID] = append(out[rv.TitleID], rv.Score)
		}
	}
	return out, nil
}

// reviews and comments

type memReviews struct{ *memStore }

func (r memReviews) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.AuthorID == review.AuthorID && rv.TitleID == review.TitleID {
			return repository.ErrDuplicate
		}
	}
	review.ID = r.id()
	r.reviews[review.ID] = *review
	r.writes++
	return nil
}

func (r memReviews) Update(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.reviews[review.ID]
	stored.Text = review.Text
	stored.Score = review.Score
	r.reviews[review.ID] = stored
	r.writes++
	return nil
}

func (m *memStore) deleteReviewLocked(id uint) {
	for cid, c := range m.comments {
		if c.ReviewID == id {
			delete(m.comments, cid)
		}
	}
	delete(m.reviews, id)
}

func (r memReviews) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteReviewLocked(id)
	r.writes++
	return nil
}

func (r memReviews) FindByID(_ context.Context, titleID, id uint) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok || rv.TitleID != titleID {
		return nil, nil
	}
	rv.AuthorName = r.users[rv.AuthorID].Username
	return &rv, nil
}

func (r memReviews) FindByTitle(_ context.Context, titleID uint) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Review
	for _, rv := range r.reviews {
		if rv.TitleID == titleID {
			rv.AuthorName = r.users[rv.AuthorID].Username
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type memComments struct{ *memStore }

func (r memComments) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = r.id()
	r.comments[comment.ID] = *comment
	r.writes++
	return nil
}

func (r memComments) Update(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.comments[comment.ID]
	stored.Text = comment.Text
	r.comments[comment.ID] = stored
	r.writes++
	return nil
}

func (r memComments) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.comments, id)
	r.writes++
	return nil
}

func (r memComments) FindByID(_ context.Context, reviewID, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.ReviewID != reviewID {
		return nil, nil
	}
	c.AuthorName = r.users[c.AuthorID].Username
	return &c, nil
}

func (r memComments) FindByReview(_ context.Context, reviewID uint) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.ReviewID == reviewID {
			c.AuthorName = r.users[c.AuthorID].Username
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fixtures

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memStore) addUser(username string, role policy.Role) policy.Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{
		ID:          m.id(),
		Username:    username,
		Email:       username + "@example.com",
		Role:        role,
		IsConfirmed: true,
	}
	m.users[u.ID] = u
	return u.Actor()
}

func (m *memStore) addGenre(name, slug string) models.Genre {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := models.Genre{ID: m.id(), Name: name, Slug: slug}
	m.genres[g.ID] = g
	return g
}

func (m *memStore) addCategory(name, slug string) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Category{ID: m.id(), Name: name, Slug: slug}
	m.categories[c.ID] = c
	return c
}

func (m *memStore) addTitle(name string, year int) models.Title {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := models.Title{ID: m.id(), Name: name, Year: year}
	m.titles[t.ID] = t
	return t
}

func (m *memStore) review(id uint) (models.Review, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rv, ok := m.reviews[id]
	return rv, ok
}

func (m *memStore) comment(id uint) (models.Comment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	return c, ok
}

// fakePosters records deletions.
type fakePosters struct {
	mu      sync.Mutex
	deleted []string
}

func (p *fakePosters) PresignUpload(_ context.Context, filename string) (string, string, error) {
	return "http://minio.local/upload/" + filename, "http://minio.local/posters/" + filename, nil
}

func (p *fakePosters) Delete(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, url)
	return nil
}
