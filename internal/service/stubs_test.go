package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uint) (*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, uint) error
	countFn   func(context.Context, repository.PostFilter) (int64, error)
	listFn    func(context.Context, repository.PostFilter, int, int) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Count(ctx context.Context, f repository.PostFilter) (int64, error) {
	return s.countFn(ctx, f)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter, limit, offset int) ([]models.Post, error) {
	return s.listFn(ctx, f, limit, offset)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return nil, models.NewNotFoundError("Post", id) },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		countFn:   func(_ context.Context, _ repository.PostFilter) (int64, error) { return 0, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]models.Post, error) {
			return nil, nil
		},
	}
}

// groupRepoStub is a stub for repository.GroupRepository backed by a slice.
type groupRepoStub struct {
	groups []models.Group
}

func (s *groupRepoStub) GetByID(_ context.Context, id uint) (*models.Group, error) {
	for i := range s.groups {
		if s.groups[i].ID == id {
			return &s.groups[i], nil
		}
	}
	return nil, models.NewNotFoundError("Group", id)
}
func (s *groupRepoStub) GetBySlug(_ context.Context, slug string) (*models.Group, error) {
	for i := range s.groups {
		if s.groups[i].Slug == slug {
			return &s.groups[i], nil
		}
	}
	return nil, models.NewNotFoundError("Group", slug)
}
func (s *groupRepoStub) List(_ context.Context) ([]models.Group, error) {
	return s.groups, nil
}
func (s *groupRepoStub) Create(_ context.Context, g *models.Group) error {
	g.ID = uint(len(s.groups) + 1)
	s.groups = append(s.groups, *g)
	return nil
}
func (s *groupRepoStub) Upsert(ctx context.Context, g *models.Group) (bool, error) {
	if existing, err := s.GetBySlug(ctx, g.Slug); err == nil {
		existing.Title, existing.Description = g.Title, g.Description
		g.ID = existing.ID
		return false, nil
	}
	return true, s.Create(ctx, g)
}

// userRepoStub is a stub for repository.UserRepository backed by a map.
type userRepoStub struct {
	byName  map[string]*models.User
	nextID  uint
	failErr error
}

func newUserRepoStub(users ...*models.User) *userRepoStub {
	s := &userRepoStub{byName: map[string]*models.User{}}
	for _, u := range users {
		s.nextID++
		if u.ID == 0 {
			u.ID = s.nextID
		}
		s.byName[u.Username] = u
	}
	return s
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	for _, u := range s.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.NewNotFoundError("User", id)
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if s.failErr != nil {
		return nil, s.failErr
	}
	if u, ok := s.byName[username]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", username)
}
func (s *userRepoStub) Exists(_ context.Context, username string) (bool, error) {
	_, ok := s.byName[username]
	return ok, nil
}
func (s *userRepoStub) Create(_ context.Context, u *models.User) error {
	s.nextID++
	u.ID = s.nextID
	s.byName[u.Username] = u
	return nil
}
func (s *userRepoStub) List(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(s.byName))
	for _, u := range s.byName {
		out = append(out, *u)
	}
	return out, nil
}
