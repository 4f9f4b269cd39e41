// Package service holds the application's use cases on top of the repositories.
package service

import (
	"context"
	"time"

	"yatube/internal/cache"
	"yatube/internal/forms"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostPage is one page of posts, newest first.
type PostPage = pagination.Page[models.Post]

// ProfileView is what the profile page shows for one author.
type ProfileView struct {
	Author     *models.User
	Page       PostPage
	PostsCount int64
}

// DetailView is a single post with the number of posts its author wrote.
type DetailView struct {
	Post       *models.Post
	PostsCount int64
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	perPage   int
	indexTTL  time.Duration
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	perPage int,
	indexTTL time.Duration,
) *PostService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		perPage:   perPage,
		indexTTL:  indexTTL,
	}
}

func (s *PostService) page(ctx context.Context, filter repository.PostFilter, rawPage string) (PostPage, error) {
	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return PostPage{}, err
	}
	p := pagination.New(total, s.perPage)
	w := p.GetPage(rawPage)
	posts, err := s.postRepo.List(ctx, filter, w.Limit, w.Offset)
	if err != nil {
		return PostPage{}, err
	}
	return pagination.NewPage(p, w, posts), nil
}

// Index returns a page of all posts. Pages are cached for the index TTL.
func (s *PostService) Index(ctx context.Context, rawPage string) (PostPage, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "Index")
	var (
		page PostPage
		err  error
	)
	defer func() { finish(err) }()

	total, err := s.postRepo.Count(ctx, repository.PostFilter{})
	if err != nil {
		return PostPage{}, err
	}
	number := pagination.New(total, s.perPage).Number(rawPage)

	err = cache.Aside(ctx, cache.IndexPageKey(number), &page, s.indexTTL, func() error {
		var fetchErr error
		page, fetchErr = s.page(ctx, repository.PostFilter{}, rawPage)
		return fetchErr
	})
	return page, err
}

// GroupPosts returns the group and a page of its posts.
func (s *PostService) GroupPosts(ctx context.Context, slug, rawPage string) (*models.Group, PostPage, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "GroupPosts", attribute.String("group.slug", slug))
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		finish(err)
		return nil, PostPage{}, err
	}
	page, err := s.page(ctx, repository.PostFilter{GroupID: group.ID}, rawPage)
	finish(err)
	if err != nil {
		return nil, PostPage{}, err
	}
	return group, page, nil
}

// Profile returns the author, a page of their posts and their post count.
func (s *PostService) Profile(ctx context.Context, username, rawPage string) (*ProfileView, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "Profile", attribute.String("user.username", username))
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		finish(err)
		return nil, err
	}
	page, err := s.page(ctx, repository.PostFilter{AuthorID: author.ID}, rawPage)
	finish(err)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Author: author, Page: page, PostsCount: page.Count}, nil
}

// Detail returns one post and the number of posts by its author.
func (s *PostService) Detail(ctx context.Context, postID uint) (*DetailView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &DetailView{Post: post, PostsCount: count}, nil
}

// FormChoices returns the groups offered by the post form.
func (s *PostService) FormChoices(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// NewPostForm builds a post form with current group choices, prefilled from post when editing.
func (s *PostService) NewPostForm(ctx context.Context, post *models.Post) (*forms.PostForm, error) {
	groups, err := s.FormChoices(ctx)
	if err != nil {
		return nil, err
	}
	return forms.NewPostForm(groups, post), nil
}

func (s *PostService) checkGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
		if models.IsNotFound(err) {
			return models.NewValidationError("Выбранной группы не существует.")
		}
		return err
	}
	return nil
}

// Create stores a new post written by authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, in forms.PostInput) (*models.Post, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "Create")
	var err error
	defer func() { finish(err) }()

	if authorID == 0 {
		err = models.NewUnauthorizedError("Authentication required")
		return nil, err
	}
	if in.Text == "" {
		err = models.NewValidationError("Обязательное поле.")
		return nil, err
	}
	if err = s.checkGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{Text: in.Text, AuthorID: authorID, GroupID: in.GroupID}
	if err = s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsCreated.Inc()
	cache.InvalidateIndex(ctx)
	return post, nil
}

// GetForEdit loads a post that editorID is allowed to change.
func (s *PostService) GetForEdit(ctx context.Context, editorID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(editorID) {
		return post, models.NewForbiddenError("Only the author can edit this post")
	}
	return post, nil
}

// Edit replaces text and group of a post owned by editorID.
func (s *PostService) Edit(ctx context.Context, editorID, postID uint, in forms.PostInput) (*models.Post, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "Edit", attribute.Int("post.id", int(postID)))
	var err error
	defer func() { finish(err) }()

	post, err := s.GetForEdit(ctx, editorID, postID)
	if err != nil {
		return post, err
	}
	if in.Text == "" {
		err = models.NewValidationError("Обязательное поле.")
		return post, err
	}
	if err = s.checkGroup(ctx, in.GroupID); err != nil {
		return post, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	post.Group = nil
	if err = s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	observability.PostsEdited.Inc()
	cache.InvalidateIndex(ctx)
	return post, nil
}

// Delete removes a post owned by editorID.
func (s *PostService) Delete(ctx context.Context, editorID, postID uint) (*models.Post, error) {
	ctx, finish := observability.StartSpan(ctx, "service.post", "Delete", attribute.Int("post.id", int(postID)))
	var err error
	defer func() { finish(err) }()

	post, err := s.GetForEdit(ctx, editorID, postID)
	if err != nil {
		return post, err
	}
	if err = s.postRepo.Delete(ctx, postID); err != nil {
		return nil, err
	}
	cache.InvalidateIndex(ctx)
	return post, nil
}
