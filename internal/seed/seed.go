// Package seed fills the database with fixture groups and generated demo
// users and posts. Intended for development and tests.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "yatube-demo-123"

// Options configures a Seeder.
type Options struct {
	Users int
	Posts int
	// Seed makes generated data reproducible. Zero picks a random seed.
	Seed int64
	// MaxDays spreads post creation times over this many past days.
	MaxDays    int
	BcryptCost int
}

// Result reports what Run created.
type Result struct {
	Groups LoadResult
	Users  []*models.User
	Posts  int
}

// Seeder generates demo content.
type Seeder struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	hash  string
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, opts: opts, faker: gofakeit.New(opts.Seed)}
}

// passwordHash hashes DefaultPassword once per seeder.
func (s *Seeder) passwordHash() (string, error) {
	if s.hash != "" {
		return s.hash, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.opts.BcryptCost)
	if err != nil {
		return "", err
	}
	s.hash = string(h)
	return s.hash, nil
}

// BuildUser returns an unsaved user with a unique username.
func (s *Seeder) BuildUser(n int, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := s.passwordHash()
	if err != nil {
		return nil, err
	}
	first, last := s.faker.FirstName(), s.faker.LastName()
	user := &models.User{
		Username:  usernameFrom(first, last, n),
		FirstName: first,
		LastName:  last,
		Email:     s.faker.Email(),
		Password:  hash,
	}
	for _, o := range overrides {
		o(user)
	}
	return user, nil
}

// usernameFrom keeps only characters valid in a username.
func usernameFrom(first, last string, n int) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, strings.ToLower(first+"_"+last))
	return fmt.Sprintf("%s%d", clean, n)
}

// BuildPost returns an unsaved post by author, filed under group when it is non-nil.
func (s *Seeder) BuildPost(author *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	back := time.Duration(s.faker.Number(0, s.opts.MaxDays*24*60)) * time.Minute
	post := &models.Post{
		Text:      s.faker.Paragraph(1, s.faker.Number(1, 4), 12, "\n"),
		AuthorID:  author.ID,
		CreatedAt: time.Now().Add(-back),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	for _, o := range overrides {
		o(post)
	}
	return post
}

// Run loads the default groups, then creates the configured number of users
// and spreads the posts among them. Roughly a third of posts get no group.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	groupRepo := repository.NewGroupRepository(s.db)
	res := &Result{}

	loaded, err := ApplyFixtures(ctx, groupRepo, DefaultFixtures())
	if err != nil {
		return nil, err
	}
	res.Groups = loaded

	groups, err := groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	for i := 0; i < s.opts.Users; i++ {
		user, err := s.BuildUser(int(existing) + i + 1)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user %q: %w", user.Username, err)
		}
		res.Users = append(res.Users, user)
	}

	if len(res.Users) == 0 || s.opts.Posts <= 0 {
		return res, nil
	}

	posts := make([]*models.Post, 0, s.opts.Posts)
	for i := 0; i < s.opts.Posts; i++ {
		author := res.Users[s.faker.Number(0, len(res.Users)-1)]
		var group *models.Group
		if len(groups) > 0 && s.faker.Number(0, 2) > 0 {
			group = &groups[s.faker.Number(0, len(groups)-1)]
		}
		posts = append(posts, s.BuildPost(author, group))
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(posts, 100).Error; err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)
	cache.InvalidateIndex(ctx)

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}

// ClearAll deletes every post, user and group.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Post{}, &models.User{}, &models.Group{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
