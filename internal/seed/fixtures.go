package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"gopkg.in/yaml.v3"
)

//go:embed groups.yml
var defaultGroups []byte

// GroupFixture describes one group in a fixture file.
type GroupFixture struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// Fixtures is the top-level shape of a fixture file.
type Fixtures struct {
	Groups []GroupFixture `yaml:"groups"`
}

// LoadResult counts what ApplyFixtures changed.
type LoadResult struct {
	Created int
	Updated int
}

// ReadFixtures decodes and validates fixtures. Unknown keys are rejected.
func ReadFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fx Fixtures
	if err := dec.Decode(&fx); err != nil {
		if err == io.EOF {
			return &fx, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	seen := make(map[string]bool, len(fx.Groups))
	for i, g := range fx.Groups {
		if err := validation.ValidateSlug(g.Slug); err != nil {
			return nil, fmt.Errorf("group #%d: %w", i+1, err)
		}
		if strings.TrimSpace(g.Title) == "" {
			return nil, fmt.Errorf("group %q: title is required", g.Slug)
		}
		if seen[g.Slug] {
			return nil, fmt.Errorf("group %q: duplicate slug", g.Slug)
		}
		seen[g.Slug] = true
	}
	return &fx, nil
}

// ReadFixturesFile reads fixtures from path.
func ReadFixturesFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFixtures(f)
}

// DefaultFixtures returns the groups every fresh installation starts with.
func DefaultFixtures() *Fixtures {
	fx, err := ReadFixtures(bytes.NewReader(defaultGroups))
	if err != nil {
		panic(fmt.Sprintf("embedded groups.yml: %v", err))
	}
	return fx
}

// ApplyFixtures upserts every group by slug, so loading the same file twice
// changes nothing the second time.
func ApplyFixtures(ctx context.Context, groups repository.GroupRepository, fx *Fixtures) (LoadResult, error) {
	var res LoadResult
	for _, g := range fx.Groups {
		created, err := groups.Upsert(ctx, &models.Group{
			Title:       strings.TrimSpace(g.Title),
			Slug:        g.Slug,
			Description: g.Description,
		})
		if err != nil {
			return res, fmt.Errorf("upsert group %q: %w", g.Slug, err)
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	middleware.Logger.InfoContext(ctx, "fixtures loaded",
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
	)
	return res, nil
}
