package content

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"phPortfolio/internal/database"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial content for an empty site.
type Seed struct {
	Hero       *database.Hero        `yaml:"hero"`
	About      *database.About       `yaml:"about"`
	Projects   []database.Project    `yaml:"projects"`
	Skills     []database.Skill      `yaml:"skills"`
	Experience []database.Experience `yaml:"experience"`
	Contact    *database.Contact     `yaml:"contact"`
}

// LoadSeed parses the seed file at path, or the built-in one when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}

// SeedResult summarises one seeding run.
type SeedResult struct {
	AlreadySeeded bool
	Inserted      int
	Sections      []string
}

// Seed inserts seed content unless the hero table already has a row.
// Sections are written one after another; a failure leaves earlier ones in place.
func (s *Store) Seed(ctx context.Context, seed *Seed) (SeedResult, error) {
	res := SeedResult{Sections: []string{}}

	heroes, err := registry["hero"].count(ctx, s.db)
	if err != nil {
		return res, fmt.Errorf("check hero: %w", err)
	}
	if heroes > 0 {
		res.AlreadySeeded = true
		return res, nil
	}

	db := s.db.WithContext(ctx)
	insert := func(name string, n int, value any) error {
		if n == 0 {
			return nil
		}
		if err := db.Create(value).Error; err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		res.Inserted += n
		res.Sections = append(res.Sections, name)
		return nil
	}

	if seed.Hero != nil {
		if err := insert("hero", 1, seed.Hero); err != nil {
			return res, err
		}
	}
	if seed.About != nil {
		if err := insert("about", 1, seed.About); err != nil {
			return res, err
		}
	}
	if err := insert("projects", len(seed.Projects), &seed.Projects); err != nil {
		return res, err
	}
	if err := insert("skills", len(seed.Skills), &seed.Skills); err != nil {
		return res, err
	}
	if err := insert("experience", len(seed.Experience), &seed.Experience); err != nil {
		return res, err
	}
	if seed.Contact != nil {
		if err := insert("contact", 1, seed.Contact); err != nil {
			return res, err
		}
	}
	return res, nil
}
