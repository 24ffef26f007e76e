package content

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"phPortfolio/internal/database"
)

// Portfolio is the whole public site in one document. Missing singletons are
// null, empty collections are [].
type Portfolio struct {
	Hero       *database.Hero        `json:"hero"`
	About      *database.About       `json:"about"`
	Projects   []database.Project    `json:"projects"`
	Skills     []database.Skill      `json:"skills"`
	Experience []database.Experience `json:"experience"`
	Contact    *database.Contact     `json:"contact"`
}

// Portfolio loads all six sections concurrently.
func (s *Store) Portfolio(ctx context.Context) (*Portfolio, error) {
	var p Portfolio
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		p.Hero, err = first[database.Hero](gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		p.About, err = first[database.About](gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		p.Projects, err = ordered[database.Project](gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		p.Skills, err = ordered[database.Skill](gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		p.Experience, err = ordered[database.Experience](gctx, s.db)
		return err
	})
	g.Go(func() (err error) {
		p.Contact, err = first[database.Contact](gctx, s.db)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	return &p, nil
}

// FeaturedProjects filters the featured subset, keeping order.
func (p *Portfolio) FeaturedProjects() []database.Project {
	out := make([]database.Project, 0, len(p.Projects))
	for _, proj := range p.Projects {
		if proj.Featured {
			out = append(out, proj)
		}
	}
	return out
}

// SkillGroup is one category of the skills grid.
type SkillGroup struct {
	Category string
	Skills   []database.Skill
}

// SkillsByCategory groups skills in first-seen category order.
func (p *Portfolio) SkillsByCategory() []SkillGroup {
	var groups []SkillGroup
	index := make(map[string]int)
	for _, sk := range p.Skills {
		i, ok := index[sk.Category]
		if !ok {
			i = len(groups)
			index[sk.Category] = i
			groups = append(groups, SkillGroup{Category: sk.Category})
		}
		groups[i].Skills = append(groups[i].Skills, sk)
	}
	return groups
}
