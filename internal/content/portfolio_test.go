package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioEmpty(t *testing.T) {
	store := NewStore(newTestDB(t))

	p, err := store.Portfolio(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"hero":null,"about":null,"projects":[],"skills":[],"experience":[],"contact":null}`,
		toJSON(t, p))
}

func TestPortfolioAfterSeed(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestDB(t))

	seed, err := LoadSeed("")
	require.NoError(t, err)
	res, err := store.Seed(ctx, seed)
	require.NoError(t, err)
	assert.False(t, res.AlreadySeeded)
	assert.Equal(t, 1+1+len(seed.Projects)+len(seed.Skills)+len(seed.Experience)+1, res.Inserted)
	assert.Equal(t, Names(), res.Sections)

	p, err := store.Portfolio(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Hero)
	require.NotNil(t, p.About)
	require.NotNil(t, p.Contact)
	assert.Len(t, p.Projects, len(seed.Projects))

	for i := 1; i < len(p.Skills); i++ {
		assert.LessOrEqual(t, p.Skills[i-1].Order, p.Skills[i].Order)
	}
	for _, proj := range p.FeaturedProjects() {
		assert.True(t, proj.Featured)
	}

	groups := p.SkillsByCategory()
	require.NotEmpty(t, groups)
	assert.Equal(t, p.Skills[0].Category, groups[0].Category)
	total := 0
	for _, g := range groups {
		total += len(g.Skills)
	}
	assert.Equal(t, len(p.Skills), total)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newTestDB(t))

	seed, err := LoadSeed("")
	require.NoError(t, err)
	_, err = store.Seed(ctx, seed)
	require.NoError(t, err)

	again, err := LoadSeed("")
	require.NoError(t, err)
	res, err := store.Seed(ctx, again)
	require.NoError(t, err)
	assert.True(t, res.AlreadySeeded)
	assert.Zero(t, res.Inserted)

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["hero"])
}

func TestLoadSeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hero:\n  title: Custom\nskills:\n  - {name: Go, category: Backend, proficiency: 50}\n"), 0o600))

	seed, err := LoadSeed(path)
	require.NoError(t, err)
	require.NotNil(t, seed.Hero)
	assert.Equal(t, "Custom", seed.Hero.Title)
	assert.Nil(t, seed.About)
	require.Len(t, seed.Skills, 1)

	store := NewStore(newTestDB(t))
	res, err := store.Seed(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, []string{"hero", "skills"}, res.Sections)

	_, err = LoadSeed(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
