package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phPortfolio/internal/content"
	"phPortfolio/internal/database"
)

func strPtr(s string) *string { return &s }

func TestTechStack(t *testing.T) {
	assert.Equal(t, []string{"Go", "Gin", "PostgreSQL"}, TechStack(strPtr(" Go, Gin ,, PostgreSQL ,")))
	assert.Nil(t, TechStack(nil))
	assert.Nil(t, TechStack(strPtr(" , ")))
}

func TestPeriod(t *testing.T) {
	assert.Equal(t, "2020-01 - Present", Period("2020-01", nil))
	assert.Equal(t, "2020-01 - Present", Period("2020-01", strPtr("  ")))
	assert.Equal(t, "2020-01 - 2022-02", Period("2020-01", strPtr("2022-02")))
}

func TestMarkdown(t *testing.T) {
	out := string(Markdown("Hello **world**"))
	assert.Contains(t, out, "<strong>world</strong>")

	out = string(Markdown("<script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")

	assert.Empty(t, Markdown("   "))
}

func TestDerefAndPresent(t *testing.T) {
	assert.Equal(t, "", Deref(nil))
	assert.Equal(t, "x", Deref(strPtr("x")))
	assert.False(t, Present(nil))
	assert.False(t, Present(strPtr(" ")))
	assert.True(t, Present(strPtr("x")))
}

func TestTemplatesRender(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	p := &content.Portfolio{
		Hero:  &database.Hero{Title: "Hi there"},
		About: &database.About{Description: "I like *Go*"},
		Projects: []database.Project{
			{Title: "Shown", Featured: true, TechStack: strPtr("Go, Gin")},
			{Title: "Hidden"},
		},
		Skills:     []database.Skill{{Name: "Go", Category: "Backend"}},
		Experience: []database.Experience{{Company: "Acme", Role: "Dev", StartDate: "2021-01"}},
	}

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "home.html", map[string]any{
		"Title":       "Portfolio",
		"Portfolio":   p,
		"Featured":    p.FeaturedProjects(),
		"SkillGroups": p.SkillsByCategory(),
	})
	require.NoError(t, err)
	html := buf.String()
	assert.Contains(t, html, "Hi there")
	assert.Contains(t, html, "<em>Go</em>")
	assert.Contains(t, html, "Shown")
	assert.False(t, strings.Contains(html, "Hidden"))
	assert.Contains(t, html, "2021-01 - Present")
	assert.Contains(t, html, `<span class="badge">Gin</span>`)

	buf.Reset()
	err = tmpl.ExecuteTemplate(&buf, "home.html", map[string]any{
		"Title":     "Portfolio",
		"Portfolio": &content.Portfolio{},
	})
	require.NoError(t, err)

	for _, name := range []string{"projects.html", "login.html"} {
		buf.Reset()
		err = tmpl.ExecuteTemplate(&buf, name, map[string]any{"Title": "x", "Projects": p.Projects, "Error": "bad"})
		require.NoError(t, err, name)
	}
}
