package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
)

type fakeObject struct {
	name   string
	region *m.SourceRegion
}

func (o fakeObject) Name() any          { return o.name }
func (o fakeObject) Kind() m.ObjectKind { return m.KindFunction }
func (o fakeObject) Describe() string   { return "function " + o.name }

type locatableObject struct {
	fakeObject
}

func (o locatableObject) Region() m.SourceRegion { return *o.region }

type countingGenerator struct {
	calls []string
}

func (g *countingGenerator) Generate(_ m.SourceRegion, owner string) []m.Mutation {
	g.calls = append(g.calls, owner)
	return []m.Mutation{{ID: owner + ":1", Subject: owner}}
}

func envWithScopes(names ...string) bootstrap.Env {
	scopes := make([]m.Scope, 0, len(names))
	for _, name := range names {
		scopes = append(scopes, m.Scope{
			Raw:        fakeObject{name: name},
			Expression: expression.MustParse(name),
		})
	}

	env := bootstrap.NewEnv(bootstrap.Config{}, nil)

	return env.WithMatchableScopes(scopes)
}

func mustSpec(t *testing.T, match, ignore []string) Spec {
	t.Helper()

	spec, err := ParseSpec(match, ignore)
	require.NoError(t, err)

	return spec
}

func identifications(subjects []m.Subject) []string {
	result := make([]string, 0, len(subjects))
	for _, subject := range subjects {
		result = append(result, subject.Identification())
	}

	return result
}

func TestParseSpec_RejectsBadPatterns(t *testing.T) {
	_, err := ParseSpec([]string{"not a pattern"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match patterns")

	_, err = ParseSpec(nil, []string{""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ignore patterns")
}

func TestMatcher_EmptySpecSelectsEverything(t *testing.T) {
	mt := New(mustSpec(t, nil, nil), nil)

	subjects := mt.Call(envWithScopes("auth.Login", "calc.Add"))
	assert.Equal(t, []string{"auth.Login", "calc.Add"}, identifications(subjects))
}

func TestMatcher_MatchByPrefix(t *testing.T) {
	mt := New(mustSpec(t, []string{"calc"}, nil), nil)

	subjects := mt.Call(envWithScopes("auth.Login", "calc.Add", "calc.Sub"))
	assert.Equal(t, []string{"calc.Add", "calc.Sub"}, identifications(subjects))
}

func TestMatcher_IgnoreWinsOverMatch(t *testing.T) {
	mt := New(mustSpec(t, []string{"calc"}, []string{"calc.Sub"}), nil)

	subjects := mt.Call(envWithScopes("calc.Add", "calc.Sub"))
	assert.Equal(t, []string{"calc.Add"}, identifications(subjects))
}

func TestMatcher_PreservesScopeOrder(t *testing.T) {
	mt := New(mustSpec(t, nil, nil), nil)

	subjects := mt.Call(envWithScopes("a.A", "b.B", "c.C"))
	assert.Equal(t, []string{"a.A", "b.B", "c.C"}, identifications(subjects))
}

func TestScopeSubject_MutationsThroughGenerator(t *testing.T) {
	gen := &countingGenerator{}
	mt := New(mustSpec(t, nil, nil), gen)

	region := m.SourceRegion{File: "x.go", StartLine: 1, EndLine: 3}
	scope := m.Scope{
		Raw:        locatableObject{fakeObject{name: "calc.Add", region: &region}},
		Expression: expression.MustParse("calc.Add"),
	}

	env := bootstrap.NewEnv(bootstrap.Config{}, nil).WithMatchableScopes([]m.Scope{scope})

	subjects := mt.Call(env)
	require.Len(t, subjects, 1)

	mutations := subjects[0].Mutations()
	require.Len(t, mutations, 1)
	assert.Equal(t, "calc.Add:1", mutations[0].ID)
	assert.Equal(t, []string{"calc.Add"}, gen.calls)
}

func TestScopeSubject_NonLocatableExpandsToNothing(t *testing.T) {
	gen := &countingGenerator{}
	mt := New(mustSpec(t, nil, nil), gen)

	subjects := mt.Call(envWithScopes("calc.Add"))
	require.Len(t, subjects, 1)

	assert.Empty(t, subjects[0].Mutations())
	assert.Empty(t, gen.calls)
}
