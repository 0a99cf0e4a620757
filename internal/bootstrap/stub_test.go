package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
)

// stubObject is a world object with a scriptable naming capability.
type stubObject struct {
	name     any
	panicMsg string
	kind     m.ObjectKind
	describe string
}

func (o stubObject) Name() any {
	if o.panicMsg != "" {
		panic(o.panicMsg)
	}

	return o.name
}

func (o stubObject) Kind() m.ObjectKind {
	if o.kind == "" {
		return m.KindFunction
	}

	return o.kind
}

func (o stubObject) Describe() string {
	if o.describe != "" {
		return o.describe
	}

	return fmt.Sprintf("stub %v", o.name)
}

func namedObject(name string) stubObject {
	return stubObject{name: name, describe: "function " + name}
}

// stubWorld replays a fixed object set and records infection writes.
type stubWorld struct {
	objects   []m.Object
	env       map[string]string
	loadPath  []m.Path
	required  []string
	badEnvKey string
	badReq    string
}

func newStubWorld(objects ...m.Object) *stubWorld {
	return &stubWorld{objects: objects, env: map[string]string{}}
}

func (w *stubWorld) EnumerateObjects(kind m.ObjectKind) []m.Object {
	var result []m.Object

	for _, obj := range w.objects {
		if obj.Kind() == kind {
			result = append(result, obj)
		}
	}

	return result
}

func (w *stubWorld) SetEnv(key, value string) error {
	if key == w.badEnvKey {
		return errors.New("refused")
	}

	w.env[key] = value

	return nil
}

func (w *stubWorld) AppendLoadPath(dir m.Path) {
	w.loadPath = append(w.loadPath, dir)
}

func (w *stubWorld) Require(name string) error {
	if name == w.badReq {
		return errors.New("unresolvable")
	}

	w.required = append(w.required, name)

	return nil
}

// stubReporter collects warnings in order.
type stubReporter struct {
	warnings []string
}

func (r *stubReporter) Warn(message string) {
	r.warnings = append(r.warnings, message)
}

// stubSubject is a subject with canned mutations.
type stubSubject struct {
	expr      expression.Expression
	mutations []m.Mutation
}

func subjectFor(pattern string, mutationIDs ...string) stubSubject {
	mutations := make([]m.Mutation, 0, len(mutationIDs))
	for _, id := range mutationIDs {
		mutations = append(mutations, m.Mutation{ID: id, Subject: pattern})
	}

	return stubSubject{expr: expression.MustParse(pattern), mutations: mutations}
}

func (s stubSubject) Expression() expression.Expression { return s.expr }
func (s stubSubject) Identification() string            { return s.expr.Syntax() }
func (s stubSubject) Mutations() []m.Mutation           { return s.mutations }

// stubMatcher yields a fixed subject sequence and remembers the Env it saw.
type stubMatcher struct {
	subjects []m.Subject
	sawEnv   Env
}

func (sm *stubMatcher) Call(env Env) []m.Subject {
	sm.sawEnv = env
	return sm.subjects
}

// scopeMatcher converts every matchable scope into one subject, keeping
// scope order.
type scopeMatcher struct{}

func (scopeMatcher) Call(env Env) []m.Subject {
	subjects := make([]m.Subject, 0, len(env.MatchableScopes))
	for _, scope := range env.MatchableScopes {
		subjects = append(subjects, stubSubject{expr: scope.Expression})
	}

	return subjects
}

// stubIntegration satisfies the Integration interface for wiring tests.
type stubIntegration struct {
	name string
}

func (i stubIntegration) Name() string       { return i.name }
func (i stubIntegration) Selector() Selector { return stubSelector{integration: i} }

func (i stubIntegration) RunTests(context.Context, m.Path, string) (bool, string, error) {
	return true, "", nil
}

type stubSelector struct {
	integration stubIntegration
}

func (s stubSelector) TestsFor(subject m.Subject) []string {
	return []string{"^Test" + subject.Identification() + "$"}
}

// stubSetup either succeeds with a stubIntegration or fails with a fixed
// message.
type stubSetup struct {
	failWith string
	sawEnv   Env
	calls    int
}

func (s *stubSetup) Setup(_ context.Context, env Env) (Integration, error) {
	s.calls++
	s.sawEnv = env

	if s.failWith != "" {
		return nil, errors.New(s.failWith)
	}

	return stubIntegration{name: "stub"}, nil
}

// recordingHooks notes every point invocation in order.
type recordingHooks struct {
	points []string
}

func (h *recordingHooks) Run(_ context.Context, point string, _ map[string]string) {
	h.points = append(h.points, point)
}

func parseExpr(text string) (expression.Expression, error) {
	return expression.Parse(text)
}
