package bootstrap

import (
	"fmt"
	"log/slog"
	"sort"

	m "gooze.dev/pkg/mutenv/internal/model"
)

// namingViolationFormat is the fixed user-facing template for objects that
// break the naming contract. Name implementations are documented to return
// the object's fully qualified name as a non-empty string; code under
// analysis that violates this is reported and excluded, never fatal.
const namingViolationFormat = "%s (%T) violated the naming contract: %s. " +
	"Name must return the object's fully qualified name as a non-empty string; " +
	"the object was excluded from analysis."

// violation tags one object's failure to produce a usable name.
type violation struct {
	reason string
}

// matchableScopes enumerates the World's analyzable objects, derives each
// object's expression through its own naming capability, and returns the
// surviving scopes sorted by expression syntax ascending, deduplicated by
// syntax. The result is deterministic regardless of enumeration order.
//
// A misbehaving object is isolated, reported and excluded; it never aborts
// the construction. Parser rejections are silent exclusions.
func matchableScopes(env Env) []m.Scope {
	var objects []m.Object

	for _, kind := range env.Config.kinds() {
		objects = append(objects, env.World.EnumerateObjects(kind)...)
	}

	scopes := make([]m.Scope, 0, len(objects))

	for _, obj := range objects {
		name, v := resolveName(obj)
		if v != nil {
			env.Config.Reporter.Warn(fmt.Sprintf(namingViolationFormat, obj.Describe(), obj, v.reason))
			continue
		}

		expr, err := env.Config.Parse(name)
		if err != nil {
			slog.Debug("object name rejected by parser", "name", name, "error", err)
			continue
		}

		scopes = append(scopes, m.Scope{Raw: obj, Expression: expr})
	}

	sort.SliceStable(scopes, func(i, j int) bool {
		return scopes[i].Expression.Syntax() < scopes[j].Expression.Syntax()
	})

	return dedupeScopes(scopes)
}

// resolveName invokes the object's naming capability inside a fault
// boundary. A panic or a non-string result becomes a violation value; the
// failure never propagates past scope discovery.
func resolveName(obj m.Object) (name string, v *violation) {
	defer func() {
		if p := recover(); p != nil {
			v = &violation{reason: fmt.Sprintf("Name panicked with %v", p)}
		}
	}()

	value := obj.Name()

	s, ok := value.(string)
	if !ok {
		return "", &violation{reason: fmt.Sprintf("Name returned %#v instead of a string", value)}
	}

	if s == "" {
		return "", &violation{reason: "Name returned an empty string"}
	}

	return s, nil
}

// dedupeScopes drops scopes whose expression syntax was already seen.
// Duplicate objects are a defined possibility (one object reachable via
// aliased load paths); the first occurrence in sorted order wins.
func dedupeScopes(scopes []m.Scope) []m.Scope {
	result := scopes[:0]

	var previous string

	for i, scope := range scopes {
		if i > 0 && scope.Expression.Syntax() == previous {
			continue
		}

		previous = scope.Expression.Syntax()
		result = append(result, scope)
	}

	return result
}
