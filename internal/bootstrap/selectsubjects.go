package bootstrap

import (
	"gooze.dev/pkg/mutenv/internal/expression"
	m "gooze.dev/pkg/mutenv/internal/model"
)

// selectSubjects implements the resumable skip-until filter over an
// already-ordered subject sequence.
//
// With no start expressions it is the identity transform. Otherwise it
// drops every leading subject for which no start expression is a prefix of
// the subject's expression, then keeps everything from the first match
// onward, matching or not. A sequence with no matching subject yields an
// empty result; this is fast-forward-to-checkpoint semantics, not a
// subset filter.
func selectSubjects(env Env) []m.Subject {
	start := env.Config.StartExpressions
	if len(start) == 0 {
		return env.Subjects
	}

	for i, subject := range env.Subjects {
		if anyPrefix(start, subject) {
			return env.Subjects[i:]
		}
	}

	return []m.Subject{}
}

func anyPrefix(start []expression.Expression, subject m.Subject) bool {
	for _, expr := range start {
		if expr.Prefix(subject.Expression()) {
			return true
		}
	}

	return false
}
