package arch

import (
	"sort"

	"github.com/roach88/contrary/internal/export"
	"github.com/roach88/contrary/internal/failure"
)

// Expectation names used in rule failure messages.
const (
	NameDependOn        = "ToDependOn"
	NameOnlyDependOn    = "ToOnlyDependOn"
	NameDependOnNothing = "ToDependOnNothing"
	NameBeUsedOn        = "ToBeUsedOn"
	NameOnlyBeUsedOn    = "ToOnlyBeUsedOn"
	NameBeUsedOnNothing = "ToBeUsedOnNothing"
)

// DependsOn holds when some unit of subject imports a unit inside target.
func DependsOn(subject Subject, target string) *Single {
	return &Single{
		subject: subject,
		name:    NameDependOn,
		eval: func(g Graph) error {
			if dependsOn(g, subject, target) {
				return nil
			}
			return failure.Assertionf("Expecting %s to depend on %s.",
				export.Shortened(subject.Value()), export.Shortened(target))
		},
	}
}

// UsedOn builds, for each namespace of subject, a rule holding when some unit
// inside target imports it.
func UsedOn(subject Subject, target string) *Group {
	rules := make([]Rule, 0, len(subject))
	for _, ns := range subject {
		rules = append(rules, &Single{
			subject: Subject{ns},
			name:    NameBeUsedOn,
			eval: func(g Graph) error {
				if dependsOn(g, Subject{target}, ns) {
					return nil
				}
				return failure.Assertionf("Expecting %s to be used on %s.",
					export.Shortened(ns), export.Shortened(target))
			},
		})
	}
	return FromRules(subject, rules...)
}

// UsedOnNothing holds when no unit outside subject imports a unit inside it.
func UsedOnNothing(subject Subject) *Single {
	return &Single{
		subject: subject,
		name:    NameBeUsedOnNothing,
		eval: func(g Graph) error {
			if users := usersOf(g, subject); len(users) > 0 {
				return failure.Assertionf("Expecting %s to be used on nothing. It is used on %s.",
					export.Shortened(subject.Value()), export.Shortened(users[0]))
			}
			return nil
		},
	}
}

// DependsOnNothing holds when no unit of subject imports anything outside
// the subject.
func DependsOnNothing(subject Subject) *Single {
	return &Single{
		subject: subject,
		name:    NameDependOnNothing,
		eval: func(g Graph) error {
			for _, u := range subject.members(g) {
				for _, imp := range g.Imports(u) {
					if !subject.covers(imp) {
						return failure.Assertionf("Expecting %s to depend on nothing. It depends on %s.",
							export.Shortened(u), export.Shortened(imp))
					}
				}
			}
			return nil
		},
	}
}

// OnlyDependsOn holds when every import of subject lies inside subject or
// one of targets.
func OnlyDependsOn(subject Subject, targets ...string) *Single {
	allowed := append(Subject(nil), subject...)
	allowed = append(allowed, targets...)
	return &Single{
		subject: subject,
		name:    NameOnlyDependOn,
		eval: func(g Graph) error {
			for _, u := range subject.members(g) {
				for _, imp := range g.Imports(u) {
					if !allowed.covers(imp) {
						return failure.Assertionf("Expecting %s to only depend on %s. It depends on %s.",
							export.Shortened(u), export.List(toAny(targets)...), export.Shortened(imp))
					}
				}
			}
			return nil
		},
	}
}

// OnlyUsedOn holds when every unit importing subject from outside lies
// inside one of targets.
func OnlyUsedOn(subject Subject, targets ...string) *Single {
	allowed := Subject(targets)
	return &Single{
		subject: subject,
		name:    NameOnlyBeUsedOn,
		eval: func(g Graph) error {
			for _, user := range usersOf(g, subject) {
				if !allowed.covers(user) {
					return failure.Assertionf("Expecting %s to only be used on %s. It is used on %s.",
						export.Shortened(subject.Value()), export.List(toAny(targets)...), export.Shortened(user))
				}
			}
			return nil
		},
	}
}

func dependsOn(g Graph, subject Subject, target string) bool {
	for _, u := range subject.members(g) {
		for _, imp := range g.Imports(u) {
			if Within(imp, target) {
				return true
			}
		}
	}
	return false
}

// usersOf returns, sorted, the units outside subject that import a unit
// inside it.
func usersOf(g Graph, subject Subject) []string {
	seen := make(map[string]struct{})
	for _, u := range g.Units() {
		if subject.covers(u) {
			continue
		}
		for _, imp := range g.Imports(u) {
			if subject.covers(imp) {
				seen[u] = struct{}{}
				break
			}
		}
	}
	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
