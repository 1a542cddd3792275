package apt

import (
	"strings"

	"github.com/ralt/updatelist/internal/models"
)

// RelationFields lists the stanza fields parsed into models.Version.Relations
var RelationFields = []string{
	models.RelDepends,
	models.RelPreDepends,
	models.RelRecommends,
	models.RelConflicts,
	models.RelBreaks,
	models.RelProvides,
}

// ParseRelations parses a relation field such as
// "libc6 (>= 2.34), libfoo1 | libfoo2, bar:any [amd64]"
func ParseRelations(value string) []models.OrGroup {
	var groups []models.OrGroup

	for _, clause := range strings.Split(value, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		var group models.OrGroup
		for _, alt := range strings.Split(clause, "|") {
			dep, ok := parseDependency(alt)
			if ok {
				group = append(group, dep)
			}
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}

	return groups
}

func parseDependency(s string) (models.Dependency, bool) {
	s = strings.TrimSpace(s)

	var dep models.Dependency
	if open := strings.Index(s, "("); open >= 0 {
		constraint := s[open+1:]
		if end := strings.Index(constraint, ")"); end >= 0 {
			constraint = constraint[:end]
		}
		dep.Relation, dep.Version = splitConstraint(strings.TrimSpace(constraint))
		s = s[:open]
	}

	// Drop architecture restrictions and build profiles
	if i := strings.IndexAny(s, "[<"); i >= 0 {
		s = s[:i]
	}

	// Drop multi-arch qualifiers such as ":any" or ":amd64"
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}

	dep.Name = strings.TrimSpace(s)
	return dep, dep.Name != ""
}

func splitConstraint(c string) (string, string) {
	for _, op := range []string{"<<", "<=", ">=", ">>", "=", "<", ">"} {
		if strings.HasPrefix(c, op) {
			rel := op
			// Obsolete single-character forms mean <= and >=
			switch op {
			case "<":
				rel = "<="
			case ">":
				rel = ">="
			}
			return rel, strings.TrimSpace(c[len(op):])
		}
	}
	return "", ""
}
