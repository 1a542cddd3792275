package grouping

import "github.com/ralt/updatelist/internal/models"

// DependencyKinds are the relations followed when testing reachability
var DependencyKinds = []string{models.RelDepends, models.RelRecommends}

// Lookup resolves package names in the package database
type Lookup interface {
	Package(name string) *models.Package
}

// DependsOn reports whether target is reachable from any of seeds by
// following Depends and Recommends of candidate versions. A seed named target
// counts as reachable. Packages without a candidate are dead ends.
//
// The visited set lives for one call only. Sharing it between calls would make
// the result depend on earlier queries.
func DependsOn(db Lookup, seeds []*models.Package, target string) bool {
	visited := make(map[string]struct{})
	for _, seed := range seeds {
		if reaches(db, seed, target, visited) {
			return true
		}
	}
	return false
}

func reaches(db Lookup, start *models.Package, target string, visited map[string]struct{}) bool {
	stack := []*models.Package{start}

	for len(stack) > 0 {
		pkg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pkg == nil || pkg.Candidate == nil {
			continue
		}
		if _, seen := visited[pkg.Name]; seen {
			continue
		}
		if pkg.Name == target {
			return true
		}
		visited[pkg.Name] = struct{}{}

		deps := pkg.Candidate.DependencyNames(DependencyKinds...)
		// Push in reverse so dependencies are explored in declaration order
		for i := len(deps) - 1; i >= 0; i-- {
			if dep := db.Package(deps[i]); dep != nil {
				stack = append(stack, dep)
			}
		}
	}

	return false
}
