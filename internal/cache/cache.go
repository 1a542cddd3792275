package cache

import (
	"sort"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// Cache is an in-memory snapshot of the package database.
//
// A Cache is not safe for concurrent mutation: MarkUpgrades changes package
// marks, and callers must not refresh or mark while a classification runs.
type Cache struct {
	packages map[string]*models.Package
	names    []string

	// providers maps virtual package names to the packages providing them
	providers map[string][]*models.Package
}

// New builds a cache from packages. Versions of each package are sorted
// newest first and a missing candidate defaults to the newest version.
func New(pkgs ...*models.Package) *Cache {
	c := &Cache{
		packages:  make(map[string]*models.Package, len(pkgs)),
		providers: make(map[string][]*models.Package),
	}

	for _, pkg := range pkgs {
		finalize(pkg)
		c.packages[pkg.Name] = pkg
		c.names = append(c.names, pkg.Name)
	}
	sort.Strings(c.names)

	for _, name := range c.names {
		pkg := c.packages[name]
		seen := make(map[string]bool)
		for _, v := range []*models.Version{pkg.Installed, pkg.Candidate} {
			for _, dep := range v.DependencyNames(models.RelProvides) {
				if !seen[dep] {
					seen[dep] = true
					c.providers[dep] = append(c.providers[dep], pkg)
				}
			}
		}
	}

	return c
}

func finalize(pkg *models.Package) {
	seen := make(map[*models.Version]bool)
	var versions []*models.Version
	for _, v := range append([]*models.Version{pkg.Installed, pkg.Candidate}, pkg.Versions...) {
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		versions = append(versions, v)
	}

	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i].Version, versions[j].Version) > 0
	})
	pkg.Versions = versions

	if pkg.Candidate == nil && len(versions) > 0 {
		pkg.Candidate = versions[0]
	}
}

// Package returns the package with the given name, or nil
func (c *Cache) Package(name string) *models.Package {
	return c.packages[name]
}

// Packages returns every package sorted by name
func (c *Cache) Packages() []*models.Package {
	pkgs := make([]*models.Package, len(c.names))
	for i, name := range c.names {
		pkgs[i] = c.packages[name]
	}
	return pkgs
}

// Len returns the number of packages in the cache
func (c *Cache) Len() int {
	return len(c.names)
}

// CompareVersions orders two version strings
func (c *Cache) CompareVersions(a, b string) int {
	return CompareVersions(a, b)
}

// CompareVersions orders two Debian version strings, returning -1, 0 or 1.
// Strings that are not valid Debian versions fall back to byte order.
func CompareVersions(a, b string) int {
	va, errA := debversion.NewVersion(a)
	vb, errB := debversion.NewVersion(b)
	if errA != nil || errB != nil {
		logrus.Debugf("Comparing unparsable versions %q and %q lexically", a, b)
		return strings.Compare(a, b)
	}
	switch c := va.Compare(vb); {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}

// Satisfies reports whether version satisfies the constraint of dep
func Satisfies(dep models.Dependency, version string) bool {
	if dep.Relation == "" {
		return true
	}

	cmp := CompareVersions(version, dep.Version)
	switch dep.Relation {
	case "<<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case "=":
		return cmp == 0
	case ">=":
		return cmp >= 0
	case ">>":
		return cmp > 0
	}
	return false
}
