package cache

import (
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// MarkUpgrades simulates a full distribution upgrade on the snapshot.
//
// Every upgradable package whose candidate dependencies can all be satisfied
// is marked for upgrade, and dependencies that are not yet installed are
// marked for install. Installed packages that a marked candidate conflicts
// with or breaks are marked for deletion; their count is returned.
func (c *Cache) MarkUpgrades() int {
	for _, pkg := range c.packages {
		pkg.MarkedInstall = false
		pkg.MarkedUpgrade = false
		pkg.MarkedDelete = false
	}

	for _, name := range c.names {
		pkg := c.packages[name]
		if !pkg.IsUpgradable() {
			continue
		}
		if missing, ok := c.resolvable(pkg.Candidate); !ok {
			logrus.Debugf("Keeping %s back: unresolvable dependency %s", pkg.Name, missing)
			continue
		}
		pkg.MarkedUpgrade = true
		c.markNewDependencies(pkg.Candidate)
	}

	wouldDelete := 0
	for _, name := range c.names {
		pkg := c.packages[name]
		if !pkg.IsMarked() {
			continue
		}
		for _, kind := range []string{models.RelConflicts, models.RelBreaks} {
			for _, group := range pkg.Candidate.Relations[kind] {
				for _, dep := range group {
					target := c.packages[dep.Name]
					if target == nil || target == pkg || !target.IsInstalled() || target.MarkedDelete {
						continue
					}
					// An upgraded target is checked against its new version
					version := target.Installed.Version
					if target.MarkedUpgrade {
						version = target.Candidate.Version
					}
					if !Satisfies(dep, version) {
						continue
					}
					logrus.Debugf("Upgrade of %s removes %s (%s %s)", pkg.Name, target.Name, kind, dep)
					target.MarkedDelete = true
					target.MarkedUpgrade = false
					wouldDelete++
				}
			}
		}
	}

	return wouldDelete
}

// resolvable checks that every Depends and Pre-Depends group of v has an
// alternative available in the snapshot
func (c *Cache) resolvable(v *models.Version) (models.OrGroup, bool) {
	for _, kind := range []string{models.RelPreDepends, models.RelDepends} {
		for _, group := range v.Relations[kind] {
			if !c.groupAvailable(group) {
				return group, false
			}
		}
	}
	return nil, true
}

func (c *Cache) groupAvailable(group models.OrGroup) bool {
	for _, dep := range group {
		if c.satisfier(dep, false) != nil {
			return true
		}
	}
	return false
}

// satisfier returns a package that satisfies dep, either by name or through
// Provides. With installedOnly only installed versions are considered.
func (c *Cache) satisfier(dep models.Dependency, installedOnly bool) *models.Package {
	if pkg := c.packages[dep.Name]; pkg != nil {
		if pkg.Installed != nil && Satisfies(dep, pkg.Installed.Version) {
			return pkg
		}
		if !installedOnly && pkg.Candidate != nil && Satisfies(dep, pkg.Candidate.Version) {
			return pkg
		}
	}

	for _, provider := range c.providers[dep.Name] {
		versions := []*models.Version{provider.Installed}
		if !installedOnly {
			versions = append(versions, provider.Candidate)
		}
		for _, v := range versions {
			if v != nil && provides(v, dep) {
				return provider
			}
		}
	}
	return nil
}

func provides(v *models.Version, dep models.Dependency) bool {
	for _, group := range v.Relations[models.RelProvides] {
		for _, p := range group {
			if p.Name != dep.Name {
				continue
			}
			if dep.Relation == "" {
				return true
			}
			// Only versioned provides satisfy versioned dependencies
			if p.Relation == "=" && Satisfies(dep, p.Version) {
				return true
			}
		}
	}
	return false
}

// markNewDependencies marks the not yet installed dependencies of v for install
func (c *Cache) markNewDependencies(v *models.Version) {
	for _, kind := range []string{models.RelPreDepends, models.RelDepends} {
		for _, group := range v.Relations[kind] {
			if c.groupInstalled(group) {
				continue
			}
			for _, dep := range group {
				pkg := c.satisfier(dep, false)
				if pkg == nil {
					continue
				}
				if !pkg.IsInstalled() && !pkg.MarkedInstall {
					pkg.MarkedInstall = true
					c.markNewDependencies(pkg.Candidate)
				}
				break
			}
		}
	}
}

func (c *Cache) groupInstalled(group models.OrGroup) bool {
	for _, dep := range group {
		pkg := c.satisfier(dep, true)
		if pkg != nil {
			return true
		}
		if pkg = c.satisfier(dep, false); pkg != nil && pkg.MarkedInstall {
			return true
		}
	}
	return false
}
