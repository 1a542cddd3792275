package grouping

import (
	"sort"
	"strings"

	"github.com/ralt/updatelist/internal/desktop"
	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// AppResolver finds the application shipped by a package
type AppResolver interface {
	Resolve(pkg *models.Package) *desktop.Application
}

// Grouper partitions upgradable packages into presentable groups
type Grouper struct {
	db   Lookup
	apps AppResolver
	base BaseSystem
}

// NewGrouper creates a grouper over the package database db
func NewGrouper(db Lookup, apps AppResolver, base BaseSystem) *Grouper {
	return &Grouper{
		db:   db,
		apps: apps,
		base: base,
	}
}

// Group returns application groups sorted by name, followed by standalone
// package groups sorted by name and, last, the system group if any
func (g *Grouper) Group(pkgs []*models.Package) []*UpdateGroup {
	var appGroups []*UpdateGroup
	var pkgGroups []*UpdateGroup
	var ungrouped []*models.Package

	// Index packages by source package name, keeping first-seen order
	var sources []string
	bySource := make(map[string][]*models.Package)
	for _, pkg := range pkgs {
		src := pkg.Name
		if pkg.Candidate != nil && pkg.Candidate.Source != "" {
			src = pkg.Candidate.Source
		}
		if _, ok := bySource[src]; !ok {
			sources = append(sources, src)
		}
		bySource[src] = append(bySource[src], pkg)
	}

	for _, src := range sources {
		for _, pkg := range bySource[src] {
			if app := g.apps.Resolve(pkg); app != nil {
				logrus.Debugf("%s provides application %s", pkg.Name, app.ID)
				appGroups = append(appGroups, NewApplicationGroup(pkg, app.Name, app.Icon))
			} else {
				ungrouped = append(ungrouped, pkg)
			}
		}
	}

	// Stick together applications and their immediate dependencies
	var remaining []*models.Package
	for _, pkg := range ungrouped {
		var owners []*UpdateGroup
		for _, group := range appGroups {
			if group.IsDependency(g.db, pkg) {
				owners = append(owners, group)
				if len(owners) > 1 {
					break
				}
			}
		}

		switch len(owners) {
		case 1:
			owners[0].Add(pkg)
		case 0:
			remaining = append(remaining, pkg)
		default:
			logrus.Debugf("%s is shared by %s and %s, leaving it ungrouped", pkg.Name, owners[0].Name, owners[1].Name)
			remaining = append(remaining, pkg)
		}
	}

	// Separate out system base packages
	anchorNames := make(map[string]bool)
	var anchors []*models.Package
	for _, name := range g.base.Anchors {
		if anchorNames[name] {
			continue
		}
		if pkg := g.db.Package(name); pkg != nil {
			anchorNames[name] = true
			anchors = append(anchors, pkg)
		}
	}

	var systemGroup *UpdateGroup
	for _, pkg := range remaining {
		if anchorNames[pkg.Name] || DependsOn(g.db, anchors, pkg.Name) {
			if systemGroup == nil {
				systemGroup = NewSystemGroup(g.base.Name)
			}
			systemGroup.Add(pkg)
		} else {
			pkgGroups = append(pkgGroups, NewPackageGroup(pkg))
		}
	}

	sortByName(appGroups)
	sortByName(pkgGroups)
	if systemGroup != nil {
		pkgGroups = append(pkgGroups, systemGroup)
	}

	return append(appGroups, pkgGroups...)
}

func sortByName(groups []*UpdateGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Name) < strings.ToLower(groups[j].Name)
	})
}
