package grouping

import (
	"github.com/ralt/updatelist/internal/apt"
	"github.com/ralt/updatelist/internal/desktop"
	"github.com/ralt/updatelist/internal/models"
)

// fakeDB is a package database keyed by name
type fakeDB map[string]*models.Package

func (db fakeDB) Package(name string) *models.Package {
	return db[name]
}

func (db fakeDB) add(pkgs ...*models.Package) fakeDB {
	for _, pkg := range pkgs {
		db[pkg.Name] = pkg
	}
	return db
}

// pkg builds an upgradable package whose candidate depends on deps
func pkg(name string, deps string) *models.Package {
	return pkgFrom(name, name, deps)
}

func pkgFrom(name, source, deps string) *models.Package {
	candidate := &models.Version{
		Version:   "2.0",
		Source:    source,
		Size:      100,
		Relations: map[string][]models.OrGroup{models.RelDepends: apt.ParseRelations(deps)},
	}
	return &models.Package{
		Name:          name,
		Installed:     &models.Version{Version: "1.0"},
		Candidate:     candidate,
		MarkedUpgrade: true,
	}
}

// fakeApps resolves packages to applications by name
type fakeApps map[string]*desktop.Application

func (a fakeApps) Resolve(p *models.Package) *desktop.Application {
	return a[p.Name]
}

func app(id, name string) *desktop.Application {
	return &desktop.Application{ID: id, Name: name, Icon: id}
}

func groupNames(groups []*UpdateGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

func itemNames(g *UpdateGroup) []string {
	var names []string
	for _, item := range g.Items() {
		names = append(names, item.Package.Name)
	}
	return names
}

func findGroup(groups []*UpdateGroup, name string) *UpdateGroup {
	for _, g := range groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}
