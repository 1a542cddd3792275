package grouping

import (
	"sort"
	"strings"

	"github.com/ralt/updatelist/internal/models"
)

// Icons used for groups that are not applications
const (
	PackageIcon = "package"
	SystemIcon  = "distributor-logo"
)

// GroupKind distinguishes the three group shapes
type GroupKind int

const (
	KindApplication GroupKind = iota
	KindPackage
	KindSystem
)

// String returns the string representation of GroupKind
func (k GroupKind) String() string {
	switch k {
	case KindApplication:
		return "application"
	case KindPackage:
		return "package"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// UpdateItem is one package with its display name and icon
type UpdateItem struct {
	Package *models.Package
	Name    string
	Icon    string
}

// NewPackageItem wraps pkg with its package label
func NewPackageItem(pkg *models.Package) *UpdateItem {
	return &UpdateItem{
		Package: pkg,
		Name:    PackageLabel(pkg),
		Icon:    PackageIcon,
	}
}

// PackageLabel returns the display name of a package
func PackageLabel(pkg *models.Package) string {
	return pkg.Name
}

// UpdateGroup is a de-duplicated set of items presented together.
// Core is the anchoring item, nil for the system group.
type UpdateGroup struct {
	Kind GroupKind
	Name string
	Icon string
	Core *UpdateItem

	items []*UpdateItem
	index map[string]*UpdateItem
}

func newGroup(kind GroupKind, core *UpdateItem, name, icon string) *UpdateGroup {
	g := &UpdateGroup{
		Kind:  kind,
		Name:  name,
		Icon:  icon,
		Core:  core,
		index: make(map[string]*UpdateItem),
	}
	if core != nil {
		g.insert(core)
	}
	return g
}

// NewApplicationGroup creates a group anchored on the package shipping an application
func NewApplicationGroup(pkg *models.Package, name, icon string) *UpdateGroup {
	return newGroup(KindApplication, &UpdateItem{Package: pkg, Name: name, Icon: icon}, name, icon)
}

// NewPackageGroup creates a group for a single standalone package
func NewPackageGroup(pkg *models.Package) *UpdateGroup {
	item := NewPackageItem(pkg)
	return newGroup(KindPackage, item, item.Name, item.Icon)
}

// NewSystemGroup creates the empty base system group
func NewSystemGroup(flavorName string) *UpdateGroup {
	return newGroup(KindSystem, nil, flavorName+" base", SystemIcon)
}

func (g *UpdateGroup) insert(item *UpdateItem) {
	if _, ok := g.index[item.Package.Name]; ok {
		return
	}
	g.index[item.Package.Name] = item
	g.items = append(g.items, item)
}

// Add adds pkg to the group unless a package with that name is already in it
func (g *UpdateGroup) Add(pkg *models.Package) {
	g.insert(NewPackageItem(pkg))
}

// Contains reports whether a package with the given name is in the group
func (g *UpdateGroup) Contains(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Len returns the number of items
func (g *UpdateGroup) Len() int {
	return len(g.items)
}

// Items returns the items sorted case-insensitively by name
func (g *UpdateGroup) Items() []*UpdateItem {
	items := make([]*UpdateItem, len(g.items))
	copy(items, g.items)
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items
}

// Packages returns the packages of the group in insertion order
func (g *UpdateGroup) Packages() []*models.Package {
	pkgs := make([]*models.Package, len(g.items))
	for i, item := range g.items {
		pkgs[i] = item.Package
	}
	return pkgs
}

// IsDependency reports whether pkg is reachable from any item of the group
func (g *UpdateGroup) IsDependency(db Lookup, pkg *models.Package) bool {
	return DependsOn(db, g.Packages(), pkg.Name)
}

// PackagesAreSelected reports whether any item is marked for install or upgrade
func (g *UpdateGroup) PackagesAreSelected() bool {
	for _, item := range g.items {
		if item.Package.IsMarked() {
			return true
		}
	}
	return false
}

// SelectionIsInconsistent reports whether some, but not all, items are selected
func (g *UpdateGroup) SelectionIsInconsistent() bool {
	selected := 0
	for _, item := range g.items {
		if item.Package.IsMarked() {
			selected++
		}
	}
	return selected > 0 && selected < len(g.items)
}

// TotalSize sums the download sizes of the candidates
func (g *UpdateGroup) TotalSize() int64 {
	var size int64
	for _, item := range g.items {
		if item.Package.Candidate != nil {
			size += item.Package.Candidate.Size
		}
	}
	return size
}
