package models

import "strings"

// Relation field names as they appear in Debian control stanzas
const (
	RelDepends    = "Depends"
	RelPreDepends = "Pre-Depends"
	RelRecommends = "Recommends"
	RelConflicts  = "Conflicts"
	RelBreaks     = "Breaks"
	RelProvides   = "Provides"
)

// Package is one entry of the package database, identified by name
type Package struct {
	Name string

	// Installed is the currently installed version, nil if not installed
	Installed *Version
	// Candidate is the version that would be installed on upgrade
	Candidate *Version
	// Versions holds every known version, newest first
	Versions []*Version

	// InstalledFiles lists absolute paths shipped by the installed version
	InstalledFiles []string

	// State changed by the dist-upgrade simulation
	MarkedInstall bool
	MarkedUpgrade bool
	MarkedDelete  bool
}

// IsInstalled reports whether some version of the package is installed
func (p *Package) IsInstalled() bool {
	return p.Installed != nil
}

// IsUpgradable reports whether the candidate differs from the installed version.
// The candidate is always the newest known version, so a different one is newer.
func (p *Package) IsUpgradable() bool {
	return p.Installed != nil && p.Candidate != nil && p.Candidate != p.Installed
}

// IsMarked reports whether the package is marked for install or upgrade
func (p *Package) IsMarked() bool {
	return p.MarkedInstall || p.MarkedUpgrade
}

// Version is a single installable version of a package
type Version struct {
	Version      string
	Architecture string
	// Source is the source package name (defaults to the binary name)
	Source  string
	Size    int64
	Summary string

	// Record holds every raw field of the control stanza
	Record map[string]string
	// Relations holds parsed relation fields keyed by field name
	Relations map[string][]OrGroup

	Origins []Origin
}

// Field returns a raw record field and whether it was present
func (v *Version) Field(key string) (string, bool) {
	if v == nil || v.Record == nil {
		return "", false
	}
	value, ok := v.Record[key]
	return value, ok
}

// DependencyNames returns the names of every alternative of the given
// relation kinds, in declaration order, without kind distinction
func (v *Version) DependencyNames(kinds ...string) []string {
	if v == nil {
		return nil
	}
	var names []string
	for _, kind := range kinds {
		for _, group := range v.Relations[kind] {
			for _, dep := range group {
				names = append(names, dep.Name)
			}
		}
	}
	return names
}

// Origin describes one location a version is available from
type Origin struct {
	// Archive is the Release "Suite" (e.g. jammy-security), "now" for dpkg status
	Archive   string
	Codename  string
	Origin    string
	Label     string
	Component string
	Site      string
	// Trusted is set when the index this origin comes from passed signature verification
	Trusted bool
}

// Dependency is a single relation target with an optional version constraint
type Dependency struct {
	Name     string
	Relation string // one of <<, <=, =, >=, >> or empty
	Version  string
}

// String renders the dependency in control-file syntax
func (d Dependency) String() string {
	if d.Relation == "" {
		return d.Name
	}
	return d.Name + " (" + d.Relation + " " + d.Version + ")"
}

// OrGroup is a list of alternatives, any one of which satisfies the relation
type OrGroup []Dependency

// String renders the group in control-file syntax
func (g OrGroup) String() string {
	parts := make([]string, len(g))
	for i, dep := range g {
		parts[i] = dep.String()
	}
	return strings.Join(parts, " | ")
}
