package update

import (
	"github.com/ralt/updatelist/internal/desktop"
	"github.com/ralt/updatelist/internal/grouping"
	"github.com/ralt/updatelist/internal/models"
	"github.com/ralt/updatelist/internal/phased"
	"github.com/ralt/updatelist/internal/security"
	"github.com/sirupsen/logrus"
)

// PackageDB is the package database snapshot the classifier reads.
// It must not be modified by anyone else while Classify runs.
type PackageDB interface {
	grouping.Lookup

	// Packages returns every package in a stable order
	Packages() []*models.Package
	// CompareVersions orders two version strings
	CompareVersions(a, b string) int
	// MarkUpgrades simulates a full upgrade and returns the would-delete count
	MarkUpgrades() int
}

// SecurityChecker tells security updates apart from ordinary ones
type SecurityChecker interface {
	IsSecurityUpdate(pkg *models.Package) bool
}

// PhasingDecider withholds phased updates not yet offered to this machine
type PhasingDecider interface {
	ShouldWithhold(pkg *models.Package) bool
}

// Options wires the collaborators of a Classifier
type Options struct {
	Security SecurityChecker
	Phasing  PhasingDecider
	Apps     grouping.AppResolver

	FlavorPackages []string
	MetaPackages   []string
	KernelPackages []string
}

// Classifier splits the available upgrades into security and ordinary
// updates and groups each stream for review
type Classifier struct {
	opts Options
}

// NewClassifier creates a classifier from its collaborators
func NewClassifier(opts Options) *Classifier {
	return &Classifier{opts: opts}
}

// FromConfig builds a classifier for cfg. The machine id is read here; failing
// to read it is fatal, as no phasing decision can be made without it.
func FromConfig(cfg *models.Config, cmp security.VersionComparer) (*Classifier, error) {
	machineID, err := phased.ReadMachineID(cfg.MachineIDFile)
	if err != nil {
		return nil, err
	}

	return NewClassifier(Options{
		Security: security.NewClassifier(cfg.Dist, cfg.Vendor, cmp),
		Phasing: phased.NewDecider(machineID, phased.Options{
			AlwaysInclude: cfg.AlwaysIncludePhasedUpdates,
			NeverInclude:  cfg.NeverIncludePhasedUpdates,
		}),
		Apps: desktop.NewResolver(desktop.ResolverOptions{
			Root:            cfg.RootDir,
			ApplicationDirs: cfg.ApplicationDirs,
			AppInstallDir:   cfg.AppInstallDir,
			CurrentDesktop:  cfg.CurrentDesktop,
		}),
		FlavorPackages: cfg.FlavorPackages,
		MetaPackages:   cfg.MetaPackages,
		KernelPackages: cfg.KernelPackages,
	}), nil
}

// Classify walks the database once and returns the grouped update list
func (c *Classifier) Classify(db PackageDB) *Result {
	result := &Result{}

	// do the upgrade
	result.DistUpgradeWouldDelete = db.MarkUpgrades()

	var securityPkgs []*models.Package
	var upgradePkgs []*models.Package

	for _, pkg := range db.Packages() {
		withheld := false
		if pkg.IsUpgradable() || pkg.MarkedInstall {
			switch c.route(pkg) {
			case streamSecurity:
				securityPkgs = append(securityPkgs, pkg)
				result.NumUpdates++
			case streamUpdate:
				upgradePkgs = append(upgradePkgs, pkg)
				result.NumUpdates++
			case streamWithheld:
				withheld = true
			}
		}

		// phased updates are held back even though the upgrade selected them
		if pkg.IsUpgradable() && (!pkg.IsMarked() || withheld) {
			result.HeldBack = append(result.HeldBack, pkg.Name)
		}
	}

	base := grouping.NewBaseSystem(db, c.opts.FlavorPackages, c.opts.MetaPackages, c.opts.KernelPackages)
	grouper := grouping.NewGrouper(db, c.opts.Apps, base)
	result.UpdateGroups = grouper.Group(upgradePkgs)
	result.SecurityGroups = grouper.Group(securityPkgs)

	logrus.Debugf("Found %d updates (%d security packages, %d held back)",
		result.NumUpdates, len(securityPkgs), len(result.HeldBack))
	return result
}

type stream int

const (
	streamNone stream = iota
	streamSecurity
	streamUpdate
	streamWithheld
)

func (c *Classifier) route(pkg *models.Package) stream {
	if pkg.Candidate == nil || len(pkg.Candidate.Origins) == 0 {
		// can happen for e.g. locked packages
		logrus.Warnf("Upgradable but no candidate origins: %s", pkg.Name)
		return streamNone
	}

	// see if its a phased update and *not* a security update
	if c.opts.Security.IsSecurityUpdate(pkg) {
		return streamSecurity
	}
	if c.opts.Phasing.ShouldWithhold(pkg) {
		return streamWithheld
	}
	return streamUpdate
}
