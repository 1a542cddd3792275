package desktop

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ralt/updatelist/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultAppInstallDir is indexed by "<package>:<id>.desktop" file names
const DefaultAppInstallDir = "/usr/share/app-install/desktop"

// ResolverOptions configures where applications are looked up
type ResolverOptions struct {
	// Root is prepended to every path that is opened
	Root            string
	ApplicationDirs []string
	AppInstallDir   string
	CurrentDesktop  string
}

// Resolver maps packages to the application they ship
type Resolver struct {
	opts ResolverOptions
	load func(path string) (*Application, error)
}

// NewResolver creates a resolver reading desktop files from disk
func NewResolver(opts ResolverOptions) *Resolver {
	if opts.AppInstallDir == "" {
		opts.AppInstallDir = DefaultAppInstallDir
	}
	return &Resolver{
		opts: opts,
		load: Load,
	}
}

type ratedApplication struct {
	score int
	app   *Application
}

// Resolve returns the best application for pkg, or nil when the package
// ships no visible application
func (r *Resolver) Resolve(pkg *models.Package) *Application {
	var desktopFiles []string

	for _, installed := range pkg.InstalledFiles {
		if r.isApplication(installed) {
			desktopFiles = append(desktopFiles, r.rooted(installed))
		}
	}

	pattern := filepath.Join(r.rooted(r.opts.AppInstallDir), pkg.Name+":*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		logrus.Warnf("Invalid app-install pattern %s: %v", pattern, err)
	}
	desktopFiles = append(desktopFiles, matches...)

	var rated []ratedApplication
	for _, file := range desktopFiles {
		app, err := r.load(file)
		if err != nil {
			logrus.Warnf("Error loading .desktop file %s: %v", file, err)
			continue
		}
		if score := r.rate(app, pkg); score > 0 {
			rated = append(rated, ratedApplication{score: score, app: app})
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].score > rated[j].score
	})
	if len(rated) == 0 {
		return nil
	}
	return rated[0].app
}

func (r *Resolver) rate(app *Application, pkg *models.Package) int {
	score := 0
	if app.ShouldShow(r.opts.CurrentDesktop) {
		score++
		if app.ID == pkg.Name {
			score += 5
		}
	}
	return score
}

func (r *Resolver) isApplication(path string) bool {
	if filepath.Ext(path) != ".desktop" {
		return false
	}
	path = filepath.Clean(path)
	for _, dir := range r.opts.ApplicationDirs {
		if strings.HasPrefix(path, filepath.Clean(dir)+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (r *Resolver) rooted(path string) string {
	if r.opts.Root == "" || r.opts.Root == "/" {
		return path
	}
	return filepath.Join(r.opts.Root, path)
}
