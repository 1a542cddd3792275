package cache

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/updatelist/internal/apt"
	"github.com/ralt/updatelist/internal/keyring"
	"github.com/ralt/updatelist/internal/models"
	"github.com/ralt/updatelist/internal/scanner"
	"github.com/ralt/updatelist/internal/utils"
	"github.com/sirupsen/logrus"
)

// Options controls where and how the package database is read
type Options struct {
	// Root is prepended to every system path ("/" for the running system)
	Root string
	// Architecture is the native dpkg architecture, e.g. amd64
	Architecture string
	// Keyring verifies Release files; nil leaves every index untrusted
	Keyring keyring.Verifier
	// Scanner discovers list files; defaults to a ListsScanner
	Scanner scanner.Scanner
}

// releaseInfo is the parsed Release of one list prefix
type releaseInfo struct {
	release *apt.Release
	trusted bool
}

type loader struct {
	opts     Options
	packages map[string]*models.Package
	order    []*models.Package
}

// Load reads dpkg's status database and apt's package lists below opts.Root
func Load(ctx context.Context, opts Options) (*Cache, error) {
	if opts.Root == "" {
		opts.Root = "/"
	}
	if opts.Scanner == nil {
		opts.Scanner = scanner.NewListsScanner()
	}

	l := &loader{
		opts:     opts,
		packages: make(map[string]*models.Package),
	}

	if err := l.loadStatus(); err != nil {
		return nil, err
	}

	listsDir := filepath.Join(opts.Root, "var", "lib", "apt", "lists")
	files, err := opts.Scanner.Scan(ctx, listsDir)
	if err != nil {
		return nil, &models.Error{
			Type: models.ErrPackageDB,
			Err:  fmt.Errorf("failed to scan lists: %w", err),
		}
	}

	releases := l.loadReleases(files)

	for _, file := range files {
		if file.Kind != scanner.KindPackages {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if file.Architecture != opts.Architecture && file.Architecture != "all" {
			logrus.Debugf("Skipping foreign architecture index %s", file.Path)
			continue
		}

		if err := l.loadIndex(file, releases[file.ReleasePrefix()]); err != nil {
			logrus.Warnf("Failed to read index %s: %v", file.Path, err)
		}
	}

	logrus.Debugf("Loaded %d packages from %s", len(l.order), opts.Root)
	return New(l.order...), nil
}

func (l *loader) get(name string) *models.Package {
	pkg, ok := l.packages[name]
	if !ok {
		pkg = &models.Package{Name: name}
		l.packages[name] = pkg
		l.order = append(l.order, pkg)
	}
	return pkg
}

// addVersion records v for pkg, merging origins into an existing version
// with the same version string
func addVersion(pkg *models.Package, v *models.Version) *models.Version {
	for _, existing := range pkg.Versions {
		if existing.Version != v.Version {
			continue
		}
		existing.Origins = append(existing.Origins, v.Origins...)
		if existing.Size == 0 {
			existing.Size = v.Size
		}
		// Index records carry fields the status file does not have
		for key, value := range v.Record {
			if _, ok := existing.Record[key]; !ok {
				existing.Record[key] = value
			}
		}
		return existing
	}
	pkg.Versions = append(pkg.Versions, v)
	return v
}

func (l *loader) archMatches(arch string) bool {
	return arch == "" || arch == "all" || arch == l.opts.Architecture
}

func (l *loader) loadStatus() error {
	path := filepath.Join(l.opts.Root, "var", "lib", "dpkg", "status")
	f, err := os.Open(path)
	if err != nil {
		return &models.Error{
			Type: models.ErrPackageDB,
			Err:  fmt.Errorf("failed to open dpkg status: %w", err),
		}
	}
	defer f.Close()

	stanzas, err := apt.ParseStanzas(f)
	if err != nil {
		return &models.Error{
			Type: models.ErrPackageDB,
			Err:  fmt.Errorf("failed to parse dpkg status: %w", err),
		}
	}

	for _, st := range stanzas {
		name := st.Get("Package")
		if name == "" || !apt.IsInstalledStatus(st.Get("Status")) {
			continue
		}
		arch := st.Get("Architecture")
		if !l.archMatches(arch) {
			logrus.Debugf("Ignoring foreign architecture %s:%s", name, arch)
			continue
		}

		pkg := l.get(name)
		if pkg.Installed != nil {
			logrus.Debugf("Duplicate status entry for %s, keeping the first", name)
			continue
		}

		v := apt.NewVersion(st)
		v.Origins = []models.Origin{{Archive: "now"}}
		pkg.Installed = addVersion(pkg, v)
		pkg.InstalledFiles = l.readFileList(name, arch)
	}

	return nil
}

// readFileList reads dpkg's info/<name>.list or info/<name>:<arch>.list
func (l *loader) readFileList(name, arch string) []string {
	infoDir := filepath.Join(l.opts.Root, "var", "lib", "dpkg", "info")
	candidates := []string{
		filepath.Join(infoDir, name+".list"),
		filepath.Join(infoDir, name+":"+arch+".list"),
	}

	for _, path := range candidates {
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		var files []string
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" && line != "/." {
				files = append(files, line)
			}
		}
		if err := sc.Err(); err != nil {
			logrus.Warnf("Failed to read %s: %v", path, err)
		}
		f.Close()
		return files
	}

	return nil
}

// loadReleases reads the InRelease or Release file of every list prefix
func (l *loader) loadReleases(files []scanner.IndexFile) map[string]releaseInfo {
	byPrefix := make(map[string]map[scanner.IndexKind]string)
	for _, file := range files {
		if file.Kind == scanner.KindPackages {
			continue
		}
		prefix := file.ReleasePrefix()
		if byPrefix[prefix] == nil {
			byPrefix[prefix] = make(map[scanner.IndexKind]string)
		}
		byPrefix[prefix][file.Kind] = file.Path
	}

	releases := make(map[string]releaseInfo)
	for prefix, paths := range byPrefix {
		info, err := l.loadRelease(paths)
		if err != nil {
			logrus.Warnf("Failed to read Release for %s: %v", prefix, err)
			continue
		}
		if !info.trusted {
			logrus.Warnf("Release for %s is not signed by a trusted key", prefix)
		}
		releases[prefix] = info
	}
	return releases
}

func (l *loader) loadRelease(paths map[scanner.IndexKind]string) (releaseInfo, error) {
	var info releaseInfo

	if path, ok := paths[scanner.KindInRelease]; ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return info, err
		}

		var text []byte
		if l.opts.Keyring != nil {
			text, err = l.opts.Keyring.VerifyClearsigned(data)
			if err != nil {
				logrus.Debugf("Verification of %s failed: %v", path, err)
			}
			info.trusted = err == nil
		}
		if text == nil {
			plain, ok := keyring.Plaintext(data)
			if !ok {
				return info, &models.Error{
					Type: models.ErrSignature,
					Err:  fmt.Errorf("%s is not clearsigned", path),
				}
			}
			text = plain
		}

		info.release, err = apt.ParseRelease(text)
		return info, err
	}

	path, ok := paths[scanner.KindRelease]
	if !ok {
		return info, fmt.Errorf("no Release file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return info, err
	}

	if sigPath, ok := paths[scanner.KindReleaseSignature]; ok && l.opts.Keyring != nil {
		sig, err := os.ReadFile(sigPath)
		if err != nil {
			return info, err
		}
		if err := l.opts.Keyring.VerifyDetached(data, sig); err != nil {
			logrus.Debugf("Verification of %s failed: %v", path, err)
		} else {
			info.trusted = true
		}
	}

	info.release, err = apt.ParseRelease(data)
	return info, err
}

func (l *loader) loadIndex(file scanner.IndexFile, info releaseInfo) error {
	origin := models.Origin{
		Archive:   file.Suite,
		Component: file.Component,
		Site:      file.Site,
	}

	if info.release != nil {
		origin.Archive = info.release.Suite
		origin.Codename = info.release.Codename
		origin.Origin = info.release.Origin
		origin.Label = info.release.Label
		origin.Trusted = info.trusted

		if sum, ok := info.release.IndexChecksum(file.Component, file.Architecture, file.Compression.Extension()); ok && info.trusted {
			match, err := sum.Matches(file.Path)
			if err != nil {
				return err
			}
			if !match {
				logrus.Warnf("Checksum mismatch for %s, treating it as untrusted", file.Path)
				origin.Trusted = false
			}
		}
	} else {
		logrus.Warnf("No Release found for %s", file.Path)
	}

	r, err := utils.OpenDecompressed(file.Path, file.Compression)
	if err != nil {
		return err
	}
	defer r.Close()

	stanzas, err := apt.ParseStanzas(r)
	if err != nil {
		return &models.Error{
			Type:    models.ErrIndexParse,
			Package: file.Path,
			Err:     err,
		}
	}

	for _, st := range stanzas {
		name := st.Get("Package")
		if name == "" || st.Get("Version") == "" {
			logrus.Debugf("Skipping incomplete stanza in %s", file.Path)
			continue
		}
		if !l.archMatches(st.Get("Architecture")) {
			continue
		}

		v := apt.NewVersion(st)
		v.Origins = []models.Origin{origin}
		addVersion(l.get(name), v)
	}

	logrus.Debugf("Read %d stanzas from %s", len(stanzas), file.Path)
	return nil
}
