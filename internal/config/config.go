package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ralt/updatelist/internal/desktop"
	"github.com/ralt/updatelist/internal/grouping"
	"github.com/ralt/updatelist/internal/models"
	"github.com/ralt/updatelist/internal/phased"
	"github.com/ralt/updatelist/internal/security"
	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// SystemConfigFile is read relative to the root directory when present
const SystemConfigFile = "etc/update-list/config.yaml"

// Environment variables overriding the configuration files
const (
	EnvAlwaysIncludePhased = "UPDATE_LIST_ALWAYS_INCLUDE_PHASED_UPDATES"
	EnvNeverIncludePhased  = "UPDATE_LIST_NEVER_INCLUDE_PHASED_UPDATES"
	EnvDataDirs            = "XDG_DATA_DIRS"
	EnvCurrentDesktop      = "XDG_CURRENT_DESKTOP"
)

// DefaultDataDirs is used when XDG_DATA_DIRS is unset or empty
const DefaultDataDirs = "/usr/local/share/:/usr/share/"

// Default returns the built-in configuration
func Default() *models.Config {
	return &models.Config{
		RootDir:         "/",
		Architecture:    "amd64",
		Vendor:          security.DefaultVendor,
		MachineIDFile:   phased.DefaultMachineIDFile,
		ApplicationDirs: ApplicationDirs(DefaultDataDirs),
		AppInstallDir:   desktop.DefaultAppInstallDir,
		FlavorPackages:  append([]string(nil), grouping.DefaultFlavorPackages...),
		MetaPackages:    append([]string(nil), grouping.DefaultMetaPackages...),
		KernelPackages:  append([]string(nil), grouping.DefaultKernelPackages...),
	}
}

// ApplicationDirs turns a colon-separated data dir list into application dirs
func ApplicationDirs(dataDirs string) []string {
	var dirs []string
	for _, base := range strings.Split(dataDirs, ":") {
		if base == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(base, "applications"))
	}
	return dirs
}

// Load layers the configuration: defaults, the system file below root, the
// explicit file (which must exist when given) and the environment
func Load(root, explicitPath string) (*models.Config, error) {
	cfg := Default()
	if root != "" {
		cfg.RootDir = root
	}

	systemPath := filepath.Join(cfg.RootDir, SystemConfigFile)
	if _, err := os.Stat(systemPath); err == nil {
		if err := LoadFile(cfg, systemPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if err := LoadFile(cfg, explicitPath); err != nil {
			return nil, err
		}
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	// The root given on the command line wins over the files
	if root != "" {
		cfg.RootDir = root
	}

	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg
func LoadFile(cfg *models.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &models.Error{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to read config: %w", err),
		}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &models.Error{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to parse %s: %w", path, err),
		}
	}

	logrus.Debugf("Loaded configuration from %s", path)
	return nil
}

// ApplyEnv overlays environment variables onto cfg
func ApplyEnv(cfg *models.Config, lookup func(string) (string, bool)) error {
	for key, target := range map[string]*bool{
		EnvAlwaysIncludePhased: &cfg.AlwaysIncludePhasedUpdates,
		EnvNeverIncludePhased:  &cfg.NeverIncludePhasedUpdates,
	} {
		value, ok := lookup(key)
		if !ok || value == "" {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &models.Error{
				Type: models.ErrInvalidConfig,
				Err:  fmt.Errorf("invalid %s: %w", key, err),
			}
		}
		*target = b
	}

	if value, ok := lookup(EnvDataDirs); ok && value != "" {
		cfg.ApplicationDirs = ApplicationDirs(value)
	}
	if value, ok := lookup(EnvCurrentDesktop); ok {
		cfg.CurrentDesktop = value
	}

	return nil
}

// ResolveDist fills in the release codename from os-release when unset
func ResolveDist(cfg *models.Config) {
	if cfg.Dist != "" {
		return
	}

	path := filepath.Join(cfg.RootDir, "etc", "os-release")
	f, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment: true,
		KeyValueDelimiters:  "=",
	}, path)
	if err != nil {
		logrus.Warnf("Cannot determine release codename: %v", err)
		return
	}

	sec := f.Section("")
	for _, key := range []string{"VERSION_CODENAME", "UBUNTU_CODENAME"} {
		if value := sec.Key(key).String(); value != "" {
			cfg.Dist = value
			return
		}
	}
	logrus.Warnf("No release codename in %s, security updates will not be detected", path)
}

// Validate checks that the configuration is usable
func Validate(cfg *models.Config) error {
	if cfg.Architecture == "" {
		return &models.Error{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("architecture is required"),
		}
	}
	if cfg.Vendor == "" {
		return &models.Error{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("vendor is required"),
		}
	}
	if cfg.MachineIDFile == "" {
		return &models.Error{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("machine-id-file is required"),
		}
	}
	return nil
}
