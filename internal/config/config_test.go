package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/updatelist/internal/grouping"
	"github.com/ralt/updatelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAlwaysIncludePhased, EnvNeverIncludePhased, EnvDataDirs, EnvCurrentDesktop} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "/", cfg.RootDir)
	assert.Equal(t, "amd64", cfg.Architecture)
	assert.Equal(t, "Ubuntu", cfg.Vendor)
	assert.Equal(t, "/var/lib/dbus/machine-id", cfg.MachineIDFile)
	assert.Equal(t, "/usr/share/app-install/desktop", cfg.AppInstallDir)
	assert.Equal(t, []string{"/usr/local/share/applications", "/usr/share/applications"}, cfg.ApplicationDirs)
	assert.Equal(t, grouping.DefaultKernelPackages, cfg.KernelPackages)
	assert.False(t, cfg.AlwaysIncludePhasedUpdates)
	assert.False(t, cfg.NeverIncludePhasedUpdates)

	// the defaults are copies
	cfg.FlavorPackages[0] = "changed"
	assert.Equal(t, "ubuntu-desktop", grouping.DefaultFlavorPackages[0])
}

func TestApplicationDirs(t *testing.T) {
	assert.Equal(t, []string{"/opt/share/applications", "/usr/share/applications"},
		ApplicationDirs("/opt/share::/usr/share/"))
	assert.Empty(t, ApplicationDirs(""))
}

func TestLoadLayers(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()

	writeFile(t, filepath.Join(root, SystemConfigFile), `
architecture: arm64
never_include_phased_updates: true
meta_packages:
  - ubuntu-server
`)
	explicit := writeFile(t, filepath.Join(t.TempDir(), "override.yaml"), `
never_include_phased_updates: false
dist: noble
`)
	t.Setenv(EnvAlwaysIncludePhased, "true")
	t.Setenv(EnvDataDirs, "/srv/share")
	t.Setenv(EnvCurrentDesktop, "ubuntu:GNOME")

	cfg, err := Load(root, explicit)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.RootDir)
	assert.Equal(t, "arm64", cfg.Architecture)
	assert.Equal(t, "noble", cfg.Dist)
	assert.Equal(t, []string{"ubuntu-server"}, cfg.MetaPackages)
	assert.Equal(t, grouping.DefaultFlavorPackages, cfg.FlavorPackages)
	assert.False(t, cfg.NeverIncludePhasedUpdates)
	assert.True(t, cfg.AlwaysIncludePhasedUpdates)
	assert.Equal(t, []string{"/srv/share/applications"}, cfg.ApplicationDirs)
	assert.Equal(t, "ubuntu:GNOME", cfg.CurrentDesktop)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()

	_, err := Load(root, filepath.Join(root, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))

	unknown := writeFile(t, filepath.Join(root, "unknown.yaml"), "no_such_option: 1\n")
	_, err = Load(root, unknown)
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))

	t.Setenv(EnvNeverIncludePhased, "perhaps")
	_, err = Load(root, "")
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))
}

func TestLoadEmptyFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	empty := writeFile(t, filepath.Join(root, "empty.yaml"), "")

	cfg, err := Load(root, empty)
	require.NoError(t, err)
	assert.Equal(t, "amd64", cfg.Architecture)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvNeverIncludePhased: "1",
		EnvCurrentDesktop:     "KDE",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, lookup))
	assert.True(t, cfg.NeverIncludePhasedUpdates)
	assert.False(t, cfg.AlwaysIncludePhasedUpdates)
	assert.Equal(t, "KDE", cfg.CurrentDesktop)
	assert.Equal(t, Default().ApplicationDirs, cfg.ApplicationDirs)
}

func TestResolveDist(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "etc", "os-release"), `PRETTY_NAME="Ubuntu 22.04.4 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
VERSION="22.04.4 LTS (Jammy Jellyfish)"
VERSION_CODENAME=jammy
ID=ubuntu
ID_LIKE=debian
HOME_URL="https://www.ubuntu.com/"
UBUNTU_CODENAME=jammy
`)

	cfg := Default()
	cfg.RootDir = root
	ResolveDist(cfg)
	assert.Equal(t, "jammy", cfg.Dist)

	cfg.Dist = "noble"
	ResolveDist(cfg)
	assert.Equal(t, "noble", cfg.Dist)

	missing := Default()
	missing.RootDir = t.TempDir()
	ResolveDist(missing)
	assert.Empty(t, missing.Dist)
}

func TestResolveDistUbuntuCodename(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "etc", "os-release"), "NAME=\"Linux Mint\"\nUBUNTU_CODENAME=jammy\n")

	cfg := Default()
	cfg.RootDir = root
	ResolveDist(cfg)
	assert.Equal(t, "jammy", cfg.Dist)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))

	tests := []struct {
		name   string
		modify func(*models.Config)
	}{
		{"no architecture", func(c *models.Config) { c.Architecture = "" }},
		{"no vendor", func(c *models.Config) { c.Vendor = "" }},
		{"no machine id", func(c *models.Config) { c.MachineIDFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, models.IsType(err, models.ErrInvalidConfig))
		})
	}
}
