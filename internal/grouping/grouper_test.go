package grouping

import (
	"testing"

	"github.com/ralt/updatelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrouper(db fakeDB, apps fakeApps) *Grouper {
	base := NewBaseSystem(db, DefaultFlavorPackages, DefaultMetaPackages, DefaultKernelPackages)
	return NewGrouper(db, apps, base)
}

func packages(db fakeDB, names ...string) []*models.Package {
	pkgs := make([]*models.Package, len(names))
	for i, name := range names {
		pkgs[i] = db[name]
	}
	return pkgs
}

func TestGroupApplicationAbsorbsDependency(t *testing.T) {
	db := fakeDB{}.add(pkg("app-x", "libx1"), pkg("libx1", ""))
	apps := fakeApps{"app-x": app("app-x", "App X")}

	groups := newTestGrouper(db, apps).Group(packages(db, "app-x", "libx1"))
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, KindApplication, g.Kind)
	assert.Equal(t, "App X", g.Name)
	assert.Equal(t, "app-x", g.Icon)
	assert.Equal(t, "app-x", g.Core.Package.Name)
	assert.Equal(t, []string{"app-x", "libx1"}, itemNames(g))
}

func TestGroupSharedDependencyStaysStandalone(t *testing.T) {
	db := fakeDB{}.add(pkg("app-x", "libx1"), pkg("app-y", "libx1"), pkg("libx1", ""))
	apps := fakeApps{
		"app-x": app("app-x", "App X"),
		"app-y": app("app-y", "App Y"),
	}

	groups := newTestGrouper(db, apps).Group(packages(db, "app-x", "app-y", "libx1"))
	assert.Equal(t, []string{"App X", "App Y", "libx1"}, groupNames(groups))

	assert.Equal(t, []string{"app-x"}, itemNames(groups[0]))
	assert.Equal(t, []string{"app-y"}, itemNames(groups[1]))
	assert.Equal(t, KindPackage, groups[2].Kind)
	assert.Equal(t, PackageIcon, groups[2].Icon)
	assert.Equal(t, []string{"libx1"}, itemNames(groups[2]))
}

func TestGroupSharedByThreeApplications(t *testing.T) {
	db := fakeDB{}.add(pkg("a", "lib"), pkg("b", "lib"), pkg("c", "lib"), pkg("lib", ""))
	apps := fakeApps{"a": app("a", "A"), "b": app("b", "B"), "c": app("c", "C")}

	groups := newTestGrouper(db, apps).Group(packages(db, "a", "b", "c", "lib"))
	assert.Equal(t, []string{"A", "B", "C", "lib"}, groupNames(groups))
}

func TestGroupKernelGoesToSystemGroup(t *testing.T) {
	db := fakeDB{}.add(
		pkg("linux-image-generic", "linux-image-5.15.0-100-generic"),
		pkg("linux-image-5.15.0-100-generic", ""),
		pkg("htop", ""),
	)

	groups := newTestGrouper(db, fakeApps{}).Group(packages(db, "linux-image-generic", "linux-image-5.15.0-100-generic", "htop"))
	assert.Equal(t, []string{"htop", "Ubuntu base"}, groupNames(groups))

	system := groups[1]
	assert.Equal(t, KindSystem, system.Kind)
	assert.Equal(t, SystemIcon, system.Icon)
	assert.Nil(t, system.Core)
	assert.Equal(t, []string{"linux-image-5.15.0-100-generic", "linux-image-generic"}, itemNames(system))
}

func TestGroupFlavorAnchorsSystemGroup(t *testing.T) {
	flavor := pkg("kubuntu-desktop", "plasma-desktop, kde-cli-tools")
	db := fakeDB{}.add(flavor, pkg("plasma-desktop", ""), pkg("kde-cli-tools", ""), pkg("ubuntu-desktop", ""))
	// only kubuntu-desktop is installed
	db["ubuntu-desktop"].Installed = nil

	groups := newTestGrouper(db, fakeApps{}).Group(packages(db, "kde-cli-tools"))
	require.Len(t, groups, 1)
	assert.Equal(t, "Kubuntu base", groups[0].Name)
}

func TestGroupApplicationWinsOverSystem(t *testing.T) {
	db := fakeDB{}.add(
		pkg("ubuntu-desktop", "firefox, libnss3"),
		pkg("firefox", "libnss3"),
		pkg("libnss3", ""),
	)
	apps := fakeApps{"firefox": app("firefox", "Firefox Web Browser")}

	groups := newTestGrouper(db, apps).Group(packages(db, "firefox", "libnss3"))
	require.Len(t, groups, 1)
	assert.Equal(t, "Firefox Web Browser", groups[0].Name)
	assert.Equal(t, []string{"firefox", "libnss3"}, itemNames(groups[0]))
}

func TestGroupOrdering(t *testing.T) {
	db := fakeDB{}.add(
		pkg("zeta", ""), pkg("Alpha", ""), pkg("beta", ""),
		pkg("app-b", ""), pkg("app-a", ""),
		pkg("ubuntu-minimal", ""),
	)
	apps := fakeApps{
		"app-b": app("app-b", "banana"),
		"app-a": app("app-a", "Apple"),
	}

	groups := newTestGrouper(db, apps).Group(packages(db, "zeta", "ubuntu-minimal", "app-b", "Alpha", "beta", "app-a"))
	assert.Equal(t, []string{"Apple", "banana", "Alpha", "beta", "zeta", "Ubuntu base"}, groupNames(groups))
}

func TestGroupDisjointAndComplete(t *testing.T) {
	db := fakeDB{}.add(
		pkg("editor", "libui, libcommon"),
		pkg("viewer", "libcommon"),
		pkg("libui", "libcommon"),
		pkg("libcommon", ""),
		pkg("linux-generic", "linux-image-generic"),
		pkg("linux-image-generic", ""),
		pkg("tool", ""),
	)
	apps := fakeApps{"editor": app("editor", "Editor"), "viewer": app("viewer", "Viewer")}
	input := packages(db, "editor", "viewer", "libui", "libcommon", "linux-generic", "linux-image-generic", "tool")

	first := newTestGrouper(db, apps).Group(input)

	seen := make(map[string]string)
	for _, g := range first {
		for _, p := range g.Packages() {
			owner, dup := seen[p.Name]
			assert.False(t, dup, "%s is in %s and %s", p.Name, owner, g.Name)
			seen[p.Name] = g.Name
		}
	}
	assert.Len(t, seen, len(input))

	assert.Equal(t, "Editor", seen["libui"])
	assert.Equal(t, "libcommon", seen["libcommon"])
	assert.Equal(t, "Ubuntu base", seen["linux-image-generic"])

	second := newTestGrouper(db, apps).Group(input)
	require.Equal(t, groupNames(first), groupNames(second))
	for i := range first {
		assert.Equal(t, itemNames(first[i]), itemNames(second[i]))
	}
}

func TestGroupSourceBucketOrder(t *testing.T) {
	db := fakeDB{}.add(
		pkgFrom("libreoffice-writer", "libreoffice", "libreoffice-core"),
		pkgFrom("libreoffice-calc", "libreoffice", "libreoffice-core"),
		pkgFrom("libreoffice-core", "libreoffice", ""),
	)
	apps := fakeApps{
		"libreoffice-writer": app("libreoffice-writer", "LibreOffice Writer"),
		"libreoffice-calc":   app("libreoffice-calc", "LibreOffice Calc"),
	}

	groups := newTestGrouper(db, apps).Group(packages(db, "libreoffice-writer", "libreoffice-core", "libreoffice-calc"))
	assert.Equal(t, []string{"LibreOffice Calc", "LibreOffice Writer", "libreoffice-core"}, groupNames(groups))
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, newTestGrouper(fakeDB{}, fakeApps{}).Group(nil))
}
