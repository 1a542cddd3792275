package cache

import (
	"testing"

	"github.com/ralt/updatelist/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMarkUpgradesSimple(t *testing.T) {
	c := New(
		installed("libc6", "2.35-0ubuntu3", version("2.35-0ubuntu3.1")),
		installed("bash", "5.1-6ubuntu1", nil),
	)

	assert.Equal(t, 0, c.MarkUpgrades())
	assert.True(t, c.Package("libc6").MarkedUpgrade)
	assert.False(t, c.Package("bash").IsMarked())
}

func TestMarkUpgradesInstallsNewDependencies(t *testing.T) {
	c := New(
		installed("app", "1.0", version("2.0", models.RelDepends, "libnew2 (>= 2.0)")),
		&models.Package{Name: "libnew2", Versions: []*models.Version{version("2.1", models.RelDepends, "libnew-common")}},
		&models.Package{Name: "libnew-common", Versions: []*models.Version{version("2.1")}},
	)

	c.MarkUpgrades()
	assert.True(t, c.Package("app").MarkedUpgrade)
	assert.True(t, c.Package("libnew2").MarkedInstall)
	assert.True(t, c.Package("libnew-common").MarkedInstall)
}

func TestMarkUpgradesKeepsBackUnresolvable(t *testing.T) {
	c := New(
		installed("app", "1.0", version("2.0", models.RelDepends, "libmissing")),
		installed("tool", "1.0", version("2.0", models.RelPreDepends, "app (>= 3.0)")),
	)

	c.MarkUpgrades()
	assert.False(t, c.Package("app").IsMarked())
	assert.False(t, c.Package("tool").IsMarked())
}

func TestMarkUpgradesAlternativesAndProvides(t *testing.T) {
	c := New(
		installed("mailer", "1.0", version("1.1", models.RelDepends, "default-mta | mail-transport-agent")),
		&models.Package{
			Name:      "postfix",
			Installed: version("3.6", models.RelProvides, "mail-transport-agent"),
		},
	)

	c.MarkUpgrades()
	assert.True(t, c.Package("mailer").MarkedUpgrade)
	assert.False(t, c.Package("postfix").MarkedInstall)
}

func TestMarkUpgradesConflicts(t *testing.T) {
	c := New(
		installed("new-tool", "1.0", version("2.0", models.RelConflicts, "old-tool", models.RelBreaks, "plugin (<< 2.0)")),
		installed("old-tool", "1.0", nil),
		installed("plugin", "1.5", nil),
		installed("other-plugin", "1.0", nil),
	)

	assert.Equal(t, 2, c.MarkUpgrades())
	assert.True(t, c.Package("old-tool").MarkedDelete)
	assert.True(t, c.Package("plugin").MarkedDelete)
	assert.False(t, c.Package("other-plugin").MarkedDelete)
}

func TestMarkUpgradesBreaksSatisfiedByUpgrade(t *testing.T) {
	c := New(
		installed("core", "1.0", version("2.0", models.RelBreaks, "plugin (<< 2.0)")),
		installed("plugin", "1.5", version("2.0")),
	)

	assert.Equal(t, 0, c.MarkUpgrades())
	assert.True(t, c.Package("core").MarkedUpgrade)
	assert.True(t, c.Package("plugin").MarkedUpgrade)
	assert.False(t, c.Package("plugin").MarkedDelete)
}

func TestMarkUpgradesResetsMarks(t *testing.T) {
	c := New(installed("foo", "1.0", nil))
	c.Package("foo").MarkedDelete = true
	c.Package("foo").MarkedInstall = true

	c.MarkUpgrades()
	assert.False(t, c.Package("foo").MarkedDelete)
	assert.False(t, c.Package("foo").MarkedInstall)
}
