package update

import (
	"testing"

	"github.com/ralt/updatelist/internal/phased"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	report := newTestClassifier(phased.Options{}).Classify(fixtureDB()).Report()

	assert.Equal(t, 5, report.NumUpdates)
	assert.Equal(t, []string{"broken", "foo"}, report.HeldBack)

	require.Len(t, report.SecurityGroups, 1)
	sec := report.SecurityGroups[0]
	assert.Equal(t, "package", sec.Kind)
	assert.Equal(t, "openssl", sec.Core)
	assert.Equal(t, int64(1000), sec.Size)
	require.Len(t, sec.Items, 1)
	assert.Equal(t, ItemReport{
		Name:             "openssl",
		Package:          "openssl",
		InstalledVersion: "0.9",
		CandidateVersion: "1.1",
		Size:             1000,
	}, sec.Items[0])

	require.Len(t, report.UpdateGroups, 2)
	app := report.UpdateGroups[0]
	assert.Equal(t, "App X", app.Name)
	assert.Equal(t, "application", app.Kind)
	assert.Equal(t, "app-x", app.Icon)
	assert.Equal(t, int64(3000), app.Size)
	assert.True(t, app.Selected)
	assert.False(t, app.Inconsistent)

	var items []string
	for _, item := range app.Items {
		items = append(items, item.Package)
	}
	assert.Equal(t, []string{"app-x", "libnew", "libx1"}, items)
	assert.Equal(t, "App X", app.Items[0].Name)

	// broken was not selected by the upgrade
	assert.False(t, report.UpdateGroups[1].Selected)
}

func TestReportEmpty(t *testing.T) {
	report := (&Result{}).Report()
	assert.NotNil(t, report.HeldBack)
	assert.Empty(t, report.HeldBack)
	assert.NotNil(t, report.SecurityGroups)
	assert.NotNil(t, report.UpdateGroups)
}
