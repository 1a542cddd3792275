package security

import (
	"github.com/ralt/updatelist/internal/models"
)

// DefaultVendor is the Origin of the official archive
const DefaultVendor = "Ubuntu"

// VersionComparer orders version strings the way the package database does
type VersionComparer interface {
	CompareVersions(a, b string) int
}

// Classifier detects updates that come from the security pocket
type Classifier struct {
	dist   string
	vendor string
	cmp    VersionComparer
}

// NewClassifier creates a classifier for the release codename dist
func NewClassifier(dist, vendor string, cmp VersionComparer) *Classifier {
	if vendor == "" {
		vendor = DefaultVendor
	}
	return &Classifier{
		dist:   dist,
		vendor: vendor,
		cmp:    cmp,
	}
}

// IsSecurityUpdate reports whether any version newer than the installed one
// is available from the trusted <dist>-security archive of the vendor.
//
// This includes the case where a newer version exists in -updates and an
// older, but still newer than installed, version exists in -security.
func (c *Classifier) IsSecurityUpdate(pkg *models.Package) bool {
	if c.dist == "" {
		return false
	}

	archive := c.dist + "-security"
	for _, ver := range pkg.Versions {
		// discard versions that are not newer than the installed one
		if pkg.Installed != nil && c.cmp.CompareVersions(ver.Version, pkg.Installed.Version) <= 0 {
			continue
		}
		for _, origin := range ver.Origins {
			if origin.Archive == archive && origin.Origin == c.vendor && origin.Trusted {
				return true
			}
		}
	}
	return false
}
