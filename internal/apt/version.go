package apt

import (
	"strconv"
	"strings"

	"github.com/ralt/updatelist/internal/models"
)

// NewVersion builds a package version from a status or Packages stanza
func NewVersion(st Stanza) *models.Version {
	v := &models.Version{
		Version:      st.Get("Version"),
		Architecture: st.Get("Architecture"),
		Source:       sourceName(st),
		Summary:      summary(st.Get("Description")),
		Record:       map[string]string(st),
		Relations:    make(map[string][]models.OrGroup),
	}

	if size, err := strconv.ParseInt(st.Get("Size"), 10, 64); err == nil {
		v.Size = size
	}

	for _, field := range RelationFields {
		if value, ok := st[field]; ok {
			v.Relations[field] = ParseRelations(value)
		}
	}

	return v
}

// sourceName returns the source package, which may carry its own version
// ("Source: foo (1.2-1)") and defaults to the binary package name
func sourceName(st Stanza) string {
	src := st.Get("Source")
	if i := strings.Index(src, "("); i >= 0 {
		src = src[:i]
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return st.Get("Package")
	}
	return src
}

func summary(description string) string {
	if i := strings.Index(description, "\n"); i >= 0 {
		return description[:i]
	}
	return description
}

// IsInstalledStatus reports whether a dpkg Status field describes an installed package
func IsInstalledStatus(status string) bool {
	fields := strings.Fields(status)
	if len(fields) != 3 {
		return false
	}
	switch fields[2] {
	case "installed", "half-configured", "unpacked", "triggers-awaited", "triggers-pending":
		return true
	}
	return false
}
