package grouping

import "strings"

// DefaultFlavorPackages are the desktop meta-packages of the official flavors,
// in detection order
var DefaultFlavorPackages = []string{
	"ubuntu-desktop",
	"kubuntu-desktop",
	"xubuntu-desktop",
	"lubuntu-desktop",
	"ubuntu-mate-desktop",
	"ubuntu-budgie-desktop",
	"ubuntustudio-desktop",
	"ubuntukylin-desktop",
}

// DefaultMetaPackages anchor the base system besides the flavor package
var DefaultMetaPackages = []string{"ubuntu-standard", "ubuntu-minimal"}

// DefaultKernelPackages are the binary packages built by the linux-meta source
var DefaultKernelPackages = []string{
	"linux", "linux-image", "linux-headers-generic",
	"linux-image-generic", "linux-generic",
	"linux-headers-generic-pae", "linux-image-generic-pae",
	"linux-generic-pae", "linux-headers-omap", "linux-image-omap",
	"linux-omap", "linux-headers-server", "linux-image-server",
	"linux-server", "linux-signed-image-generic",
	"linux-signed-generic", "linux-headers-virtual",
	"linux-image-virtual", "linux-virtual",
	"linux-image-extra-virtual",
}

var flavorNames = map[string]string{
	"ubuntu":        "Ubuntu",
	"kubuntu":       "Kubuntu",
	"xubuntu":       "Xubuntu",
	"lubuntu":       "Lubuntu",
	"ubuntu-mate":   "Ubuntu MATE",
	"ubuntu-budgie": "Ubuntu Budgie",
	"ubuntustudio":  "Ubuntu Studio",
	"ubuntukylin":   "Ubuntu Kylin",
}

// BaseSystem describes the packages forming the system group
type BaseSystem struct {
	// Name is the flavor name, e.g. "Ubuntu"
	Name string
	// Anchors are the meta-package names whose dependencies are base packages
	Anchors []string
}

// NewBaseSystem detects the installed flavor and builds the anchor list from
// the flavor package followed by the meta and kernel packages
func NewBaseSystem(db Lookup, flavorPackages, metaPackages, kernelPackages []string) BaseSystem {
	flavor := FlavorPackage(db, flavorPackages)

	anchors := []string{flavor}
	anchors = append(anchors, metaPackages...)
	anchors = append(anchors, kernelPackages...)

	return BaseSystem{
		Name:    FlavorName(flavor),
		Anchors: anchors,
	}
}

// FlavorPackage returns the first installed package of candidates, or the
// first candidate when none is installed
func FlavorPackage(db Lookup, candidates []string) string {
	for _, name := range candidates {
		if pkg := db.Package(name); pkg != nil && pkg.IsInstalled() {
			return name
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return "ubuntu-desktop"
}

// FlavorName turns a flavor package name into a display name
func FlavorName(flavorPackage string) string {
	flavor := strings.TrimSuffix(flavorPackage, "-desktop")
	if name, ok := flavorNames[flavor]; ok {
		return name
	}

	words := strings.Split(flavor, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
