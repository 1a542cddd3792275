package apt

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ralt/updatelist/internal/utils"
)

// Release contains the fields of a Release or InRelease file used to
// describe where a package version comes from
type Release struct {
	Origin        string
	Label         string
	Suite         string
	Codename      string
	Architectures []string
	Components    []string

	// SHA256 maps index paths relative to the dists directory to their digests
	SHA256 map[string]utils.Checksum
}

// ParseRelease parses the (already unsigned) content of a Release file
func ParseRelease(data []byte) (*Release, error) {
	stanzas, err := ParseStanzas(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse Release: %w", err)
	}
	if len(stanzas) == 0 {
		return nil, fmt.Errorf("empty Release file")
	}
	st := stanzas[0]

	rel := &Release{
		Origin:        st.Get("Origin"),
		Label:         st.Get("Label"),
		Suite:         st.Get("Suite"),
		Codename:      st.Get("Codename"),
		Architectures: strings.Fields(st.Get("Architectures")),
		Components:    strings.Fields(st.Get("Components")),
		SHA256:        make(map[string]utils.Checksum),
	}

	// SHA256 section: one " <hash> <size> <path>" entry per line
	for _, line := range strings.Split(st.Get("SHA256"), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid size for %s in Release: %w", fields[2], err)
		}
		rel.SHA256[fields[2]] = utils.Checksum{SHA256: fields[0], Size: size}
	}

	return rel, nil
}

// IndexChecksum returns the digest listed for a Packages index of the given
// component and architecture, stored with the given extension
func (r *Release) IndexChecksum(component, arch, ext string) (utils.Checksum, bool) {
	path := fmt.Sprintf("%s/binary-%s/Packages%s", component, arch, ext)
	c, ok := r.SHA256[path]
	return c, ok
}
