package apt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const releaseFixture = `Origin: Ubuntu
Label: Ubuntu
Suite: jammy-security
Version: 22.04
Codename: jammy
Architectures: amd64 arm64 i386
Components: main restricted universe multiverse
Description: Ubuntu Jammy 22.04
SHA256:
 2b1f0bd2a8e5ec5a1e1e7fbc15f2ad0c1c8d5cd4cd0fa19b7f2dba0b4fc1b7c5 1024 main/binary-amd64/Packages
 9d4d5c9f16e3b8bb7bd3b43ab8dc64d86a6ed1a20c4b8d3e9f20e3d1c2b4a5f6 300 main/binary-amd64/Packages.xz
`

func TestParseRelease(t *testing.T) {
	rel, err := ParseRelease([]byte(releaseFixture))
	require.NoError(t, err)

	assert.Equal(t, "Ubuntu", rel.Origin)
	assert.Equal(t, "Ubuntu", rel.Label)
	assert.Equal(t, "jammy-security", rel.Suite)
	assert.Equal(t, "jammy", rel.Codename)
	assert.Equal(t, []string{"amd64", "arm64", "i386"}, rel.Architectures)
	assert.Equal(t, []string{"main", "restricted", "universe", "multiverse"}, rel.Components)
	assert.Len(t, rel.SHA256, 2)

	sum, ok := rel.IndexChecksum("main", "amd64", ".xz")
	require.True(t, ok)
	assert.Equal(t, int64(300), sum.Size)
	assert.Equal(t, "9d4d5c9f16e3b8bb7bd3b43ab8dc64d86a6ed1a20c4b8d3e9f20e3d1c2b4a5f6", sum.SHA256)

	_, ok = rel.IndexChecksum("universe", "amd64", "")
	assert.False(t, ok)
}

func TestParseReleaseErrors(t *testing.T) {
	_, err := ParseRelease([]byte(""))
	assert.Error(t, err)

	_, err = ParseRelease([]byte("Origin: x\nSHA256:\n abc notanumber main/binary-amd64/Packages\n"))
	assert.Error(t, err)
}
