package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for compression detection
var (
	gzipMagic = []byte{0x1F, 0x8B}
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	xzMagic   = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// DetectCompression determines the compression format based on magic bytes and file extension
func DetectCompression(path string) (Compression, error) {
	f, err := os.Open(path)
	if err != nil {
		return CompressionUnknown, err
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		// Empty files are valid (an empty index)
		if info, statErr := f.Stat(); statErr == nil && info.Size() == 0 {
			return CompressionNone, nil
		}
		return CompressionUnknown, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip, nil
	case bytes.HasPrefix(header, zstdMagic):
		return CompressionZstd, nil
	case bytes.HasPrefix(header, xzMagic):
		return CompressionXz, nil
	case bytes.HasPrefix(header, lz4Magic):
		// apt can store lists as lz4, which we cannot read
		return CompressionUnknown, nil
	}

	switch filepath.Ext(path) {
	case ".gz":
		return CompressionGzip, nil
	case ".xz":
		return CompressionXz, nil
	case ".zst":
		return CompressionZstd, nil
	case ".lz4":
		return CompressionUnknown, nil
	}

	return CompressionNone, nil
}

// ParseListName splits an apt list file name into its parts.
// It returns false for files that are not indexes or Release files.
func ParseListName(name string) (IndexFile, bool) {
	base := name
	for _, ext := range []string{".gz", ".xz", ".zst", ".lz4"} {
		base = strings.TrimSuffix(base, ext)
	}

	idx := strings.Index(base, "_dists_")
	if idx < 0 {
		return IndexFile{}, false
	}
	file := IndexFile{Site: base[:idx]}
	rest := strings.Split(base[idx+len("_dists_"):], "_")
	if len(rest) < 2 {
		return IndexFile{}, false
	}
	file.Suite = rest[0]

	last := rest[len(rest)-1]
	switch {
	case len(rest) == 2 && last == "InRelease":
		file.Kind = KindInRelease
	case len(rest) == 2 && last == "Release":
		file.Kind = KindRelease
	case len(rest) == 2 && last == "Release.gpg":
		file.Kind = KindReleaseSignature
	case last == "Packages" && len(rest) >= 4 && strings.HasPrefix(rest[len(rest)-2], "binary-"):
		file.Kind = KindPackages
		file.Component = strings.Join(rest[1:len(rest)-2], "/")
		file.Architecture = strings.TrimPrefix(rest[len(rest)-2], "binary-")
	default:
		return IndexFile{}, false
	}

	return file, true
}
