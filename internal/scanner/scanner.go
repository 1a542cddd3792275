package scanner

import "context"

// Compression represents the compression format of an index file
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionXz
	CompressionZstd
	CompressionUnknown
)

// String returns the string representation of Compression
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionXz:
		return "xz"
	case CompressionZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Extension returns the file extension apt uses for the compression
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionXz:
		return ".xz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// IndexKind represents the kind of file found in the apt lists directory
type IndexKind int

const (
	KindUnknown IndexKind = iota
	KindPackages
	KindRelease
	KindInRelease
	KindReleaseSignature
)

// String returns the string representation of IndexKind
func (k IndexKind) String() string {
	switch k {
	case KindPackages:
		return "Packages"
	case KindRelease:
		return "Release"
	case KindInRelease:
		return "InRelease"
	case KindReleaseSignature:
		return "Release.gpg"
	default:
		return "unknown"
	}
}

// IndexFile is a file found in the apt lists directory.
//
// apt flattens the repository URI into the file name, for example
// archive.ubuntu.com_ubuntu_dists_jammy-security_main_binary-amd64_Packages
type IndexFile struct {
	Path        string
	Kind        IndexKind
	Compression Compression

	// Site is everything before "_dists_"
	Site string
	// Suite is the distribution directory name
	Suite string
	// Component and Architecture are only set for Packages files
	Component    string
	Architecture string
}

// ReleasePrefix returns the list file name prefix shared by all files of one Release
func (f IndexFile) ReleasePrefix() string {
	return f.Site + "_dists_" + f.Suite
}

// Scanner interface for discovering package index files
type Scanner interface {
	// Scan lists the index files in an apt lists directory
	Scan(ctx context.Context, dir string) ([]IndexFile, error)

	// DetectCompression determines the compression of a file
	DetectCompression(path string) (Compression, error)
}
