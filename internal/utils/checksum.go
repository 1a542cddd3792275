package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// Checksum contains the digest of a file as listed in a Release file
type Checksum struct {
	SHA256 string
	Size   int64
}

// CalculateChecksum calculates the SHA256 digest and size of a file in a single pass
func CalculateChecksum(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return nil, err
	}

	return &Checksum{
		SHA256: hex.EncodeToString(h.Sum(nil)),
		Size:   size,
	}, nil
}

// Matches reports whether the file at path has the expected digest and size
func (c *Checksum) Matches(path string) (bool, error) {
	actual, err := CalculateChecksum(path)
	if err != nil {
		return false, err
	}
	return actual.Size == c.Size && actual.SHA256 == c.SHA256, nil
}
