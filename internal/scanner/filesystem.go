package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
)

// ListsScanner implements Scanner for the apt lists directory
type ListsScanner struct{}

// NewListsScanner creates a new apt lists scanner
func NewListsScanner() *ListsScanner {
	return &ListsScanner{}
}

// Scan lists the index and Release files of an apt lists directory.
// The directory is flat; subdirectories (partial/, auxfiles/) are ignored.
func (s *ListsScanner) Scan(ctx context.Context, dir string) ([]IndexFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Warnf("No apt lists directory at %s", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lists directory: %w", err)
	}

	var files []IndexFile
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() {
			continue
		}

		file, ok := ParseListName(entry.Name())
		if !ok {
			continue
		}
		file.Path = filepath.Join(dir, entry.Name())

		if file.Kind == KindPackages {
			compression, err := s.DetectCompression(file.Path)
			if err != nil {
				logrus.Warnf("Failed to detect compression for %s: %v", file.Path, err)
				continue
			}
			if compression == CompressionUnknown {
				logrus.Warnf("Unsupported compression for %s, skipping", file.Path)
				continue
			}
			file.Compression = compression
		}

		logrus.Debugf("Found %s file: %s", file.Kind, file.Path)
		files = append(files, file)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	logrus.Debugf("Found %d list files in %s", len(files), dir)
	return files, nil
}

// DetectCompression determines the compression of a file
func (s *ListsScanner) DetectCompression(path string) (Compression, error) {
	return DetectCompression(path)
}
