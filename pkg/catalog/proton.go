package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// DefaultProtonPrefix is the series number the proton slices are named after
const DefaultProtonPrefix = "5091"

// ProtonSeries is a folder of per-slice DICOM files named
// <prefix>_<index:05d>.dcm
type ProtonSeries struct {
	dir    string
	prefix string
	count  int
}

// ScanProtonSeries counts the DICOM files in dir
func ScanProtonSeries(dir, prefix string) (*ProtonSeries, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list proton folder %s", dir)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".dcm") {
			count++
		}
	}

	if prefix == "" {
		prefix = DefaultProtonPrefix
	}
	return &ProtonSeries{dir: dir, prefix: prefix, count: count}, nil
}

// Len returns the number of DICOM files found, i.e. the slider range
func (s *ProtonSeries) Len() int {
	return s.count
}

// FileName returns the expected file name of a slice
func (s *ProtonSeries) FileName(index int) string {
	return fmt.Sprintf("%s_%05d.dcm", s.prefix, index)
}

// Path returns the file of a slice, failing if it does not exist
func (s *ProtonSeries) Path(index int) (string, error) {
	if index < 0 {
		return "", &IndexError{Kind: ErrSliceNotFound, Index: index, Count: s.count}
	}

	path := filepath.Join(s.dir, s.FileName(index))
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", &IndexError{Kind: ErrSliceNotFound, Index: index, Count: s.count, Path: path}
	}
	return path, nil
}
