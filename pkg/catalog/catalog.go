// Package catalog maps dataset and slice indices onto files on disk. A
// Catalog is built once at startup and handed to whoever needs to resolve
// indices; nothing in here is global.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMRDExtension is the extension of raw acquisition files
const DefaultMRDExtension = ".MRD"

// Catalog is an ordered list of EPSI dataset folders below a root directory.
// Each folder holds one MRD acquisition.
type Catalog struct {
	root      string
	extension string
	datasets  []string
}

// New creates a catalog over explicit dataset folder names
func New(root, extension string, datasets []string) *Catalog {
	names := make([]string, len(datasets))
	copy(names, datasets)
	return &Catalog{root: root, extension: extension, datasets: names}
}

// Scan lists the sub-folders of root, sorted by name. Plain files in root are
// not datasets and are ignored.
func Scan(root, extension string) (*Catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list dataset folder %s", root)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if extension == "" {
		extension = DefaultMRDExtension
	}
	return &Catalog{root: root, extension: extension, datasets: names}, nil
}

// Len returns the number of datasets
func (c *Catalog) Len() int {
	return len(c.datasets)
}

// Datasets returns the dataset folder names in index order
func (c *Catalog) Datasets() []string {
	names := make([]string, len(c.datasets))
	copy(names, c.datasets)
	return names
}

// Name returns the folder name of a dataset
func (c *Catalog) Name(index int) (string, error) {
	if index < 0 || index >= len(c.datasets) {
		return "", &IndexError{Kind: ErrDatasetNotFound, Index: index, Count: len(c.datasets)}
	}
	return c.datasets[index], nil
}

// Resolve returns the path of the MRD file of a dataset. When a folder holds
// more than one, the first by name wins.
func (c *Catalog) Resolve(index int) (string, error) {
	name, err := c.Name(index)
	if err != nil {
		return "", err
	}

	folder := filepath.Join(c.root, name)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", errors.Wrapf(err, "failed to list dataset %s", name)
	}

	// os.ReadDir returns entries sorted by filename
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), c.extension) {
			return filepath.Join(folder, entry.Name()), nil
		}
	}

	return "", &IndexError{Kind: ErrDatasetNotFound, Index: index, Count: len(c.datasets), Path: folder}
}
