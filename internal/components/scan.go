package components

import (
	"os"
	"sort"

	xlog "github.com/formblock/formstool/internal/log"
)

// Layout locates the two component folders on disk.
type Layout struct {
	CustomDir string
	OOTBDir   string
}

// Dir returns the folder holding components of category c.
func (l Layout) Dir(c Category) string {
	if c == Custom {
		return l.CustomDir
	}
	return l.OOTBDir
}

// Lists is the scanned content of both component folders.
type Lists struct {
	Custom []string `yaml:"custom" json:"custom"`
	OOTB   []string `yaml:"ootb" json:"ootb"`
}

// ScanDir returns the sorted names of the immediate subdirectories of dir.
// An unreadable directory yields an empty list.
func ScanDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger := xlog.WithComponent("scanner")
		logger.Debug().Err(err).Str("dir", dir).Msg("component directory unreadable, treating as empty")
		return []string{}
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Scan reads both component folders and validates every name. Custom
// components are validated first; the first failing category is returned.
func Scan(layout Layout) (Lists, error) {
	lists := Lists{
		Custom: ScanDir(layout.CustomDir),
		OOTB:   ScanDir(layout.OOTBDir),
	}
	if err := ValidateDirNames(Custom, lists.Custom); err != nil {
		return Lists{}, err
	}
	if err := ValidateDirNames(OOTB, lists.OOTB); err != nil {
		return Lists{}, err
	}
	return lists, nil
}
