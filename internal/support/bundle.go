package support

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteBundle zips the files named by rels (relative to root) into outPath.
// Missing files are skipped. It returns the names that were added.
func WriteBundle(root, outPath string, rels []string) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, err
	}
	pending, err := renameio.NewPendingFile(outPath, renameio.WithPermissions(0o644))
	if err != nil {
		return nil, fmt.Errorf("create pending file for %s: %w", outPath, err)
	}
	defer func() { _ = pending.Cleanup() }()

	zipw := zip.NewWriter(pending)
	added := []string{}
	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			_ = zipw.Close()
			return nil, err
		}
		w, err := zipw.Create(filepath.ToSlash(rel))
		if err != nil {
			_ = zipw.Close()
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			_ = zipw.Close()
			return nil, err
		}
		added = append(added, rel)
	}
	if err := zipw.Close(); err != nil {
		return nil, err
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("replace %s: %w", outPath, err)
	}
	return added, nil
}
