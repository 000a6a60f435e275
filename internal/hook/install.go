package hook

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/formblock/formstool/internal/support"
)

//go:embed pre-commit.sh
var preCommitScript []byte

const managedMarker = "# formstool-managed"

// ErrForeignHook is returned when a pre-commit hook not written by formstool
// is already installed.
var ErrForeignHook = errors.New("a different pre-commit hook is installed")

// Install writes the pre-commit hook into root's .git/hooks. An existing
// hook written by someone else is only replaced when force is set.
func Install(root string, force bool) (string, error) {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%s is not a git work tree root", root)
	}
	path := filepath.Join(gitDir, "hooks", "pre-commit")
	if existing, err := os.ReadFile(path); err == nil {
		if !force && !bytes.Contains(existing, []byte(managedMarker)) {
			return path, fmt.Errorf("%s: %w (use --force to replace it)", path, ErrForeignHook)
		}
	}
	if err := support.WriteFileAtomic(path, preCommitScript, 0o755); err != nil {
		return path, err
	}
	return path, nil
}
