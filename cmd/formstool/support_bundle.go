package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/formblock/formstool/internal/config"
	"github.com/formblock/formstool/internal/support"
	"github.com/spf13/cobra"
)

func newSupportBundleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "support-bundle",
		Short: "Zip the mapping file, manifest, config and formstool logs for a bug report",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := a.cfg.Paths.Root
			name := fmt.Sprintf("support-bundle_%s.zip", time.Now().UTC().Format("20060102_150405"))
			outPath := filepath.Join(root, support.AuditDir, name)

			candidates := []string{
				a.cfg.Paths.MappingFile,
				a.cfg.Paths.ManifestFile,
				config.DefaultFileName,
				support.AuditDir + "/audit.log",
				support.AuditDir + "/doctor.json",
			}
			if a.cfgPath != "" {
				if rel, err := filepath.Rel(root, a.cfgPath); err == nil && !strings.HasPrefix(rel, "..") && rel != config.DefaultFileName {
					candidates = append(candidates, filepath.ToSlash(rel))
				}
			}
			added, err := support.WriteBundle(root, outPath, candidates)
			if err != nil {
				return err
			}
			writeln(a.out, "Wrote %s (%d files)", outPath, len(added))
			return nil
		},
	}
}
