package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/formblock/formstool/internal/components"
	"github.com/formblock/formstool/internal/config"
	"github.com/formblock/formstool/internal/mappings"
	"github.com/formblock/formstool/internal/support"
	"github.com/spf13/cobra"
)

type doctorReport struct {
	GeneratedAtUtc string           `json:"generatedAtUtc"`
	RepoRoot       string           `json:"repoRoot"`
	ConfigPath     string           `json:"configPath,omitempty"`
	MappingFile    doctorMapping    `json:"mappingFile"`
	Components     doctorComponents `json:"components"`
	Manifest       doctorManifest   `json:"manifest"`
	Hook           doctorHook       `json:"hook"`
	Status         string           `json:"status"`
	Reasons        []string         `json:"reasons,omitempty"`
}

type doctorMapping struct {
	Path              string `json:"path"`
	Found             bool   `json:"found"`
	CustomArrayFound  bool   `json:"customArrayFound"`
	OOTBArrayFound    bool   `json:"ootbArrayFound"`
	InSyncWithFolders bool   `json:"inSyncWithFolders"`
}

type doctorComponents struct {
	Custom  []string `json:"custom"`
	OOTB    []string `json:"ootb"`
	Invalid []string `json:"invalid,omitempty"`
}

type doctorManifest struct {
	Path   string `json:"path"`
	Found  bool   `json:"found"`
	InSync bool   `json:"inSync"`
}

type doctorHook struct {
	Installed bool `json:"installed"`
	Managed   bool `json:"managed"`
}

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the form block layout, mapping file, manifest and hook",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := buildDoctorReport(a.cfg, a.cfgPath)
			reportPath := filepath.Join(a.cfg.Paths.Root, support.AuditDir, "doctor.json")
			if err := support.WriteJSONAtomic(reportPath, rep); err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if rep.Status == "FAIL" {
				return fmt.Errorf("doctor: %v", rep.Reasons)
			}
			return nil
		},
	}
}

func buildDoctorReport(cfg config.Config, cfgPath string) doctorReport {
	paths := mappings.PathsFromConfig(cfg)
	rep := doctorReport{
		GeneratedAtUtc: time.Now().UTC().Format(time.RFC3339),
		RepoRoot:       cfg.Paths.Root,
		ConfigPath:     cfgPath,
		MappingFile:    doctorMapping{Path: paths.MappingFile},
		Manifest:       doctorManifest{Path: paths.ManifestFile},
	}
	status := "OK"
	reasons := []string{}
	degrade := func(reason string) {
		if status == "OK" {
			status = "DEGRADED"
		}
		reasons = append(reasons, reason)
	}
	fail := func(reason string) {
		status = "FAIL"
		reasons = append(reasons, reason)
	}

	scanned := components.Lists{
		Custom: components.ScanDir(paths.Layout.CustomDir),
		OOTB:   components.ScanDir(paths.Layout.OOTBDir),
	}
	rep.Components = doctorComponents{Custom: scanned.Custom, OOTB: scanned.OOTB}
	for _, c := range []components.Category{components.Custom, components.OOTB} {
		names := scanned.Custom
		if c == components.OOTB {
			names = scanned.OOTB
		}
		var invalid *components.InvalidNamesError
		if errors.As(components.ValidateDirNames(c, names), &invalid) {
			rep.Components.Invalid = append(rep.Components.Invalid, invalid.Names...)
		}
	}
	if len(rep.Components.Invalid) > 0 {
		fail("component folders with illegal names")
	}

	src, err := os.ReadFile(paths.MappingFile)
	if err != nil {
		fail("mapping file not readable")
	} else {
		rep.MappingFile.Found = true
		custom, cerr := mappings.ReadCustom(src)
		ootb, oerr := mappings.ReadOOTB(src)
		rep.MappingFile.CustomArrayFound = cerr == nil
		rep.MappingFile.OOTBArrayFound = oerr == nil
		if cerr != nil || oerr != nil {
			fail("mapping file arrays not found")
		} else {
			rep.MappingFile.InSyncWithFolders = slices.Equal(custom, scanned.Custom) && slices.Equal(ootb, scanned.OOTB)
			if !rep.MappingFile.InSyncWithFolders {
				degrade("mapping file out of date; run formstool sync")
			}
		}
	}

	if m, err := mappings.ReadManifest(paths.ManifestFile); err == nil {
		rep.Manifest.Found = true
		l := m.Lists()
		rep.Manifest.InSync = slices.Equal(l.Custom, scanned.Custom) && slices.Equal(l.OOTB, scanned.OOTB)
		if !rep.Manifest.InSync {
			degrade("manifest out of date; run formstool sync")
		}
	} else {
		degrade("manifest missing; run formstool sync")
	}

	hookPath := filepath.Join(cfg.Paths.Root, ".git", "hooks", "pre-commit")
	if data, err := os.ReadFile(hookPath); err == nil {
		rep.Hook.Installed = true
		rep.Hook.Managed = bytes.Contains(data, []byte("formstool hook run"))
	}
	if !rep.Hook.Managed {
		degrade("pre-commit hook not installed; run formstool hook install")
	}

	rep.Status = status
	rep.Reasons = reasons
	return rep
}
