package main

import (
	"errors"
	"path/filepath"

	"github.com/formblock/formstool/internal/scaffold"
	"github.com/spf13/cobra"
)

func newScaffoldCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold",
		Short: "Create a new custom component interactively",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := scaffold.GeneratorFromConfig(a.cfg)
			answers, err := a.wizard(cmd.Context(), a.in, a.out, gen.Existing())
			if errors.Is(err, scaffold.ErrCancelled) {
				writeln(a.out, "%s", scaffold.WarningStyle.Render("Operation cancelled"))
				return nil
			}
			if err != nil {
				return err
			}

			created, err := gen.Create(cmd.Context(), answers.Name, answers.Base)
			if err != nil {
				return err
			}
			printCreated(a, answers.Name, created)
			return nil
		},
	}
}

func printCreated(a *app, name string, created scaffold.Created) {
	writeln(a.out, "%s", scaffold.SuccessStyle.Render("Successfully created custom component '"+name+"'!"))
	if !created.MappingUpdated {
		writeln(a.out, "%s", scaffold.WarningStyle.Render("mappings.js was not updated; run `formstool sync`"))
	}
	writeln(a.out, "\nFile structure created:")
	writeln(a.out, "%s", scaffold.DimStyle.Render("blocks/form/"))
	writeln(a.out, "%s", scaffold.DimStyle.Render("└── custom-components/"))
	writeln(a.out, "%s", scaffold.DimStyle.Render("    └── "+name+"/"))
	for i, f := range created.Files {
		branch := "├── "
		if i == len(created.Files)-1 {
			branch = "└── "
		}
		writeln(a.out, "%s", scaffold.DimStyle.Render("        "+branch+filepath.Base(f)))
	}
	writeln(a.out, "\nNext steps:")
	writeln(a.out, "1. Edit %s.js to implement your component logic", name)
	writeln(a.out, "2. Add styles to %s.css", name)
	writeln(a.out, "3. Configure component properties in _%s.json", name)
}
