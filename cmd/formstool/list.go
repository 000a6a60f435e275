package main

import (
	"encoding/json"
	"strings"

	"github.com/formblock/formstool/internal/mappings"
	"github.com/spf13/cobra"
)

type listOutput struct {
	Source string   `json:"source"`
	Custom []string `json:"custom"`
	OOTB   []string `json:"ootb"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the custom and OOTB component registry",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, source, err := mappings.LoadRegistry(mappings.PathsFromConfig(a.cfg))
			if err != nil {
				return err
			}
			out := listOutput{Source: source, Custom: reg.Custom(), OOTB: reg.OOTB()}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			writeln(a.out, "Source: %s", out.Source)
			writeln(a.out, "Custom (%d): %s", len(out.Custom), strings.Join(out.Custom, ", "))
			writeln(a.out, "OOTB (%d): %s", len(out.OOTB), strings.Join(out.OOTB, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
