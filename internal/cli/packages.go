package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPackagesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List discovered packages in processing order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PACKAGE\tDECLARATIONS\tPATH")
			for _, pkg := range e.packages {
				decl := "-"
				if _, err := os.Stat(filepath.Join(pkg.Path, e.cfg.DeclarationFile)); err == nil {
					decl = e.cfg.DeclarationFile
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", pkg.Name, decl, pkg.Path)
			}
			return tw.Flush()
		},
	}
}
