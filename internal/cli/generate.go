package cli

import (
	"fmt"

	"github.com/example/extstub/internal/generator"
	"github.com/spf13/cobra"
)

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate stub files for all packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			gen := generator.New(e.cfg.GeneratorOptions(), e.logger)
			report, err := gen.Run(e.packages)
			if err != nil {
				return err
			}

			// Per-package failures were already logged; they do not fail the run.
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d stubs in %s (%d packages, %d failed)\n",
				len(report.Written), e.cfg.OutputDir, len(report.Processed), len(report.Failures))
			return nil
		},
	}
}

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse and merge all declarations without writing stubs",
		Long: `check runs the same parse and merge steps as generate but writes nothing.
It exits non-zero when any package fails, which makes it suitable for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.load(cmd)
			if err != nil {
				return err
			}

			gen := generator.New(e.cfg.GeneratorOptions(), e.logger)
			tree, report := gen.Build(e.packages)

			out := cmd.OutOrStdout()
			for _, f := range report.Failures {
				fmt.Fprintf(out, "FAIL %s: %v\n", f.Package, f.Err)
			}
			fmt.Fprintf(out, "%d classes from %d packages\n", len(tree.Classes()), len(report.Processed))

			if len(report.Failures) > 0 {
				return fmt.Errorf("%d of %d packages failed", len(report.Failures), len(report.Failures)+len(report.Processed))
			}
			return nil
		},
	}
}
