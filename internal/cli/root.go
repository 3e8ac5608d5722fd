// Package cli provides the extstub command-line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "extstub",
		Short: "Generate IDE stubs for extension methods declared by installed packages",
		Long: `extstub reads the extension-method declaration file of every installed
package, merges them per class and writes one stub file per class so that
editors can offer completion for methods added at runtime.`,
		SilenceUsage: true,
	}
	opts.register(rootCmd)

	rootCmd.AddCommand(newGenerateCommand(&opts))
	rootCmd.AddCommand(newCheckCommand(&opts))
	rootCmd.AddCommand(newPackagesCommand(&opts))

	return rootCmd
}
