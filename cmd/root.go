// Package cmd contains all CLI commands for the contentkit binary.
package cmd

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/contentkit/cmd/completion"
	cmdconfig "github.com/klytics/contentkit/cmd/config"
	"github.com/klytics/contentkit/cmd/convert"
	"github.com/klytics/contentkit/cmd/merge"
	"github.com/klytics/contentkit/cmd/version"
	"github.com/klytics/contentkit/internal/cli"
	"github.com/klytics/contentkit/internal/errors"
	"github.com/klytics/contentkit/internal/output"
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var flags *cli.Flags

	rootCmd := &cobra.Command{
		Use:   "contentkit",
		Short: "Prepare audio-guide content from Word and Excel sources",
		Long: `contentkit prepares the texts of an audio guide.

  convert  turns Word documents of field/value tables into spreadsheets
  merge    fills the track list from the German, French and English content
           sheets and appends the content of child records`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.NoColor {
				color.NoColor = true
			}
		},
	}

	flags = cli.AddFlags(rootCmd)

	rootCmd.AddCommand(convert.NewCommand())
	rootCmd.AddCommand(merge.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and exits with the matching status code.
func Execute() {
	os.Exit(run(NewRootCommand()))
}

func run(rootCmd *cobra.Command) int {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return output.ExitOK
	}

	if stderrors.Is(err, errors.ErrNoFileSelected) {
		fmt.Fprintln(rootCmd.OutOrStdout(), "No file selected. Exiting...")
		return output.ExitOK
	}

	if cmd == nil {
		cmd = rootCmd
	}
	if cli.Parse(rootCmd).JSON {
		name := cmd.Name()
		if cmd.HasParent() && cmd.Parent() != rootCmd {
			name = cmd.Parent().Name() + " " + name
		}
		return output.PrintJSONError(name, err)
	}

	color.New(color.FgRed).Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err)
	return output.ExitCode(err)
}
