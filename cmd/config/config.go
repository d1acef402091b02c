// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/klytics/contentkit/internal/cli"
	"github.com/klytics/contentkit/internal/config"
	"github.com/klytics/contentkit/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect contentkit configuration",
		Long: `Show and validate the effective configuration: built-in defaults,
overridden by contentkit.yaml, .env and CONTENTKIT_* environment variables.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			if env.Flags.JSON {
				return output.PrintJSON("config show", env.Config)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(showView(env.Config))
		},
	}
}

// showView mirrors the config file layout.
func showView(cfg *config.Config) map[string]any {
	langs := make([]map[string]string, len(cfg.Merge.Languages))
	for i, l := range cfg.Merge.Languages {
		langs[i] = map[string]string{"code": l.Code, "sheet": l.Sheet}
	}
	return map[string]any{
		"log_level":  cfg.LogLevel,
		"log_format": cfg.LogFormat,
		"convert": map[string]any{
			"source_dir":  cfg.Convert.SourceDir,
			"output_dir":  cfg.Convert.OutputDir,
			"sheet_name":  cfg.Convert.SheetName,
			"wrap_column": cfg.Convert.WrapColumn,
			"wrap_width":  cfg.Convert.WrapWidth,
		},
		"merge": map[string]any{
			"input":          cfg.Merge.Input,
			"output":         cfg.Merge.Output,
			"primary_sheet":  cfg.Merge.PrimarySheet,
			"output_sheet":   cfg.Merge.OutputSheet,
			"key_column":     cfg.Merge.KeyColumn,
			"hierarchy":      cfg.Merge.Hierarchy,
			"normalize_keys": cfg.Merge.NormalizeKeys,
			"languages":      langs,
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			if env.Config.File == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "(none, searched ./contentkit.yaml and %s)\n",
					filepath.Join(config.Dir(), "contentkit.yaml"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), env.Config.File)
			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}

			issues := config.Validate(env.Config)

			if env.Flags.JSON {
				if err := output.PrintJSON("config validate", issues); err != nil {
					return err
				}
			} else {
				printIssues(cmd, issues)
			}

			if config.HasErrors(issues) {
				return fmt.Errorf("configuration has errors")
			}
			return nil
		},
	}
}

func printIssues(cmd *cobra.Command, issues []config.Issue) {
	out := cmd.OutOrStdout()
	errs, warnings := 0, 0
	for _, issue := range issues {
		switch issue.Severity {
		case "error":
			errs++
		case "warning":
			warnings++
		}
	}

	if errs == 0 && warnings == 0 {
		color.New(color.FgGreen).Fprintln(out, "Configuration is valid")
	} else {
		fmt.Fprintf(out, "Config validation: %d errors, %d warnings\n\n", errs, warnings)
	}

	for _, issue := range issues {
		switch issue.Severity {
		case "error":
			color.New(color.FgRed).Fprintf(out, "  %s: %s\n", issue.Key, issue.Message)
		case "warning":
			color.New(color.FgYellow).Fprintf(out, "  %s: %s\n", issue.Key, issue.Message)
		case "info":
			color.New(color.FgGreen).Fprintf(out, "  %s\n", issue.Message)
		}
		if issue.Fix != "" {
			fmt.Fprintf(out, "   Fix: %s\n", issue.Fix)
		}
	}
}
