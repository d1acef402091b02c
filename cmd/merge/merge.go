// Package merge provides the "contentkit merge" command, which fills the track
// list of the work-in-progress workbook from its language content sheets.
package merge

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klytics/contentkit/internal/cli"
	"github.com/klytics/contentkit/internal/merge"
	"github.com/klytics/contentkit/internal/output"
	"github.com/klytics/contentkit/internal/progress"
)

// NewCommand creates the "merge" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge the language content sheets into the track list",
		Long: `Read the track list and the per-language content sheets of the
work-in-progress workbook, copy title, subtitle and body text of every keyed
track into descr1_<lang>, descr2_<lang> and text_<lang>, append the content of
the child records declared in the hierarchy file, and write the result to a new
workbook.

Examples:
  contentkit merge
  contentkit merge --input WIP/inhalte.xlsx --output WIP/inhalte_updated.xlsx
  contentkit merge --hierarchy configs/hierarchy.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for flag, key := range map[string]string{
				"input":          "merge.input",
				"output":         "merge.output",
				"hierarchy":      "merge.hierarchy",
				"normalize-keys": "merge.normalize_keys",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}

			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			mc := env.Config.Merge

			h := merge.NewHierarchy()
			if mc.Hierarchy != "" {
				h, err = merge.LoadHierarchyFile(mc.Hierarchy)
				if err != nil {
					return err
				}
			}
			env.Logger.Debug().Str("file", mc.Hierarchy).Int("parents", h.Len()).Msg("loaded hierarchy")

			langs := make([]merge.LanguageSheet, len(mc.Languages))
			for i, l := range mc.Languages {
				langs[i] = merge.LanguageSheet{Code: l.Code, Sheet: l.Sheet}
			}

			var bar *progress.Bar
			job := merge.WorkbookJob{
				Input:         mc.Input,
				Output:        mc.Output,
				PrimarySheet:  mc.PrimarySheet,
				OutputSheet:   mc.OutputSheet,
				KeyColumn:     mc.KeyColumn,
				Languages:     langs,
				Hierarchy:     h,
				NormalizeKeys: mc.NormalizeKeys,
				Logger:        env.Logger,
				Progress: func(done, total int, key string) {
					if bar == nil {
						bar = progress.New("Merging", total, env.Flags.JSON)
					}
					bar.Update(done, key)
				},
			}

			res, err := merge.RunWorkbook(job)
			if err != nil {
				return err
			}
			if bar != nil {
				bar.Done(fmt.Sprintf("%d rows merged", res.Rows))
			}

			if env.Flags.JSON {
				return output.PrintJSON("merge", res)
			}
			printSummary(cmd, res, langs)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Work-in-progress workbook to read")
	cmd.Flags().StringP("output", "o", "", "Workbook to write")
	cmd.Flags().String("hierarchy", "", "YAML file mapping parent keys to child keys")
	cmd.Flags().Bool("normalize-keys", false, "Compare keys after Unicode NFC normalisation")

	return cmd
}

func printSummary(cmd *cobra.Command, res *merge.WorkbookResult, langs []merge.LanguageSheet) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	yellow := color.New(color.FgYellow)

	color.New(color.FgGreen).Fprint(out, "✓ ")
	fmt.Fprintf(out, "Merged %s → %s\n", res.Input, res.Output)
	bold.Fprintf(out, "  Rows: ")
	fmt.Fprintf(out, "%d (%d keyed)\n", res.Rows, res.Keyed)

	for _, l := range langs {
		bold.Fprintf(out, "  %s: ", strings.ToUpper(l.Code))
		fmt.Fprintf(out, "%d matched", res.Matched[l.Code])
		if d := res.Duplicates[l.Code]; len(d) > 0 {
			yellow.Fprintf(out, ", %d duplicate keys dropped", len(d))
		}
		fmt.Fprintln(out)
	}

	bold.Fprintf(out, "  Children appended: ")
	fmt.Fprintf(out, "%d\n", res.Children)
	if len(res.Missing) > 0 {
		yellow.Fprintf(out, "  Missing children: %s\n", strings.Join(res.Missing, ", "))
	}
}
