// Package convert provides the "contentkit convert" command, which turns Word
// content sheets into spreadsheets.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/klytics/contentkit/internal/cli"
	conv "github.com/klytics/contentkit/internal/convert"
	"github.com/klytics/contentkit/internal/filesource"
	"github.com/klytics/contentkit/internal/output"
	"github.com/klytics/contentkit/internal/progress"
	"github.com/klytics/contentkit/internal/watch"
)

type batchItem struct {
	File   string       `json:"file"`
	Status string       `json:"status"`
	Result *conv.Result `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// NewCommand creates the "convert" command.
func NewCommand() *cobra.Command {
	var (
		watchDir  string
		recursive bool
	)

	cmd := &cobra.Command{
		Use:   "convert [file.docx | glob]",
		Short: "Convert Word content sheets to Excel",
		Long: `Convert a Word document of two-column tables into a spreadsheet with one
row per table. The first column of each table row names the field, the second
holds its value, rendered to markup with lists, italics, superscripts and
non-breaking spaces.

Without an argument the documents in the source directory are listed and one
can be picked interactively.

Examples:
  contentkit convert textSources/Raum_1.docx
  contentkit convert 'textSources/*.docx' --output-dir output
  contentkit convert
  contentkit convert --watch textSources`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for flag, key := range map[string]string{
				"output-dir":  "convert.output_dir",
				"source-dir":  "convert.source_dir",
				"wrap-column": "convert.wrap_column",
				"wrap-width":  "convert.wrap_width",
			} {
				if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}

			env, err := cli.Setup(cmd)
			if err != nil {
				return err
			}
			cc := env.Config.Convert

			c := &conv.Converter{
				SheetName:   cc.SheetName,
				WrapColumn:  cc.WrapColumn,
				WrapWidthPx: cc.WrapWidth,
				Logger:      env.Logger,
			}

			if watchDir != "" {
				if len(args) > 0 {
					return fmt.Errorf("--watch takes no file argument")
				}
				return watchAndConvert(cmd, c, watchDir, recursive, cc.OutputDir, env.Flags.JSON)
			}

			if len(args) == 1 && isGlob(args[0]) {
				return batchConvert(cmd, c, args[0], cc.OutputDir, env.Flags.JSON)
			}

			var src filesource.Source
			if len(args) == 1 {
				src = filesource.Static(args[0])
			} else {
				src = &filesource.Prompt{Dir: cc.SourceDir}
			}

			input, err := src.Select(cmd.Context())
			if err != nil {
				return err
			}

			res, err := c.ConvertFile(cmd.Context(), input, cc.OutputDir)
			if err != nil {
				return err
			}

			if env.Flags.JSON {
				return output.PrintJSON("convert", res)
			}
			printResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().String("output-dir", "output", "Directory the .xlsx files are written to")
	cmd.Flags().String("source-dir", "textSources", "Directory listed by the interactive prompt")
	cmd.Flags().String("wrap-column", "Fliesstext", "Column to widen and wrap in the output")
	cmd.Flags().Float64("wrap-width", 400, "Width of the wrapped column in pixels")
	cmd.Flags().StringVar(&watchDir, "watch", "", "Watch a directory and convert documents as they change")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch subdirectories too")

	return cmd
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func printResult(cmd *cobra.Command, res *conv.Result) {
	green := color.New(color.FgGreen)
	green.Fprintf(cmd.OutOrStdout(), "✓ ")
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s → %s (%d tables, %d fields)\n",
		res.Input, res.Output, res.Tables, res.Fields)
}

func batchConvert(cmd *cobra.Command, c *conv.Converter, pattern, outDir string, jsonOut bool) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if filesource.IsDocx(m) {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no .docx files matched pattern %q", pattern)
	}

	bar := progress.New("Converting", len(files), jsonOut)
	items := make([]batchItem, 0, len(files))
	failed := 0

	for _, f := range files {
		res, err := c.ConvertFile(cmd.Context(), f, outDir)
		bar.Step(filepath.Base(f))
		if err != nil {
			failed++
			items = append(items, batchItem{File: f, Status: "error", Error: err.Error()})
			c.Logger.Warn().Err(err).Str("file", f).Msg("could not convert")
			continue
		}
		items = append(items, batchItem{File: f, Status: "ok", Result: res})
	}
	bar.Done(fmt.Sprintf("%d converted, %d failed", len(files)-failed, failed))

	if jsonOut {
		return output.PrintJSON("convert", items)
	}

	for _, it := range items {
		if it.Result != nil {
			printResult(cmd, it.Result)
		} else {
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ %s: %s\n", it.File, it.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents could not be converted", failed, len(files))
	}
	return nil
}

func watchAndConvert(cmd *cobra.Command, c *conv.Converter, dir string, recursive bool, outDir string, jsonOut bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := func(ctx context.Context, path string) error {
		res, err := c.ConvertFile(ctx, path, outDir)
		if err != nil {
			return err
		}
		if jsonOut {
			return output.PrintJSON("convert", res)
		}
		printResult(cmd, res)
		return nil
	}

	w, err := watch.New(watch.Config{Dir: dir, Recursive: recursive}, handler, c.Logger)
	if err != nil {
		return err
	}

	if !jsonOut {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for .docx files, press Ctrl+C to stop\n", dir)
	}
	return w.Start(ctx)
}
