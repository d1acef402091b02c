package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klytics/contentkit/internal/errors"
	"github.com/klytics/contentkit/internal/formats/docx"
	"github.com/klytics/contentkit/internal/formats/xlsx"
	"github.com/klytics/contentkit/internal/output"
)

type result struct {
	code   int
	stdout string
	stderr string
	json   string
}

func execute(t *testing.T, root *cobra.Command, args ...string) result {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CONTENTKIT_NO_PROGRESS", "1")

	var stdout, stderr, jsonOut bytes.Buffer
	old := output.Stdout
	output.Stdout = &jsonOut
	t.Cleanup(func() {
		output.Stdout = old
		viper.Reset()
	})

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color", "--log-level", "off"}, args...))
	code := run(root)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String(), json: jsonOut.String()}
}

func TestVersion(t *testing.T) {
	res := execute(t, NewRootCommand(), "version")
	assert.Equal(t, 0, res.code)
	assert.True(t, strings.HasPrefix(res.stdout, "contentkit dev (commit none, go"), res.stdout)
}

func TestNoFileSelectedExitsCleanly(t *testing.T) {
	root := NewRootCommand()
	root.AddCommand(&cobra.Command{
		Use:  "pick",
		RunE: func(*cobra.Command, []string) error { return errors.ErrNoFileSelected },
	})

	res := execute(t, root, "pick")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "No file selected. Exiting...\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "Raum 1.docx")
	doc := &docx.Document{Tables: []docx.Table{{Rows: []docx.Row{
		{Cells: []docx.Cell{
			{Paragraphs: []docx.Paragraph{{Style: "Normal", Runs: []docx.Run{{Text: "Titel"}}}}},
			{Paragraphs: []docx.Paragraph{{Style: "Normal", Runs: []docx.Run{{Text: "Die große Welle"}}}}},
		}},
	}}}}
	require.NoError(t, docx.WriteFile(doc, input))

	outDir := filepath.Join(dir, "out")
	res := execute(t, NewRootCommand(), "convert", input, "--output-dir", outDir)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Converted")
	assert.FileExists(t, filepath.Join(outDir, "Raum 1.xlsx"))
}

func TestConvertMissingFile(t *testing.T) {
	res := execute(t, NewRootCommand(), "convert", filepath.Join(t.TempDir(), "missing.docx"))
	assert.Equal(t, output.ExitSystemError, res.code)
	assert.Contains(t, res.stderr, "Error: could not read")
}

func TestConvertGlobWithoutMatches(t *testing.T) {
	res := execute(t, NewRootCommand(), "--json", "convert", filepath.Join(t.TempDir(), "*.docx"))
	assert.Equal(t, output.ExitUserError, res.code)

	var env output.JSONResult
	require.NoError(t, json.Unmarshal([]byte(res.json), &env))
	assert.False(t, env.OK)
	assert.Equal(t, "convert", env.Command)
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "wip.xlsx")
	out := filepath.Join(dir, "wip_updated.xlsx")
	hierarchy := filepath.Join(dir, "hierarchy.yaml")

	content := func(name, title string) xlsx.Sheet {
		return xlsx.Sheet{Name: name, Rows: [][]string{
			{"Text-Kennnummer", "Laufnummer", "Titel", "Fliesstext"},
			{"A_1", "1", title, "Text " + name},
			{"C_1", "2", "Kind " + name, "Kindtext"},
		}}
	}
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "WIP Tracks", Rows: [][]string{{"Text-Kennnummer"}, {"A_1"}, {"B_9"}}},
		content("DE Content", "Welle"),
		content("FR Content", "Vague"),
		content("EN Content", "Wave"),
	}}
	require.NoError(t, xlsx.WriteFile(wb, input, xlsx.WriteOptions{}))
	require.NoError(t, os.WriteFile(hierarchy, []byte("A_1:\n  - C_1\n"), 0644))

	res := execute(t, NewRootCommand(), "--json", "merge", "--input", input, "--output", out, "--hierarchy", hierarchy)
	require.Equal(t, 0, res.code, res.stderr+res.json)

	var env struct {
		OK   bool `json:"ok"`
		Data struct {
			Rows     int            `json:"rows"`
			Matched  map[string]int `json:"matched"`
			Children int            `json:"childrenAppended"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.json), &env))
	assert.True(t, env.OK)
	assert.Equal(t, 2, env.Data.Rows)
	assert.Equal(t, map[string]int{"de": 1, "fr": 1, "en": 1}, env.Data.Matched)
	assert.Equal(t, 3, env.Data.Children)

	got, err := xlsx.ReadFile(out)
	require.NoError(t, err)
	sheet, err := got.Sheet("Sheet1")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Text-Kennnummer", "descr1_de", "descr2_de", "text_de", "descr1_fr", "descr2_fr", "text_fr", "descr1_en", "descr2_en", "text_en"},
		sheet.Rows[0])
}

func TestMergeMissingInput(t *testing.T) {
	res := execute(t, NewRootCommand(), "merge", "--input", filepath.Join(t.TempDir(), "nope.xlsx"), "--hierarchy", "")
	assert.Equal(t, output.ExitSystemError, res.code)
	assert.Contains(t, res.stderr, "nope.xlsx")
}

func TestConfigShow(t *testing.T) {
	t.Setenv("CONTENTKIT_CONVERT_WRAP_WIDTH", "560")
	res := execute(t, NewRootCommand(), "config", "show")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "key_column: Text-Kennnummer")
	assert.Contains(t, res.stdout, "wrap_width: 560")
	assert.Contains(t, res.stdout, "sheet: FR Content")
}

func TestConfigValidate(t *testing.T) {
	res := execute(t, NewRootCommand(), "--json", "config", "validate")
	require.Equal(t, 0, res.code, res.stderr)

	var env struct {
		OK   bool `json:"ok"`
		Data []struct {
			Key      string `json:"key"`
			Severity string `json:"severity"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.json), &env))
	assert.True(t, env.OK)
	for _, issue := range env.Data {
		assert.NotEqual(t, "error", issue.Severity, issue.Key)
	}

	t.Setenv("CONTENTKIT_CONVERT_WRAP_WIDTH", "0")
	res = execute(t, NewRootCommand(), "config", "validate")
	assert.Equal(t, output.ExitUserError, res.code)
	assert.Contains(t, res.stdout, "convert.wrap_width")
	assert.Contains(t, res.stderr, "Error: configuration has errors")
}

func TestConvertCorruptDocument(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bad.docx")
	require.NoError(t, os.WriteFile(input, []byte("not a zip archive"), 0644))

	res := execute(t, NewRootCommand(), "convert", input, "--output-dir", t.TempDir())
	assert.Equal(t, output.ExitSystemError, res.code)
	assert.Contains(t, res.stderr, "bad.docx")
}

func TestMergeUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "wip.xlsx")
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "WIP Tracks", Rows: [][]string{{"Text-Kennnummer"}, {"A_1"}}},
		{Name: "DE Content", Rows: [][]string{{"Text-Kennnummer", "Titel"}, {"A_1", "Welle"}}},
		{Name: "FR Content", Rows: [][]string{{"Text-Kennnummer", "Titel"}}},
		{Name: "EN Content", Rows: [][]string{{"Text-Kennnummer", "Titel"}}},
	}}
	require.NoError(t, xlsx.WriteFile(wb, input, xlsx.WriteOptions{}))

	// The output path is an existing directory.
	res := execute(t, NewRootCommand(), "merge", "--input", input, "--output", dir, "--hierarchy", "")
	assert.Equal(t, output.ExitSystemError, res.code)
	assert.Contains(t, res.stderr, "could not write")
}
