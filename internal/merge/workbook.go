package merge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/klytics/contentkit/internal/errors"
	"github.com/klytics/contentkit/internal/formats/xlsx"
)

// LanguageSheet names the content sheet of one language.
type LanguageSheet struct {
	Code  string
	Sheet string
}

// WorkbookJob describes one merge run over a workbook.
type WorkbookJob struct {
	Input        string
	Output       string
	PrimarySheet string
	OutputSheet  string
	KeyColumn    string
	Languages    []LanguageSheet
	Hierarchy    *Hierarchy
	// NormalizeKeys compares keys after NFC normalisation.
	NormalizeKeys bool
	Logger        zerolog.Logger
	// Progress, if set, is called after each primary row.
	Progress func(done, total int, key string)
}

// WorkbookResult is the outcome of RunWorkbook.
type WorkbookResult struct {
	Result
	Input      string              `json:"input"`
	Output     string              `json:"output"`
	Duplicates map[string][]string `json:"duplicates,omitempty"`
}

// RunWorkbook reads the primary and language sheets from job.Input, merges
// them and writes the primary table with the added columns to job.Output.
func RunWorkbook(job WorkbookJob) (*WorkbookResult, error) {
	wb, err := xlsx.ReadFile(job.Input)
	if err != nil {
		return nil, err
	}

	primarySheet, err := wb.Sheet(job.PrimarySheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Input, err)
	}
	primary := primarySheet.Table()

	keyFn := ExactKey
	if job.NormalizeKeys {
		keyFn = NFCKey
	}

	out := &WorkbookResult{Input: job.Input, Output: job.Output, Duplicates: make(map[string][]string)}

	langs := make([]Language, 0, len(job.Languages))
	for _, ls := range job.Languages {
		sheet, err := wb.Sheet(ls.Sheet)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", job.Input, err)
		}
		idx := BuildIndex(sheet.Table(), job.KeyColumn, keyFn)
		for _, d := range idx.Duplicates {
			job.Logger.Warn().Str("sheet", ls.Sheet).Str("key", d).Msg("duplicate key dropped, first row wins")
		}
		if len(idx.Duplicates) > 0 {
			out.Duplicates[ls.Code] = idx.Duplicates
		}
		job.Logger.Debug().Str("sheet", ls.Sheet).Int("keys", idx.Len()).Msg("indexed content sheet")
		langs = append(langs, Language{Code: ls.Code, Index: idx})
	}

	if primary.Len() > 0 && !primary.Records[0].Has(job.KeyColumn) {
		job.Logger.Warn().Str("sheet", job.PrimarySheet).Str("column", job.KeyColumn).Msg("key column missing, no rows will match")
	}

	m := &Merger{
		KeyColumn: job.KeyColumn,
		Languages: langs,
		Hierarchy: job.Hierarchy,
		Logger:    job.Logger,
	}
	if job.Progress != nil {
		total := primary.Len()
		m.OnRow = func(i int, key string) { job.Progress(i+1, total, key) }
	}
	out.Result = m.Merge(primary)

	if dir := filepath.Dir(job.Output); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewIOError("create", dir, err)
		}
	}

	result := &xlsx.Workbook{Sheets: []xlsx.Sheet{xlsx.SheetFromTable(job.OutputSheet, primary)}}
	if err := xlsx.WriteFile(result, job.Output, xlsx.WriteOptions{BoldHeader: true}); err != nil {
		return nil, err
	}

	return out, nil
}
