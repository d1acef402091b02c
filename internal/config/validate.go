package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Issue is a validation finding.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks the configuration for values the commands cannot work with
// and for files that do not exist yet.
func Validate(cfg *Config) []Issue {
	var issues []Issue

	if cfg.Convert.WrapWidth <= 0 {
		issues = append(issues, Issue{
			Key:      "convert.wrap_width",
			Severity: "error",
			Message:  fmt.Sprintf("wrap width must be positive, got %v", cfg.Convert.WrapWidth),
			Fix:      "set convert.wrap_width to a width in pixels, e.g. 400",
		})
	}
	if cfg.Convert.SheetName == "" {
		issues = append(issues, Issue{Key: "convert.sheet_name", Severity: "error", Message: "output sheet name is empty"})
	}
	if info, err := os.Stat(cfg.Convert.SourceDir); err != nil || !info.IsDir() {
		issues = append(issues, Issue{
			Key:      "convert.source_dir",
			Severity: "warning",
			Message:  fmt.Sprintf("source directory %s does not exist, the file prompt will list nothing", cfg.Convert.SourceDir),
		})
	}

	if cfg.Merge.KeyColumn == "" {
		issues = append(issues, Issue{Key: "merge.key_column", Severity: "error", Message: "key column is empty"})
	}
	if len(cfg.Merge.Languages) == 0 {
		issues = append(issues, Issue{
			Key:      "merge.languages",
			Severity: "error",
			Message:  "no content languages configured",
			Fix:      "list languages as {code, sheet} pairs under merge.languages",
		})
	}
	seen := make(map[string]bool)
	for i, l := range cfg.Merge.Languages {
		key := fmt.Sprintf("merge.languages[%d]", i)
		if l.Code == "" || l.Sheet == "" {
			issues = append(issues, Issue{Key: key, Severity: "error", Message: "language needs both a code and a sheet"})
			continue
		}
		if seen[l.Code] {
			issues = append(issues, Issue{Key: key, Severity: "error", Message: fmt.Sprintf("language %q listed twice", l.Code)})
		}
		seen[l.Code] = true
	}

	if _, err := os.Stat(cfg.Merge.Input); err != nil {
		issues = append(issues, Issue{
			Key:      "merge.input",
			Severity: "warning",
			Message:  fmt.Sprintf("merge input %s not found", cfg.Merge.Input),
			Fix:      "contentkit merge --input path/to/workbook.xlsx",
		})
	}
	if cfg.Merge.Hierarchy != "" {
		if _, err := os.Stat(cfg.Merge.Hierarchy); err != nil {
			issues = append(issues, Issue{
				Key:      "merge.hierarchy",
				Severity: "warning",
				Message:  fmt.Sprintf("hierarchy file %s not found, no children will be appended", cfg.Merge.Hierarchy),
			})
		}
	}

	if cfg.File != "" {
		issues = append(issues, Issue{Key: "file", Severity: "info", Message: "using " + filepath.Clean(cfg.File)})
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == "error" {
			return true
		}
	}
	return false
}
