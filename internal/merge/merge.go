// Package merge joins the work-in-progress track list against the
// per-language content sheets and appends the rendered content of child
// records to their parent rows.
package merge

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/klytics/contentkit/internal/table"
)

// ChildSeparator precedes every appended child fragment.
const ChildSeparator = "<br><br>"

// Language is one content sheet indexed by key.
type Language struct {
	Code  string
	Index *Index
}

// TargetColumns returns the columns filled for each language code, in
// output order: descr1_<code>, descr2_<code>, text_<code>.
func TargetColumns(codes ...string) []string {
	cols := make([]string, 0, 3*len(codes))
	for _, c := range codes {
		cols = append(cols, "descr1_"+c, "descr2_"+c, "text_"+c)
	}
	return cols
}

// Merger fills the primary records from the language indices.
type Merger struct {
	// KeyColumn holds the key in the primary table.
	KeyColumn string
	// Languages are processed in order for every row and every child.
	Languages []Language
	// Hierarchy may be nil when no children are configured.
	Hierarchy *Hierarchy
	Logger    zerolog.Logger
	// OnRow, if set, is called after each primary row.
	OnRow func(row int, key string)
}

// Result summarises a merge.
type Result struct {
	Rows     int            `json:"rows"`
	Keyed    int            `json:"keyed"`
	Matched  map[string]int `json:"matched"`
	Children int            `json:"childrenAppended"`
	Missing  []string       `json:"missingChildren,omitempty"`
}

// Merge updates primary in place. Unknown keys and children missing from a
// language are skipped; nothing here fails.
func (m *Merger) Merge(primary *table.Table) Result {
	codes := make([]string, len(m.Languages))
	for i, l := range m.Languages {
		codes[i] = l.Code
	}
	targets := TargetColumns(codes...)

	res := Result{Rows: primary.Len(), Matched: make(map[string]int, len(codes))}
	missing := make(map[string]bool)

	for i, r := range primary.Records {
		for _, c := range targets {
			if !r.Has(c) {
				r.Set(c, "")
			}
		}

		key := r.Get(m.KeyColumn)
		if key == "" {
			m.progress(i, key)
			continue
		}
		res.Keyed++

		for _, l := range m.Languages {
			src, ok := l.Index.Lookup(key)
			if !ok {
				m.Logger.Debug().Str("key", key).Str("lang", l.Code).Msg("key not in content sheet")
				continue
			}
			res.Matched[l.Code]++
			r.Set("descr1_"+l.Code, src.Get(ColTitle))
			r.Set("descr2_"+l.Code, src.Get(ColSubtitle))
			r.Set("text_"+l.Code, src.Get(ColBody))
		}

		res.Children += m.appendChildren(r, key, missing)
		m.progress(i, key)
	}

	for k := range missing {
		res.Missing = append(res.Missing, k)
	}
	sort.Strings(res.Missing)
	return res
}

func (m *Merger) appendChildren(r *table.Record, key string, missing map[string]bool) int {
	if m.Hierarchy == nil {
		return 0
	}
	children, ok := m.Hierarchy.Children(key)
	if !ok {
		return 0
	}

	appended := 0
	for _, child := range children {
		for _, l := range m.Languages {
			src, ok := l.Index.Lookup(child)
			if !ok {
				missing[l.Code+":"+child] = true
				m.Logger.Debug().Str("parent", key).Str("child", child).Str("lang", l.Code).Msg("child not in content sheet")
				continue
			}
			col := "text_" + l.Code
			r.Set(col, r.Get(col)+ChildSeparator+Fragment(src))
			appended++
		}
	}
	return appended
}

func (m *Merger) progress(i int, key string) {
	if m.OnRow != nil {
		m.OnRow(i, key)
	}
}
