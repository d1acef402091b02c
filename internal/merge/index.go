package merge

import (
	"golang.org/x/text/unicode/norm"

	"github.com/klytics/contentkit/internal/table"
)

// KeyFunc canonicalises a key before it is indexed or looked up.
type KeyFunc func(string) string

// ExactKey matches keys byte for byte.
func ExactKey(k string) string { return k }

// NFCKey matches keys after Unicode NFC normalisation, so "ü" typed as one
// code point and as "u" plus a combining diaeresis are the same key.
func NFCKey(k string) string { return norm.NFC.String(k) }

// Index looks up records by a unique key. The first record with a given key
// wins; later duplicates are dropped.
type Index struct {
	keyFn      KeyFunc
	records    map[string]*table.Record
	Duplicates []string
}

// BuildIndex indexes the records of t by keyColumn. Records with an empty key
// are not indexed. Keys dropped as duplicates are reported in Duplicates in
// the order they were met.
func BuildIndex(t *table.Table, keyColumn string, keyFn KeyFunc) *Index {
	if keyFn == nil {
		keyFn = ExactKey
	}
	idx := &Index{keyFn: keyFn, records: make(map[string]*table.Record, t.Len())}
	for _, r := range t.Records {
		raw := r.Get(keyColumn)
		if raw == "" {
			continue
		}
		k := keyFn(raw)
		if _, ok := idx.records[k]; ok {
			idx.Duplicates = append(idx.Duplicates, raw)
			continue
		}
		idx.records[k] = r
	}
	return idx
}

// Lookup returns the record indexed under key.
func (idx *Index) Lookup(key string) (*table.Record, bool) {
	r, ok := idx.records[idx.keyFn(key)]
	return r, ok
}

// Len returns the number of indexed keys.
func (idx *Index) Len() int {
	return len(idx.records)
}
