package album

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"radio-metadata-go/logcolors"

	log "github.com/sirupsen/logrus"
)

// Table maps (artist, title) to a curated album name, overriding whatever
// the upstream feed supplies. Built once at startup from a CSV of
// artist,title,album rows; read-only afterwards.
type Table struct {
	overrides map[string]string
}

// NewTable returns an empty override table.
func NewTable() *Table {
	return &Table{overrides: make(map[string]string)}
}

// Load reads overrides from a CSV file. Rows with fewer than three fields
// are skipped. A missing path yields an empty table without error so
// deployments without curation just pass upstream albums through.
func Load(path string) *Table {
	t := NewTable()
	if path == "" {
		return t
	}

	f, err := os.Open(path)
	if err != nil {
		log.Warnf("%s Could not open override table %s: %v", logcolors.LogOverrides, path, err)
		return t
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Warnf("%s Could not parse override table %s: %v", logcolors.LogOverrides, path, err)
		return t
	}

	for _, row := range records {
		if len(row) < 3 {
			continue
		}
		t.Set(row[0], row[1], row[2])
	}

	log.Infof("%s Loaded %d album overrides from %s", logcolors.LogOverrides, t.Len(), path)
	return t
}

// Set adds one override.
func (t *Table) Set(artist, title, album string) {
	t.overrides[key(artist, title)] = album
}

// Lookup returns the override album for a track, if one is curated.
func (t *Table) Lookup(artist, title string) (string, bool) {
	album, ok := t.overrides[key(artist, title)]
	return album, ok
}

// Len returns the number of overrides.
func (t *Table) Len() int {
	return len(t.overrides)
}

func key(artist, title string) string {
	return fmt.Sprintf("%s|%s",
		strings.ToLower(strings.TrimSpace(artist)),
		strings.ToLower(strings.TrimSpace(title)))
}
