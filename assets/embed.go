// assets/embed.go
//
// Embedded static data for the server:
//   - braille-ascii-map.json: default character → dot pattern table.
//   - sql/*.sql: results journal migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed braille-ascii-map.json sql/*.sql
var FS embed.FS

// SymbolMapName is the file name clients fetch the map under.
const SymbolMapName = "braille-ascii-map.json"

// SymbolMap returns the raw bytes of the embedded Braille ASCII map.
func SymbolMap() ([]byte, error) {
	return FS.ReadFile(SymbolMapName)
}

// Migration is a single named SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns every embedded sql/*.sql file sorted by name.
func Migrations() ([]Migration, error) {
	var names []string
	if err := fs.WalkDir(FS, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			names = append(names, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: n, SQL: string(b)})
	}
	return out, nil
}
