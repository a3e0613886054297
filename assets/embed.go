// Package assets embeds the default word catalog and the SQL migrations.
package assets

import (
	"bufio"
	"embed"
	"io/fs"
	"strings"
)

//go:embed catalog.txt
var catalogFS embed.FS

//go:embed sql/*.sql
var migrationsFS embed.FS

// CatalogLines returns the non-empty, non-comment lines of the embedded
// catalog, trimmed.
func CatalogLines() ([]string, error) {
	f, err := catalogFS.Open("catalog.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// Migrations exposes the migration files rooted at their directory, so
// entries are named like "001_rounds.sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
