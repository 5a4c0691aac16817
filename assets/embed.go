package assets

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed sql/*.sql help.txt
var FS embed.FS

// Migrations returns the SQL migration files rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// HelpText returns the "How to Play" text shown by the terminal client.
func HelpText() string {
	b, err := FS.ReadFile("help.txt")
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\n")
}
