package db

import (
	"context"
	"strings"
)

// Open connects to the store named by url. sqlite:// and file: URLs open a
// SQLite file; anything else is treated as a PostgreSQL connection string.
func Open(ctx context.Context, url string) (Store, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(url, "sqlite://"))
	case strings.HasPrefix(url, "file:"):
		return OpenSQLite(ctx, sqlitePath(url))
	default:
		return Connect(ctx, url)
	}
}

// sqlitePath strips the file: scheme and any query so OpenSQLite can add its own pragmas.
func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}
