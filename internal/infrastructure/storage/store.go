package storage

import (
	"fmt"
	"strings"

	"github.com/yanuaroby/rupiahemas/internal/ports"
)

// Open selects a reference store backend by DSN scheme. file:// paths
// are plain JSON files; postgres:// and redis:// backends defer their
// first connection until the first query.
func Open(dsn string) (ports.ReferenceStore, error) {
	switch {
	case strings.HasPrefix(dsn, "file://"):
		return NewFileStore(strings.TrimPrefix(dsn, "file://")), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(dsn)
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return NewRedisStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported store dsn %q", dsn)
	}
}
