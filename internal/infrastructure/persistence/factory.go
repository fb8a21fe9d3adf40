package persistence

import (
	"fmt"
	"strings"
)

// Supported storage engines.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineFile     = "file"
)

// Open creates the storage engine named by engine. path is a file path
// for sqlite and file engines, a DSN for postgres. The empty engine
// defaults to sqlite.
func Open(engine, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSQLite:
		return NewSQLiteStore(path)
	case EnginePostgres:
		return NewPostgresStore(path)
	case EngineFile:
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unsupported storage engine %q", engine)
	}
}
