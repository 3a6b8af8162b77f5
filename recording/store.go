package recording

import "fmt"

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend.
func Open(backend, dir, sqlitePath string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendSQLite:
		return OpenSQLStore(sqlitePath)
	default:
		return nil, fmt.Errorf("recording: unknown backend %q", backend)
	}
}
