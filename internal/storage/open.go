package storage

import (
	"fmt"
	"os"
)

// Drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the provider for driver. For the file driver path is the data
// directory (created if missing); for sqlite it is the database file.
func Open(driver, path string) (Provider, error) {
	switch driver {
	case DriverFile, "":
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
		return NewFS(path)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", driver)
	}
}
