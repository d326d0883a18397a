package store

import (
	"fmt"
	"log/slog"
)

// Supported drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Open returns the store selected by driver.
func Open(driver, sqlitePath, badgerPath string, log *slog.Logger) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLite(sqlitePath)
	case DriverBadger:
		return NewBadger(badgerPath, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
