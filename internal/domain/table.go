package domain

import "regexp"

var tableName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// ValidTable reports whether name can be used as a table name.
func ValidTable(name string) bool {
	return tableName.MatchString(name)
}

// Table describes a table with live subscribers.
type Table struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}
