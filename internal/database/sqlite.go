package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteDialector(cfg Config) gorm.Dialector {
	path := cfg.Path
	if path == "" {
		path = "data/metrdotel.db"
	}
	return sqlite.Open(path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
}
