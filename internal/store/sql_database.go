package store

import (
	"database/sql"

	"github.com/avelarde/comandero/internal/logger"
	"github.com/avelarde/comandero/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
