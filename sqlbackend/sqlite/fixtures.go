package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Seed populates b's database with the reference intTable/foreignTable
// fixture schema.
func (b *Backend) Seed(ctx context.Context) error {
	return seedDB(ctx, b.db)
}

// seedDB creates and populates the foreignTable/intTable sample schema
// used by the reference servers in the original implementation, adapted
// from Derby's GENERATED ALWAYS AS IDENTITY to SQLite's INTEGER PRIMARY
// KEY autoincrement convention.
func seedDB(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE foreignTable (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			foreignName VARCHAR(100),
			value INT
		)`,
		`CREATE TABLE intTable (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyName VARCHAR(100),
			value INT,
			foreignId INT REFERENCES foreignTable(id)
		)`,
		`INSERT INTO foreignTable (foreignName, value) VALUES ('keyOne', 1)`,
		`INSERT INTO foreignTable (foreignName, value) VALUES ('keyTwo', 0)`,
		`INSERT INTO foreignTable (foreignName, value) VALUES ('keyThree', -1)`,
		`INSERT INTO intTable (keyName, value, foreignId) VALUES ('one', 1, 1)`,
		`INSERT INTO intTable (keyName, value, foreignId) VALUES ('zero', 0, 1)`,
		`INSERT INTO intTable (keyName, value, foreignId) VALUES ('negative one', -1, 1)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlbackend/sqlite: seed: %w", err)
		}
	}
	return nil
}
