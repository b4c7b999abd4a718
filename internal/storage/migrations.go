package storage

import "database/sql"

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					source TEXT NOT NULL,
					row_count INTEGER NOT NULL,
					q75 REAL NOT NULL,
					median REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS run_personas (
					run_id INTEGER NOT NULL,
					persona TEXT NOT NULL,
					count INTEGER NOT NULL,
					avg_engagement REAL NOT NULL,
					avg_persistence REAL NOT NULL,
					avg_exposure REAL NOT NULL,
					PRIMARY KEY (run_id, persona),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,

				`CREATE TABLE IF NOT EXISTS run_records (
					run_id INTEGER NOT NULL,
					row_idx INTEGER NOT NULL,
					campaign REAL NOT NULL,
					previous REAL NOT NULL,
					duration REAL NOT NULL,
					housing TEXT NOT NULL,
					loan TEXT NOT NULL,
					engagement REAL NOT NULL,
					persistence REAL NOT NULL,
					exposure INTEGER NOT NULL,
					persona TEXT NOT NULL,
					PRIMARY KEY (run_id, row_idx),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_run_records_persona ON run_records(run_id, persona)`,
			}

			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
}
