package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(Up, Down)
}

func Up(tx *sql.Tx) error {
	createStoredFiles := `
	CREATE TABLE stored_files (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		size BIGINT NOT NULL,
		content_type VARCHAR(100) NOT NULL,
		object_key VARCHAR(500) NOT NULL,
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.Exec(createStoredFiles); err != nil {
		return fmt.Errorf("could not create stored_files table: %w", err)
	}

	createShareLinks := `
	CREATE TABLE share_links (
		id UUID PRIMARY KEY,
		file_id UUID NOT NULL,
		short_token VARCHAR(32) NOT NULL UNIQUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL
	);
	CREATE INDEX idx_share_links_file_id ON share_links (file_id);
	`
	if _, err := tx.Exec(createShareLinks); err != nil {
		return fmt.Errorf("could not create share_links table: %w", err)
	}

	createAssemblyFailures := `
	CREATE TABLE assembly_failures (
		id SERIAL PRIMARY KEY,
		session_id VARCHAR(64) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		last_error TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.Exec(createAssemblyFailures); err != nil {
		return fmt.Errorf("could not create assembly_failures table: %w", err)
	}

	return nil
}

func Down(tx *sql.Tx) error {
	dropTables := []string{"assembly_failures", "share_links", "stored_files"}
	for _, table := range dropTables {
		if _, err := tx.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s;", table)); err != nil {
			return fmt.Errorf("could not drop table %s: %w", table, err)
		}
	}
	return nil
}
