package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: saved_pools must be created BEFORE saved_pool_members due to
// the foreign key constraint.
const schema = `
CREATE TABLE IF NOT EXISTS saved_people (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS saved_pools (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS saved_pool_members (
    pool_id TEXT NOT NULL,
    person_id TEXT NOT NULL,
    PRIMARY KEY (pool_id, person_id),
    FOREIGN KEY (pool_id) REFERENCES saved_pools(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_saved_people_position ON saved_people(position);
CREATE INDEX IF NOT EXISTS idx_saved_pool_members_pool_id ON saved_pool_members(pool_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
