package sqlite

import (
	"database/sql"
	"fmt"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as integer minor units. Dates are Unix seconds plus a
// nanosecond part in [0, 1e9), so rows sort by (date, date_nanos).
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    date INTEGER NOT NULL,
    date_nanos INTEGER NOT NULL DEFAULT 0,
    description TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_players (
    session_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    buy_in INTEGER NOT NULL,
    cash_out INTEGER NOT NULL,
    net INTEGER NOT NULL,
    PRIMARY KEY (session_id, position),
    FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date, date_nanos);
CREATE INDEX IF NOT EXISTS idx_session_players_name ON session_players(name);
`

// splitDates converts databases that stored dates as a single Unix nanosecond
// count. The split floors toward negative infinity to match time.Time.Unix.
const splitDates = `
ALTER TABLE sessions ADD COLUMN date_nanos INTEGER NOT NULL DEFAULT 0;
UPDATE sessions SET
    date = (date - ((date % 1000000000) + 1000000000) % 1000000000) / 1000000000,
    date_nanos = ((date % 1000000000) + 1000000000) % 1000000000;
DROP INDEX IF EXISTS idx_sessions_date;
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	var tables int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sessions'").Scan(&tables); err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables > 0 {
		var split int
		if err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('sessions') WHERE name = 'date_nanos'").Scan(&split); err != nil {
			return fmt.Errorf("failed to inspect sessions table: %w", err)
		}
		if split == 0 {
			if _, err := db.Exec(splitDates); err != nil {
				return fmt.Errorf("failed to split session dates: %w", err)
			}
		}
	}

	_, err := db.Exec(schema)
	return err
}
