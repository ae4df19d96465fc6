package db

type sqliteMigration struct {
	version int
	sql     string
}

// sqliteMigrations is ordered by version, starting at 1. Dates are stored as
// TEXT 'YYYY-MM-DD' and timestamps as fixed-width UTC text so both compare
// correctly as strings.
var sqliteMigrations = []sqliteMigration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS students (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	photo_url     TEXT,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS programs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	year        INTEGER NOT NULL,
	term        TEXT NOT NULL,
	duration    TEXT NOT NULL DEFAULT '',
	start_date  TEXT NOT NULL,
	end_date    TEXT NOT NULL,
	is_active   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	CHECK (start_date <= end_date)
);

CREATE INDEX IF NOT EXISTS idx_programs_dates ON programs (start_date, end_date);

CREATE TABLE IF NOT EXISTS program_registrations (
	program_id    INTEGER NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
	student_id    INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	registered_at TEXT NOT NULL,
	PRIMARY KEY (program_id, student_id)
);

CREATE TABLE IF NOT EXISTS notifications (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id    INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	type          TEXT NOT NULL,
	title         TEXT NOT NULL,
	preview       TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL DEFAULT '',
	is_read       INTEGER NOT NULL DEFAULT 0,
	action_kind   TEXT,
	action_label  TEXT,
	action_target TEXT,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_student ON notifications (student_id, created_at DESC);

CREATE TABLE IF NOT EXISTS login_logs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	ip_address TEXT NOT NULL DEFAULT '',
	user_agent TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS testimonials (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
`,
	},
}
