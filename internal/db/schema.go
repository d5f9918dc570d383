package db

import "context"

const adminsSchema = `
CREATE TABLE IF NOT EXISTS admins (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT,
	email         TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the tables the API needs if they do not exist yet.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, adminsSchema)
	return err
}
