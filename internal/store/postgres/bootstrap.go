package postgres

import "context"

// Bootstrap performs a connectivity check to ensure Postgres is reachable.
// Schema setup is handled by deployment migrations, so this is ping-only.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.PingContext(ctx)
}
