package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
)

// PingFunc reports whether the database accepts connections
type PingFunc func(ctx context.Context) error

// PostgresPing opens a fresh lib/pq connection for every attempt.
func PostgresPing(dsn string) PingFunc {
	return func(ctx context.Context) error {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.PingContext(ctx)
	}
}

// WaitForDB calls ping every interval until it succeeds or ctx ends,
// reporting progress to out.
func WaitForDB(ctx context.Context, ping PingFunc, interval time.Duration, out io.Writer) error {
	fmt.Fprintln(out, "Waiting for the database...")
	for {
		if err := ping(ctx); err == nil {
			fmt.Fprintln(out, "Database available!")
			return nil
		}
		fmt.Fprintf(out, "Database unavailable, waiting %s...\n", describeInterval(interval))

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("gave up waiting for the database: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

func describeInterval(d time.Duration) string {
	if d%time.Second != 0 {
		return d.String()
	}
	n := int(d / time.Second)
	if n == 1 {
		return "1 second"
	}
	return fmt.Sprintf("%d seconds", n)
}
