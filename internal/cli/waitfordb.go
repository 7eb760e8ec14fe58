package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/pantry/backend/internal/database"
)

type waitForDBOptions struct {
	interval time.Duration
	timeout  time.Duration
}

// NewWaitForDBCommand creates the wait-for-db command.
func NewWaitForDBCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &waitForDBOptions{}

	cmd := &cobra.Command{
		Use:   "wait-for-db",
		Short: "Block until the database accepts connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if opts.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, opts.timeout)
				defer cancel()
			}
			return database.WaitForDB(ctx, rootOpts.Ping(cfg), opts.interval, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&opts.interval, "interval", time.Second, "time between connection attempts")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 waits forever)")

	return cmd
}
