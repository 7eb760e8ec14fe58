package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/pantry/backend/internal/service"
)

type createSuperuserOptions struct {
	email    string
	password string
	name     string
}

// NewCreateSuperuserCommand creates the createsuperuser command.
func NewCreateSuperuserCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &createSuperuserOptions{}

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an active staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := rootOpts.openDB()
			if err != nil {
				return err
			}

			auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, rootOpts.Logger)
			user, err := auth.CreateSuperuser(cmd.Context(), opts.email, opts.password, opts.name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&opts.password, "password", "", "password (required)")
	cmd.Flags().StringVar(&opts.name, "name", "", "display name (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
