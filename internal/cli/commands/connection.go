package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postcraft/internal/cli/client"
	"github.com/debemdeboas/postcraft/internal/cli/ui"
)

func newConnectionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "show or toggle the LinkedIn connection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "show whether the account is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			status, err := c.Connection(ctx)
			if err != nil {
				return fmt.Errorf("failed to get connection status: %w", err)
			}
			if status.Connected {
				ui.PrintSuccess(cmd.OutOrStdout(), "LinkedIn account connected")
			} else {
				ui.PrintWarning(cmd.OutOrStdout(), "LinkedIn account not connected")
			}
			return nil
		},
	})

	cmd.AddCommand(newToggleCmd(opts, "connect", "connect the LinkedIn account", (*client.APIClient).Connect))
	cmd.AddCommand(newToggleCmd(opts, "disconnect", "disconnect the LinkedIn account", (*client.APIClient).Disconnect))
	return cmd
}

type toggleFunc func(*client.APIClient, context.Context) (client.Connection, error)

func newToggleCmd(opts *options, use, short string, toggle toggleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd)
			defer cancel()

			status, err := toggle(c, ctx)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", use, err)
			}
			if !status.Changed {
				ui.PrintInfo(cmd.OutOrStdout(), "nothing to do, already %sed", use)
				return nil
			}
			if n := status.Notification; n != nil {
				ui.PrintNotification(cmd.OutOrStdout(), n.Title, n.Description)
			}
			return nil
		},
	}
}
