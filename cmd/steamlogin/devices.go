package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func newDevicesCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage stored machine-trust tokens",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts this device is trusted for",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			trust, cleanup, err := newTrustService(ctx, config)
			if err != nil {
				return err
			}
			defer cleanup()

			tokens, err := trust.Accounts(ctx)
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				fmt.Println("no trusted accounts")
				return nil
			}
			for _, token := range tokens {
				fmt.Printf("%d\tupdated %s\n", token.SteamID, token.UpdatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}

	var steamID uint64
	forget := &cobra.Command{
		Use:   "forget",
		Short: "Drop the trust token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			trust, cleanup, err := newTrustService(ctx, config)
			if err != nil {
				return err
			}
			defer cleanup()

			return trust.Forget(ctx, steamID)
		},
	}
	forget.Flags().Uint64Var(&steamID, "steamid", 0, "account id to forget")
	_ = forget.MarkFlagRequired("steamid")

	cmd.AddCommand(list, forget)
	return cmd
}
