package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tendric/steamauth/pkg/guardcode"
)

func newCodeCmd() *cobra.Command {
	var sharedSecret string

	cmd := &cobra.Command{
		Use:   "code",
		Short: "Derive the current guard code from an authenticator secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := guardcode.GenerateNow(sharedSecret)
			if err != nil {
				return err
			}
			fmt.Println(code)
			return nil
		},
	}

	cmd.Flags().StringVar(&sharedSecret, "shared-secret", "", "base64 authenticator shared secret")
	_ = cmd.MarkFlagRequired("shared-secret")
	return cmd
}
