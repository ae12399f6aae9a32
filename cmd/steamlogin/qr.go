package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/tendric/steamauth/pkg/authsession"
)

func newQRCmd(config *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Log in by scanning a challenge URL on another device",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			trust, cleanup, err := newTrustService(ctx, config)
			if err != nil {
				return err
			}
			defer cleanup()

			svc, err := newAuthService(config, trust)
			if err != nil {
				return err
			}

			session, err := svc.StartWithQR(ctx, authsession.QRParams{})
			if err != nil {
				return err
			}
			defer session.Cancel()

			url := session.ChallengeURL()
			fmt.Fprintf(os.Stderr, "Scan to log in: %s\n", url)

			// The server reissues the challenge URL periodically; keep the
			// printed one current while we wait.
			done := make(chan struct{})
			defer close(done)
			go func() {
				ticker := time.NewTicker(2 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if current := session.ChallengeURL(); current != url {
							url = current
							fmt.Fprintf(os.Stderr, "Challenge renewed, scan: %s\n", url)
						}
					case <-done:
						return
					}
				}
			}()

			result, err := session.Wait(ctx)
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}
	return cmd
}
