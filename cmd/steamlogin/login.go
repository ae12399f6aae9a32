package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tendric/steamauth/pkg/authapi"
	"github.com/tendric/steamauth/pkg/authsession"
	"github.com/tendric/steamauth/pkg/guardcode"
)

func newLoginCmd(config *Config) *cobra.Command {
	var (
		account           string
		encryptedPassword string
		keyTimestamp      uint64
		steamID           uint64
		code              string
		sharedSecret      string
		rememberLogin     bool
		showInfo          bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with account credentials",
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

			persistence := authapi.PersistencePersistent
			if !rememberLogin {
				persistence = authapi.PersistenceEphemeral
			}
			session, err := svc.StartWithCredentials(ctx, authsession.CredentialsParams{
				AccountName:       account,
				EncryptedPassword: encryptedPassword,
				KeyTimestamp:      keyTimestamp,
				Persistence:       persistence,
				SteamID:           steamID,
			})
			if err != nil {
				return err
			}
			defer session.Cancel()

			if showInfo {
				printSessionInfo(ctx, session)
			}
			if err := satisfyGuard(ctx, session, code, sharedSecret); err != nil {
				return err
			}

			result, err := session.Wait(ctx)
			if err != nil {
				return err
			}
			return printResult(result)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account name")
	cmd.Flags().StringVar(&encryptedPassword, "encrypted-password", "", "RSA-encrypted password, base64")
	cmd.Flags().Uint64Var(&keyTimestamp, "key-timestamp", 0, "timestamp of the encryption key")
	cmd.Flags().Uint64Var(&steamID, "steamid", 0, "account id, enables the cached machine-trust token")
	cmd.Flags().StringVar(&code, "code", "", "guard code, skips the prompt")
	cmd.Flags().StringVar(&sharedSecret, "shared-secret", "", "authenticator shared secret, derives the guard code")
	cmd.Flags().BoolVar(&rememberLogin, "remember", true, "request a persistent session")
	cmd.Flags().BoolVar(&showInfo, "show-info", false, "print the session risk info before confirming")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("encrypted-password")

	return cmd
}

// satisfyGuard walks the confirmation types the server offered, cheapest
// first: cached machine trust, then a supplied or derived code, then an
// interactive prompt. Device confirmation needs no local action, the poll
// loop picks it up.
func satisfyGuard(ctx context.Context, session *authsession.Session, code, sharedSecret string) error {
	snap := session.Snapshot()
	if snap.Confirmed {
		return nil
	}

	if offers(snap, authapi.GuardTypeMachineToken) || offers(snap, authapi.GuardTypeLegacyMachineAuth) {
		ok, result, err := session.CheckMachineAuth(ctx, "")
		if err != nil {
			return err
		}
		if ok {
			slog.Info("Machine trust accepted, no guard code needed")
			return nil
		}
		slog.Debug("Machine trust declined", "result", result)
	}

	codeType := authapi.GuardTypeDeviceCode
	if !offers(snap, authapi.GuardTypeDeviceCode) {
		codeType = authapi.GuardTypeEmailCode
	}
	if !offers(snap, codeType) {
		if offers(snap, authapi.GuardTypeDeviceConfirmation) {
			fmt.Fprintln(os.Stderr, "Approve this login in your mobile app...")
			return nil
		}
		return nil
	}

	if code == "" && sharedSecret != "" {
		derived, err := guardcode.GenerateNow(sharedSecret)
		if err != nil {
			return err
		}
		code = derived
	}
	if code == "" {
		for _, c := range snap.AllowedConfirmations {
			if c.Type == codeType && c.Message != "" {
				fmt.Fprintf(os.Stderr, "Guard hint: %s\n", c.Message)
			}
		}
		fmt.Fprintf(os.Stderr, "Enter guard code (%s): ", codeType)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read guard code: %w", err)
		}
		code = strings.TrimSpace(line)
	}

	return session.SubmitGuardCode(ctx, code, codeType)
}

func offers(snap authsession.Snapshot, gt authapi.GuardType) bool {
	for _, c := range snap.AllowedConfirmations {
		if c.Type == gt {
			return true
		}
	}
	return false
}

func printSessionInfo(ctx context.Context, session *authsession.Session) {
	info, err := session.Info(ctx)
	if err != nil {
		slog.Error("Failed to fetch session info", "error", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Login request from %s (%s, %s) on %s, history: %s\n",
		info.IP, info.City, info.State, info.DeviceFriendlyName, info.LoginHistory)
	if info.LocationMismatch {
		fmt.Fprintln(os.Stderr, "Warning: requestor location does not match this device")
	}
}

func printResult(result *authsession.Result) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
