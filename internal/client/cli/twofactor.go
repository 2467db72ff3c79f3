package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/retromarket/retromarket/internal/client/services"
	"github.com/retromarket/retromarket/internal/common"
)

// TwoFactor dispatches the "2fa" subcommands. Without arguments it prints
// the current status.
func (a *App) TwoFactor(ctx context.Context, args []string) error {
	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		return a.twoFactorStatus(ctx)
	case "setup":
		return a.twoFactorSetup(ctx)
	case "verify":
		return a.twoFactorVerify(ctx)
	case "disable":
		return a.twoFactorDisable(ctx)
	case "recovery":
		return a.twoFactorRecovery(ctx)
	default:
		fmt.Println("Usage: 2fa [status|setup|verify|disable|recovery]")
		return nil
	}
}

func (a *App) twoFactorStatus(ctx context.Context) error {
	st, err := a.twoFactor.Inspect(ctx)
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}
	if st.IsEnabled {
		fmt.Printf("Two-factor authentication is enabled. Recovery codes left: %d\n", st.RecoveryCodesLeft)
		if st.RecoveryCodesLeft <= 2 {
			fmt.Println("You are running low on recovery codes. Run '2fa recovery' to generate a fresh set.")
		}
	} else {
		fmt.Println("Two-factor authentication is disabled. Run '2fa setup' to enable it.")
	}
	return nil
}

func (a *App) twoFactorSetup(ctx context.Context) error {
	key, err := a.twoFactor.BeginSetup(ctx)
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	id := a.auth.CurrentIdentity()
	email := ""
	if id != nil {
		email = id.Email
	}

	fmt.Println("Scan this URI with your authenticator app, or enter the key manually:")
	fmt.Printf("  %s\n", services.ProvisioningURI(email, key))
	fmt.Printf("  Key: %s\n", services.FormatKey(key))
	fmt.Println("Then run '2fa verify' with a code from the app to finish.")
	return nil
}

func (a *App) twoFactorVerify(ctx context.Context) error {
	code, err := getSimpleText(a.reader, "Authenticator code", os.Stdout)
	if err != nil {
		return err
	}

	recovery, err := a.twoFactor.VerifyAndEnable(ctx, code)
	if err != nil {
		if errors.Is(err, common.ErrInvalidTwoFactorCode) {
			fmt.Println("That code didn't match. Pick a fresh one from the app and run '2fa verify' again.")
			return err
		}
		fmt.Println(friendlyError(err))
		return err
	}

	fmt.Println("Two-factor authentication is now enabled.")
	printRecoveryCodes(recovery)
	return nil
}

func (a *App) twoFactorDisable(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Disable two-factor authentication? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.twoFactor.Disable(ctx); err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	fmt.Println("Two-factor authentication disabled. Please log in again.")
	return a.Logout(ctx)
}

func (a *App) twoFactorRecovery(ctx context.Context) error {
	codes, err := a.twoFactor.RegenerateRecoveryCodes(ctx)
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}
	printRecoveryCodes(codes)
	return nil
}

func printRecoveryCodes(codes []string) {
	if len(codes) == 0 {
		return
	}
	fmt.Println("Recovery codes (shown only once, store them somewhere safe):")
	for _, c := range codes {
		fmt.Printf("  %s\n", c)
	}
}
