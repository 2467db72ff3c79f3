package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/retromarket/retromarket/internal/client/models"
	"github.com/retromarket/retromarket/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. When the backend
// answers that a second factor is required, the user is prompted for an
// authenticator code (or "recovery <code>") and the login is re-submitted
// once with it. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Login(ctx, email, string(password), "", "")
	if errors.Is(err, common.ErrRequiresTwoFactor) {
		var input string
		input, err = getSimpleText(a.reader,
			"Enter the 6-digit code from your authenticator app (or: recovery <code>)", os.Stdout)
		if err != nil {
			return err
		}

		code, recovery := splitSecondFactor(input)
		id, err = a.auth.Login(ctx, email, string(password), code, recovery)
	}
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	fmt.Printf("Welcome back, %s!\n", id.Name)

	if a.auth.ConsumeTwoFactorNudge() {
		fmt.Println("Tip: protect your account by enabling two-factor authentication ('2fa setup').")
	}
	return nil
}

// splitSecondFactor separates a plain authenticator code from the
// "recovery <code>" form. Exactly one of the results is non-empty.
func splitSecondFactor(input string) (code, recovery string) {
	fields := strings.Fields(input)
	if len(fields) == 2 && strings.EqualFold(fields[0], "recovery") {
		return "", fields[1]
	}
	return strings.TrimSpace(input), ""
}

// Register prompts for the signup fields and creates an account. On
// success the user is logged in right away.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.auth.Register(ctx, models.Registration{
		Name:     name,
		Email:    email,
		Password: string(password),
	})
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	fmt.Printf("Account created. Welcome, %s!\n", id.Name)
	fmt.Println("Check your inbox: some actions stay locked until your email is confirmed.")
	return nil
}

// Logout invalidates the session and clears local state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println(friendlyError(err))
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
