package cli

import (
	"context"
	"fmt"

	"github.com/retromarket/retromarket/internal/client/services"
)

// Sell runs the advertisement-creation gate. The decision is evaluated on
// the freshest profile every time, never cached: a user who just added
// their CPF gets through on the next attempt.
func (a *App) Sell(ctx context.Context) error {
	p, err := a.auth.Profile(ctx)
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	decision := services.EvaluateProfileForAdCreation(p)
	if !decision.Allowed {
		fmt.Println("You cannot create an advertisement yet. To unlock it:")
		for _, step := range decision.RemediationSteps() {
			fmt.Printf("  - %s\n", step)
		}
		return nil
	}

	fmt.Println("You're all set. Opening the advertisement form...")
	// Listing creation itself lives outside the accounts client.
	return nil
}
