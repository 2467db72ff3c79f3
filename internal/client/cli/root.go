package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	id := a.auth.CurrentIdentity()
	if id == nil {
		return ""
	}
	return fmt.Sprintf("(%s) ", id.Email)
}

// Root prints the banner and hands control to the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to RetroMarket CLI (type 'help' for commands)")

	if id := a.auth.CurrentIdentity(); id != nil {
		fmt.Printf("Logged in as %s.\n", id.Email)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
