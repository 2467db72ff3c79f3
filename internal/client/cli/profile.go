package cli

import (
	"context"
	"fmt"
)

// WhoAmI prints the identity of the logged-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	id := a.auth.CurrentIdentity()
	if id == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s>\n", id.Name, id.Email)
	return nil
}

// Profile prints the extended profile. The first call fetches it from the
// backend; later calls are served from the cache.
func (a *App) Profile(ctx context.Context) error {
	p, err := a.auth.Profile(ctx)
	if err != nil {
		fmt.Println(friendlyError(err))
		return err
	}

	fmt.Printf("Name:            %s\n", p.Name)
	fmt.Printf("Email:           %s (confirmed: %v)\n", p.Email, p.EmailConfirmed)
	if p.CPF != "" {
		fmt.Printf("CPF:             %s\n", p.CPF)
	} else {
		fmt.Println("CPF:             (not provided)")
	}
	for _, addr := range p.Addresses {
		fmt.Printf("Address:         %s %s, %s/%s %s\n", addr.Street, addr.Number, addr.City, addr.State, addr.ZipCode)
	}
	return nil
}
