package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var confirm = Confirm

// Register prompts for an email and password and creates the account.
// It does not log in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can login now.")
	return nil
}

// Login prompts for credentials and stores the session on success.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if s.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Logged in as %s\n", s.Email)
	} else {
		fmt.Fprintf(a.out, "Logged in as %s until %s\n", s.Email, s.ExpiresAt.Local().Format("15:04:05"))
	}
	return nil
}

// Logout forgets the stored session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
