package cli

import (
	"context"
	"os"

	"github.com/pterm/pterm"

	"github.com/dmitrijs2005/gophfeed/internal/common"
)

// Prompt indirections, swapped in tests.
var (
	readLine   = ReadLine
	readBody   = ReadBody
	readSecret = ReadSecret
)

// Signup prompts for email, name and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	email, err := readLine(a.reader, os.Stdout, "Email", "")
	if err != nil {
		return err
	}
	name, err := readLine(a.reader, os.Stdout, "Name", "")
	if err != nil {
		return err
	}
	password, err := readSecret(a.reader, os.Stdout, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.authService.Signup(ctx, email, name, password)
	if err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprintf("User created (%s). You can log in now.", id))
	return nil
}

// Login prompts for credentials; on success the token is saved for the next
// session.
func (a *App) Login(ctx context.Context) error {
	email, err := readLine(a.reader, os.Stdout, "Email", "")
	if err != nil {
		return err
	}
	password, err := readSecret(a.reader, os.Stdout, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprint("Login successful"))
	return nil
}

// Logout stops any running watcher and forgets the saved token.
func (a *App) Logout(ctx context.Context) error {
	_ = a.Unwatch(ctx)
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s, err := a.authService.Status(ctx)
	if err != nil {
		return err
	}
	printlnFn("Status:", s)
	return nil
}

func (a *App) SetStatus(ctx context.Context) error {
	s, err := readLine(a.reader, os.Stdout, "New status", "")
	if err != nil {
		return err
	}
	if err := a.authService.SetStatus(ctx, s); err != nil {
		return err
	}
	printlnFn(pterm.Success.Sprint("Status updated"))
	return nil
}
