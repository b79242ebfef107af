package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errSessionFailed = errors.New("session operation failed")

// Register prompts for name, e-mail and password and signs the new account
// in. On success the product list is loaded.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	a.auth.SignUp(ctx, models.RegisterData{Email: email, Password: string(password), Name: name})
	return a.afterSignIn(ctx)
}

// Login prompts for credentials and signs in. On success the product list
// is loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	a.auth.SignIn(ctx, models.LoginData{Email: email, Password: string(password)})
	return a.afterSignIn(ctx)
}

func (a *App) afterSignIn(ctx context.Context) error {
	if err := a.reportSessionError(); err != nil {
		return err
	}
	s := a.auth.Snapshot()
	fmt.Fprintf(a.out, "Welcome, %s!\n", s.User.Name)
	return a.List(ctx)
}

// reportSessionError prints the session's pending error, if any. The error
// stays in the session until the user dismisses it.
func (a *App) reportSessionError() error {
	s := a.auth.Snapshot()
	if s.LastError == "" {
		return nil
	}
	fmt.Fprintf(a.out, "Error: %s (type 'dismiss' to close)\n", s.LastError)
	return errSessionFailed
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	a.auth.SignOut(ctx)
	if err := a.reportSessionError(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Status prints the session.
func (a *App) Status(_ context.Context) error {
	s := a.auth.Snapshot()

	fmt.Fprintf(a.out, "Status: %s\n", s.Status)
	if s.User != nil {
		fmt.Fprintf(a.out, "User: %s <%s> %s\n", s.User.Name, s.User.Email, s.User.Role)
	}
	if !s.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Session expires: %s\n", s.ExpiresAt.Local().Format(time.DateTime))
	}
	if s.LastError != "" {
		fmt.Fprintf(a.out, "Error: %s\n", s.LastError)
	}
	return nil
}

// Dismiss clears the session error.
func (a *App) Dismiss(_ context.Context) error {
	a.auth.DismissError()
	return nil
}
