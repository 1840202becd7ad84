package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rajgupta764/legal-saarthi/internal/client/models"
	"github.com/Rajgupta764/legal-saarthi/internal/client/services"
	"github.com/Rajgupta764/legal-saarthi/internal/common"
)

// getPassword is an indirection used to facilitate testing.
var getPassword = GetPassword

const minPasswordLength = 6

// Signup form errors, shown as they are.
const (
	MsgPasswordMismatch = "पासवर्ड मेल नहीं खाते"
	MsgPasswordTooShort = "पासवर्ड कम से कम 6 अक्षर का होना चाहिए"
)

// Login prompts for an email and password and authenticates. On success the
// dashboard is shown; on failure the message from the session store is
// printed and nil is returned.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Type 'logout' to switch accounts.")
		return nil
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.afterAuth(a.session.Login(ctx, email, string(password)))
}

// Signup prompts for the registration form. The password is entered twice
// and must be at least six characters long.
func (a *App) Signup(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in. Type 'logout' to switch accounts.")
		return nil
	}

	name, err := GetSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Enter phone", a.out)
	if err != nil {
		return err
	}

	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	switch {
	case string(password) != string(confirm):
		fmt.Fprintln(a.out, MsgPasswordMismatch)
		return nil
	case len([]rune(string(password))) < minPasswordLength:
		fmt.Fprintln(a.out, MsgPasswordTooShort)
		return nil
	}

	return a.afterAuth(a.session.Signup(ctx, name, email, phone, string(password)))
}

func (a *App) afterAuth(res services.Result) error {
	if !res.Success {
		fmt.Fprintln(a.out, res.Error)
		return nil
	}
	fmt.Fprintln(a.out, res.Message)
	return a.show(PathDashboard)
}

// Logout forgets the session and returns to the home view.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return a.show(PathHome)
}

// WhoAmI prints the session user and what the token says about its expiry.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	if !st.Authenticated {
		return services.ErrNotAuthenticated
	}
	printUser(a, st.User)

	claims, err := a.session.TokenClaims(ctx)
	switch {
	case errors.Is(err, common.ErrInvalidToken):
		fmt.Fprintln(a.out, "Token: opaque, expiry unknown")
		return nil
	case err != nil:
		return err
	case claims.ExpiresAt.IsZero():
		fmt.Fprintln(a.out, "Token: no expiry")
	case claims.Expired(time.Now()):
		fmt.Fprintf(a.out, "Token: expired at %s\n", claims.ExpiresAt.Format(time.RFC1123))
	default:
		fmt.Fprintf(a.out, "Token: expires at %s\n", claims.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}

// Profile refreshes the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	printUser(a, user)
	if user.CreatedAt != "" {
		fmt.Fprintf(a.out, "Member since: %s\n", user.CreatedAt)
	}
	return nil
}

func printUser(a *App, u *models.User) {
	if u == nil {
		return
	}
	fmt.Fprintf(a.out, "Name: %s\n", u.Name)
	fmt.Fprintf(a.out, "Email: %s\n", u.Email)
	if u.Phone != "" {
		fmt.Fprintf(a.out, "Phone: %s\n", u.Phone)
	}
}

// Go opens the view at path.
func (a *App) Go(_ context.Context, path string) error {
	return a.show(path)
}

func (a *App) show(path string) error {
	if _, err := a.router.Navigate(path); err != nil {
		return err
	}
	a.router.Render(a.out)
	return nil
}

// readSecret reads without echo on a terminal and as a plain line otherwise.
func (a *App) readSecret(prompt string) ([]byte, error) {
	if a.interactive {
		return getPassword(prompt, a.out)
	}
	text, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}
