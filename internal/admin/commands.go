package admin

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) createUser(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: create-user <email> [first-name] [last-name]")
	}
	email := args[0]
	var firstName, lastName string
	if len(args) > 1 {
		firstName = args[1]
	}
	if len(args) > 2 {
		lastName = args[2]
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	user, err := a.userService.Register(ctx, email, password, firstName, lastName)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (%s)\n", user.Email, user.ID)
	return nil
}

func (a *App) resetPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: reset-password <email>")
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.userService.ResetPassword(ctx, args[0], password); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "password reset for %s\n", args[0])
	return nil
}

func (a *App) grantRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: grant-role <email> <role>")
	}

	if err := a.userService.GrantRole(ctx, args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "granted role %s to %s\n", args[1], args[0])
	return nil
}

func (a *App) revokeAll(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: revoke-all <email> [reason]")
	}
	reason := "revoked by administrator"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}

	user, err := a.userService.FindByEmail(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.authService.RevokeAll(ctx, user.ID, reason, ""); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "revoked all sessions for %s\n", user.Email)
	return nil
}

func (a *App) sessions(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sessions <email>")
	}

	user, err := a.userService.FindByEmail(ctx, args[0])
	if err != nil {
		return err
	}
	records, err := a.authService.ActiveSessions(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(a.out, "no active sessions for %s\n", user.Email)
		return nil
	}
	for _, r := range records {
		ip := "-"
		if r.CreatedByIP != nil {
			ip = *r.CreatedByIP
		}
		fmt.Fprintf(a.out, "%s  created %s  from %s  expires %s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), ip, r.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
