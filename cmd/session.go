package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"venuespace-cli/model"
	"venuespace-cli/service"
)

func newLoginCmd() *cobra.Command {
	var name, email, role string
	c := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a guest or host",
		Long:  `Sign in. Missing values are prompted for interactively.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			if name == "" {
				if name, err = promptText("Name", validateName); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = promptText("Email", validateEmail); err != nil {
					return err
				}
			}
			if role == "" {
				if role, err = promptRole(); err != nil {
					return err
				}
			}

			user, err := a.session.Login(model.User{Name: name, Email: email, Role: model.Role(strings.ToLower(role))})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
	c.Flags().StringVar(&name, "name", "", "your name")
	c.Flags().StringVar(&email, "email", "", "your email address")
	c.Flags().StringVar(&role, "role", "", "guest or host")
	return c
}

func promptText(label string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	value, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		return "", fmt.Errorf("login cancelled")
	}
	return strings.TrimSpace(value), err
}

func promptRole() (string, error) {
	prompt := promptui.Select{
		Label: "Sign in as",
		Items: []string{string(model.RoleGuest), string(model.RoleHost)},
	}
	_, role, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) {
		return "", fmt.Errorf("login cancelled")
	}
	return role, err
}

func validateName(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("name is required")
	}
	return nil
}

// validateEmail reuses the login validation so the prompt rejects what
// Login would.
func validateEmail(input string) error {
	return service.ValidateStruct(model.User{Name: "-", Email: strings.TrimSpace(input)})
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			user, ok := a.session.CurrentUser()
			if err := a.session.Logout(); err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s\n", user.Email)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			}
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			user, ok := a.session.CurrentUser()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
}
