package main

import (
	"errors"
	"fmt"
	"io"

	"smartspend/internal/dto"
	"smartspend/internal/models"
	"smartspend/internal/server"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	flagNewUsername string
	flagNewEmail    string
	flagNewPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a user; prompts for anything not given as a flag",
	RunE:  runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&flagNewUsername, "username", "", "Username")
	userCreateCmd.Flags().StringVar(&flagNewEmail, "email", "", "Email (optional)")
	userCreateCmd.Flags().StringVar(&flagNewPassword, "password", "", "Password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	req := &dto.RegisterRequest{
		Username:        flagNewUsername,
		Email:           flagNewEmail,
		Password:        flagNewPassword,
		ConfirmPassword: flagNewPassword,
	}

	if req.Username == "" || req.Password == "" {
		if err := promptRegistration(req); err != nil {
			return err
		}
	}

	return withContainer(func(c *server.Container) error {
		return createUser(cmd.OutOrStdout(), c, req)
	})
}

// promptRegistration asks for the fields of req that are still empty.
func promptRegistration(req *dto.RegisterRequest) error {
	var fields []huh.Field
	if req.Username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Validate(func(s string) error {
				return (&models.User{Username: s}).Validate()
			}).
			Value(&req.Username))
		fields = append(fields, huh.NewInput().
			Title("Email").
			Description("Optional").
			Value(&req.Email))
	}
	if req.Password == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&req.Password),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Validate(func(s string) error {
					if s != req.Password {
						return errors.New("passwords do not match")
					}
					return nil
				}).
				Value(&req.ConfirmPassword),
		)
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("user creation cancelled: %w", err)
	}
	return nil
}

func createUser(out io.Writer, c *server.Container, req *dto.RegisterRequest) error {
	user, err := c.AuthService.Register(req, cliIPAddress, cliUserAgent)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Fprintf(out, "  Created user %s (%s)\n", user.Username, user.ID)
	return nil
}
