package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
	"github.com/debray/finkeep/internal/common"
)

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create a new account",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			password, err := readNewPassword()
			if err != nil {
				return err
			}

			if err := accounts.Register(args[0], args[1], password); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("User registered successfully."))
			return nil
		},
	}
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Verify account credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			identity, err := accounts.Authenticate(args[0], password)
			if err != nil {
				return common.NewUserError("incorrect username or password", err)
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Welcome, %s <%s>", identity.Username, identity.Email)))
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	var (
		email          string
		changePassword bool
	)

	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Update account email and password",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			var password string
			if changePassword {
				password, err = readNewPassword()
				if err != nil {
					return err
				}
			}

			if err := accounts.UpdateProfile(args[0], email, password); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Profile updated successfully."))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "new contact email address")
	cmd.Flags().BoolVar(&changePassword, "change-password", false, "prompt for a new password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
