package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
	"github.com/debray/finkeep/internal/common"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Request or redeem a password reset token",
	}

	cmd.AddCommand(resetRequestCmd())
	cmd.AddCommand(resetRedeemCmd())

	return cmd
}

func resetRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <username-or-email>",
		Short: "Issue a reset token and email it to the account holder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			if err := accounts.RequestReset(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError("no account matches that username or email", err)
				}
				return err
			}
			fmt.Println(cli.FormatSuccess("Reset token sent to your email."))
			return nil
		},
	}
}

func resetRedeemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redeem <token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			accounts, err := openAccounts()
			if err != nil {
				return err
			}

			password, err := readNewPassword()
			if err != nil {
				return err
			}

			if err := accounts.RedeemReset(args[0], password); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Password reset successfully."))
			return nil
		},
	}
}
