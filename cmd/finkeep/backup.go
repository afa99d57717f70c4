package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <file>",
		Short: "Export the store to a .json, .csv, or .xml file",
		Long: `Write the store to a backup file; the format follows the file extension.
JSON carries everything, XML carries transactions and documents, and CSV
carries transactions only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			if err := store.Backup(args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Data backed up successfully."))
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the store from a .json, .csv, or .xml backup",
		Long: `Replace the whole store with the backup file's contents. A file that
fails to parse leaves the current data untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			if err := store.Restore(args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Data restored successfully."))
			return nil
		},
	}
}
