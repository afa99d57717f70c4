package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search across transactions and every document category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			transactions, documents := store.SearchAll(args[0])

			fmt.Println(cli.FormatTitle("Transactions"))
			renderTransactions(transactions)

			for _, category := range store.Schemas().Categories() {
				docs, ok := documents[category]
				if !ok {
					continue
				}
				fmt.Println()
				fmt.Println(cli.FormatTitle(category))
				renderDocuments(store.Schemas().MustGet(category), docs)
			}
			return nil
		},
	}
}
