package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/debray/finkeep/internal/cli"
	"github.com/debray/finkeep/internal/model"
)

func docCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Manage identity document records",
		Long:  `Store and search records of identity documents with attached image scans.`,
	}

	cmd.AddCommand(docAddCmd())
	cmd.AddCommand(docListCmd())
	cmd.AddCommand(docSearchCmd())
	cmd.AddCommand(docCategoriesCmd())

	return cmd
}

func docAddCmd() *cobra.Command {
	var (
		fieldPairs []string
		imagePairs []string
	)

	cmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Add a document record",
		Long: `Add a record to a document category. Data fields are given as repeated
--field name=value flags; image attachments as --image name=path. Image
files are copied into the managed documents directory; the originals stay
where they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			fields, err := parsePairs(fieldPairs)
			if err != nil {
				return err
			}
			images, err := parsePairs(imagePairs)
			if err != nil {
				return err
			}

			doc, err := store.AddDocument(args[0], fields, images)
			if err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Document saved: " + doc.ID))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fieldPairs, "field", nil, "data field as name=value (repeatable)")
	cmd.Flags().StringArrayVar(&imagePairs, "image", nil, "image attachment as name=path (repeatable)")

	return cmd
}

func docListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category>",
		Short: "List a category's document records",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			docs, err := store.Documents(args[0])
			if err != nil {
				return err
			}
			renderDocuments(store.Schemas().MustGet(args[0]), docs)
			return nil
		},
	}
}

func docSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <category> <keyword>",
		Short: "Search a category's records by keyword",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			docs, err := store.SearchDocuments(args[0], args[1])
			if err != nil {
				return err
			}
			renderDocuments(store.Schemas().MustGet(args[0]), docs)
			return nil
		},
	}
}

func docCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List or add document categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List document categories and their fields",
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Category"),
				cli.HeaderStyle.Render("Fields"),
				cli.HeaderStyle.Render("Images"))
			for _, name := range store.Schemas().Categories() {
				schema := store.Schemas().MustGet(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name,
					strings.Join(schema.FieldNames(), ", "),
					strings.Join(schema.Images, ", "))
			}
			return nil
		},
	})

	var fields []string
	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a custom document category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openLedger()
			if err != nil {
				return err
			}

			if err := store.RegisterCategory(args[0], fields); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Category registered: " + args[0]))
			return nil
		},
	}
	addCmd.Flags().StringSliceVar(&fields, "fields", nil, "comma-separated field names")
	_ = addCmd.MarkFlagRequired("fields")
	cmd.AddCommand(addCmd)

	return cmd
}

func renderDocuments(schema model.Schema, docs []model.Document) {
	if len(docs) == 0 {
		fmt.Println(cli.InfoStyle.Render("No documents found."))
		return
	}

	names := append(schema.FieldNames(), schema.Images...)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	header := make([]string, 0, len(names)+1)
	for _, name := range names {
		header = append(header, cli.HeaderStyle.Render(name))
	}
	header = append(header, cli.HeaderStyle.Render("id"))
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, doc := range docs {
		row := make([]string, 0, len(names)+1)
		for _, name := range names {
			row = append(row, doc.Field(name))
		}
		row = append(row, cli.SubtleStyle.Render(doc.ID))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
}
