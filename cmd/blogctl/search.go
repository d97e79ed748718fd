package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	devhabit "github.com/devhabit/devhabit/pkg/sdk"
)

func searchCmd(opts *globalOptions) *cobra.Command {
	var (
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search [text]",
		Short: "Search published blogs",
		Long: `Ranks published blogs containing the text in title, summary or content.
Without text, lists published blogs newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			res, err := c.Search(cmd.Context(), strings.Join(args, " "), page, pageSize)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RELEVANCE\tID\tTITLE\tPUBLISHED")
			for _, hit := range res.Items {
				rel := "-"
				if hit.Relevance != nil {
					rel = fmt.Sprintf("%.2f", *hit.Relevance)
				}
				published := "-"
				if hit.PublishedAt != nil {
					published = hit.PublishedAt.UTC().Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rel, hit.ID, hit.Title, published)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d total\n", res.Page, res.TotalPages, res.TotalCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "items per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page as JSON")
	return cmd
}

func getCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a published blog as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			b, err := c.Get(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, devhabit.ErrNotFound) {
					return fmt.Errorf("blog %s not found", args[0])
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), b)
		},
	}
}
