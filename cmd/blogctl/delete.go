package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	devhabit "github.com/devhabit/devhabit/pkg/sdk"
)

func deleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openClient(cmd, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Blogs().Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, devhabit.ErrNotFound) {
					return fmt.Errorf("blog %s not found", args[0])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
