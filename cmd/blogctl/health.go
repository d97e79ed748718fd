package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func healthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the document store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := openClient(cmd, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			h := c.Health(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s\n", h.Status)

			names := make([]string, 0, len(h.Checks))
			for name := range h.Checks {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "  %s: %s\n", name, h.Checks[name])
			}

			if h.Status != "ok" {
				return fmt.Errorf("store is %s", h.Status)
			}
			return nil
		},
	}
}
