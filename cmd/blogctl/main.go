// Command blogctl maintains and queries the DevHabit blog catalog directly
// against its document store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devhabit/devhabit/internal/version"
	devhabit "github.com/devhabit/devhabit/pkg/sdk"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	driver   string
	addr     string
	password string
	path     string
	prefix   string
	owner    string
	verbose  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "blogctl",
		Short:        "Maintain and search the DevHabit blog catalog",
		Version:      version.String(),
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.driver, "driver", "sqlite", "document store: redis, valkey or sqlite")
	pf.StringVar(&opts.addr, "addr", "localhost:6379", "redis/valkey address")
	pf.StringVar(&opts.password, "password", os.Getenv("DB_PASSWORD"), "redis/valkey password")
	pf.StringVar(&opts.path, "path", "data/devhabit.db", "sqlite database file")
	pf.StringVar(&opts.prefix, "prefix", devhabit.DefaultKeyPrefix, "redis/valkey key prefix")
	pf.StringVar(&opts.owner, "owner", "", "only show blogs of this author (search, get)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log every store operation")

	root.AddCommand(importCmd(opts))
	root.AddCommand(deleteCmd(opts))
	root.AddCommand(searchCmd(opts))
	root.AddCommand(getCmd(opts))
	root.AddCommand(healthCmd(opts))

	return root
}

// openClient connects to the store selected by the persistent flags.
func openClient(cmd *cobra.Command, opts *globalOptions) (*devhabit.Client, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	clientOpts := []devhabit.Option{
		devhabit.WithLogger(logger),
		devhabit.WithKeyPrefix(opts.prefix),
		devhabit.WithOwner(opts.owner),
	}
	switch opts.driver {
	case "redis":
		clientOpts = append(clientOpts, devhabit.WithRedis(opts.addr, opts.password))
	case "valkey":
		clientOpts = append(clientOpts, devhabit.WithValkey(opts.addr, opts.password))
	case "sqlite":
		clientOpts = append(clientOpts, devhabit.WithSQLite(opts.path))
	default:
		return nil, fmt.Errorf("unknown driver %q (want redis, valkey or sqlite)", opts.driver)
	}

	c, err := devhabit.New(cmd.Context(), clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return c, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
