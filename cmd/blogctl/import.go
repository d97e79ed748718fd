package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	devhabit "github.com/devhabit/devhabit/pkg/sdk"
)

// blogRecord is one entry of an import file.
type blogRecord struct {
	ID          string     `yaml:"id"`
	UserID      string     `yaml:"user_id"`
	Title       string     `yaml:"title"`
	Summary     *string    `yaml:"summary"`
	Content     string     `yaml:"content"`
	IsPublished bool       `yaml:"is_published"`
	IsArchived  bool       `yaml:"is_archived"`
	Tags        []string   `yaml:"tags"`
	CreatedAt   *time.Time `yaml:"created_at"`
	PublishedAt *time.Time `yaml:"published_at"`
}

func (r *blogRecord) input() devhabit.BlogInput {
	return devhabit.BlogInput{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Summary:     r.Summary,
		Content:     r.Content,
		IsPublished: r.IsPublished,
		IsArchived:  r.IsArchived,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedAt,
		PublishedAt: r.PublishedAt,
	}
}

func importCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Create or update blogs from a YAML list",
		Long: `Reads a YAML list of blogs and upserts each of them. Entries without an id
get a new one. Failures are reported per entry and do not stop the import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(args[0])
			if err != nil {
				return err
			}

			c, err := openClient(cmd, opts)
			if err != nil {
				return err
			}
			defer c.Close()

			inputs := make([]devhabit.BlogInput, len(records))
			for i := range records {
				inputs[i] = records[i].input()
			}
			res := c.Blogs().Import(cmd.Context(), inputs)

			out := cmd.OutOrStdout()
			for _, item := range res.Items {
				if item.Err != nil {
					fmt.Fprintf(out, "#%d %s: %s: %v\n", item.Index, item.ID, item.Status, item.Err)
					continue
				}
				fmt.Fprintf(out, "#%d %s: %s\n", item.Index, item.ID, item.Status)
			}
			fmt.Fprintf(out, "created %d, updated %d, failed %d\n", res.Created, res.Updated, res.Failed)

			if res.Failed > 0 {
				return fmt.Errorf("%d of %d blogs failed", res.Failed, len(inputs))
			}
			return nil
		},
	}
}

func readRecords(path string) ([]blogRecord, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []blogRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
