package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pathgrip/internal/config"
	"pathgrip/internal/discovery"
	"pathgrip/internal/domain"
	"pathgrip/internal/logging"
	"pathgrip/internal/logic"
	"pathgrip/internal/provider"
)

type searchOptions struct {
	dir        string
	configPath string
	json       bool
	limit      int
}

type searchResponse struct {
	Query     string                `json:"query"`
	Results   []domain.SearchResult `json:"results"`
	Total     int                   `json:"total"`
	Truncated bool                  `json:"truncated"`
}

func newSearchCmd(streams Streams) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the suggestions for a query",
		Long: `Index the directory once and print the paths the prompt would suggest.

Examples:
  pathgrip search main            # suggestions for "main"
  pathgrip search --json src/     # output as JSON
  pathgrip search -n 5 readme     # at most 5 results`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runSearch(ctx, args[0], opts, streams)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "directory to index (default: current directory)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "configuration file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output results as JSON")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of results (default: search.max_results)")

	return cmd
}

func runSearch(ctx context.Context, query string, opts *searchOptions, streams Streams) error {
	explicit, err := absPath(opts.configPath)
	if err != nil {
		return err
	}
	if _, err := enterDir(opts.dir); err != nil {
		return err
	}

	cfg, _, err := config.Resolve(config.NewConfigService(), ".", explicit)
	if err != nil {
		return err
	}
	logging.Discard()

	if opts.limit > 0 {
		cfg.Search.MaxResults = opts.limit
	}

	store := logic.NewMemoryFileStore()
	if _, err := discovery.Scan(ctx, cfg.Roots, cfg.Index, func(batch []domain.FileEntry) {
		store.Add(batch...)
	}); err != nil {
		return err
	}

	p, err := provider.New(cfg.Search, ".", store)
	if err != nil {
		return err
	}
	results, err := p.Search(ctx, query)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(streams.Out)
		enc.SetEscapeHTML(false)
		return enc.Encode(searchResponse{
			Query:     query,
			Results:   results,
			Total:     len(results),
			Truncated: cfg.Search.MaxResults > 0 && len(results) >= cfg.Search.MaxResults,
		})
	}

	if len(results) == 0 {
		fmt.Fprintln(streams.Err, "No results found.")
		return nil
	}
	for _, r := range results {
		path := r.Path
		if !r.IsFile {
			path += "/"
		}
		fmt.Fprintln(streams.Out, path)
	}
	return nil
}
