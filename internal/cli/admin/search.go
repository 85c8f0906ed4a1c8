package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cloo-solutions/simsearch/internal/config"
	"github.com/cloo-solutions/simsearch/internal/domain"
	"github.com/cloo-solutions/simsearch/internal/service"
	"github.com/spf13/cobra"
)

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	var (
		as      int64
		filters []string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a search as an account",
		Long:  "Run a federated search on behalf of an account, exactly as the API would, and log it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			parsed, err := parseFilterFlags(filters)
			if err != nil {
				return err
			}
			return withStack(cmd.Context(), func(ctx context.Context, stack *searchStack) error {
				p, err := stack.principals.ResolvePrincipal(ctx, strconv.FormatInt(as, 10))
				if err != nil {
					return err
				}
				resp, err := stack.search.Search(ctx, p, strings.Join(args, " "), parsed)
				if err != nil {
					return err
				}
				return printSearch(cmd.OutOrStdout(), outputFormat, resp)
			})
		},
	}

	cmd.Flags().Int64Var(&as, "as", 0, "Account id to search as")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as key=value (repeatable)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	var (
		as     int64
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List an account's query log",
		Long:  "List the logged queries of an account, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return withStack(cmd.Context(), func(ctx context.Context, stack *searchStack) error {
				p, err := stack.principals.ResolvePrincipal(ctx, strconv.FormatInt(as, 10))
				if err != nil {
					return err
				}
				page, err := stack.search.HistoryPage(ctx, p, service.HistoryPageInput{Limit: limit, Cursor: cursor})
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), outputFormat, page)
			})
		},
	}

	cmd.Flags().Int64Var(&as, "as", 0, "Account id whose history to list")
	_ = cmd.MarkFlagRequired("as")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

// withStack loads config, opens the database without migrating and runs fn
// against a synchronous search stack.
func withStack(ctx context.Context, fn func(ctx context.Context, stack *searchStack) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	SetupLogging(cfg.Debug)
	// one-shot commands must not return before their suggestion update lands
	cfg.SuggestionAsync = false

	b, err := openBackend(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer b.close()

	stack, err := newSearchStack(cfg, b)
	if err != nil {
		return err
	}
	defer stack.recorder.Release()

	return fn(ctx, stack)
}

func parseFilterFlags(values []string) (map[string]string, error) {
	filters := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q: expected key=value", v)
		}
		filters[key] = value
	}
	return filters, nil
}

type searchResultOutput struct {
	Module   domain.Module `json:"module"`
	ObjectID int64         `json:"object_id"`
	Title    string        `json:"title"`
	Summary  string        `json:"summary"`
	URL      string        `json:"url"`
	Score    float64       `json:"score"`
}

func printSearch(w io.Writer, format string, resp *service.SearchResponse) error {
	if format == "json" {
		results := make([]searchResultOutput, len(resp.Results))
		for i, r := range resp.Results {
			results[i] = searchResultOutput(r)
		}
		return writeJSON(w, map[string]interface{}{
			"results":     results,
			"count":       resp.Count,
			"duration_ms": resp.DurationMs,
			"history":     resp.History,
			"suggestions": resp.Suggestions,
		})
	}

	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No results found")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODULE\tID\tSCORE\tTITLE\tSUMMARY")
	for _, r := range resp.Results {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%s\t%s\n", r.Module, r.ObjectID, r.Score, r.Title, r.Summary)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d results in %dms\n", resp.Count, resp.DurationMs)
	return nil
}

func printHistory(w io.Writer, format string, page *service.QueryLogPageResult) error {
	if format == "json" {
		items := make([]map[string]interface{}, len(page.Items))
		for i, l := range page.Items {
			items[i] = map[string]interface{}{
				"id":           l.ID,
				"query":        l.QueryText,
				"filters":      l.Filters,
				"result_count": l.ResultCount,
				"duration_ms":  l.DurationMs,
				"created_at":   l.CreatedAt,
			}
		}
		return writeJSON(w, map[string]interface{}{
			"items":    items,
			"cursor":   page.NextCursor,
			"has_more": page.HasMore,
		})
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No queries logged")
		return nil
	}
	for _, l := range page.Items {
		fmt.Fprintf(w, "  %s  %-40s %d results\n", l.CreatedAt.Format("2006-01-02 15:04:05"), l.QueryText, l.ResultCount)
	}
	if page.HasMore {
		fmt.Fprintf(w, "\nMore results available. Use --cursor %s\n", page.NextCursor)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
