package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"replygraph/internal/analytics"
	"replygraph/internal/cmdlog"
	"replygraph/internal/config"
	"replygraph/internal/graph"
	"replygraph/internal/graphclient"
	"replygraph/internal/theme"
	"replygraph/internal/util"
)

// --- init ---

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: cmdlog.RunE("init", func(cmd *cobra.Command, _ []string) error {
		if err := config.Save(cfgPath, config.Default()); err != nil {
			return err
		}
		abs, _ := filepath.Abs(cfgPath)
		theme.PrintBanner(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
		return nil
	}),
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Fetch a user's recent replies as normalized engagements",
	RunE: cmdlog.RunE("search", func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		hourly, _ := cmd.Flags().GetBool("hourly")

		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		res, err := newPipeline(cfg).Run(cmd.Context(), username)
		if err != nil {
			return err
		}
		if hourly {
			printHourly(cmd.OutOrStdout(), analytics.HourlyEngagement(res.Engagements))
			return nil
		}
		return printJSON(cmd.OutOrStdout(), res)
	}),
}

// --- graph ---

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Build the engagement graph for a user",
	Long: `Build the engagement graph for a user. With --server the search runs on a
replygraph server and the graph is built locally from its response.`,
	RunE: cmdlog.RunE("graph", func(cmd *cobra.Command, _ []string) error {
		username, _ := cmd.Flags().GetString("username")
		serverURL, _ := cmd.Flags().GetString("server")
		remove, _ := cmd.Flags().GetStringSlice("remove")
		asJSON, _ := cmd.Flags().GetBool("json")

		var g graph.Graph
		if serverURL != "" {
			var err error
			if g, err = graphclient.New(serverURL).Graph(cmd.Context(), username); err != nil {
				return err
			}
		} else {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			res, err := newPipeline(cfg).Run(cmd.Context(), username)
			if err != nil {
				return err
			}
			g = graph.Transform(res.Engagements, util.NormalizeHandle(username), graph.UserFromSummary(res.User))
		}

		if len(remove) > 0 {
			next, err := graph.RemoveNodes(g, remove...)
			if err != nil {
				return err
			}
			g = next
		}
		if asJSON {
			return printJSON(cmd.OutOrStdout(), g)
		}
		printGraph(cmd.OutOrStdout(), g)
		return nil
	}),
}

func init() {
	searchCmd.Flags().String("username", "", "handle to search, without @")
	searchCmd.Flags().Bool("hourly", false, "print per-hour engagement counts instead of JSON")
	_ = searchCmd.MarkFlagRequired("username")

	graphCmd.Flags().String("username", "", "handle to graph, without @")
	graphCmd.Flags().String("server", "", "base URL of a running replygraph server")
	graphCmd.Flags().StringSlice("remove", nil, "counterparts to drop from the graph")
	graphCmd.Flags().Bool("json", false, "print the graph as JSON")
	_ = graphCmd.MarkFlagRequired("username")
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printHourly(w io.Writer, buckets map[time.Time]map[string]int) {
	for _, hour := range analytics.SortedBucketKeys(buckets) {
		counts := buckets[hour]
		types := make([]string, 0, len(counts))
		for t := range counts {
			types = append(types, t)
		}
		sort.Strings(types)
		fmt.Fprintf(w, "%s", hour.Format("2006-01-02 15:00"))
		for _, t := range types {
			fmt.Fprintf(w, "  %s=%d", t, counts[t])
		}
		fmt.Fprintln(w)
	}
}

func printGraph(w io.Writer, g graph.Graph) {
	stats := graph.Summarize(g)
	fmt.Fprintf(w, "@%s engaged with %d users across %d interactions\n", g.Origin, stats.TotalUsers, stats.TotalEngagements)
	fmt.Fprintf(w, "verified: %d  top type: %s  most connected: %s\n\n", stats.VerifiedCount, stats.TopEngagementType, stats.MostConnected)
	for _, key := range g.Keys() {
		entries := g.Engagements[key]
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(w, "@%-20s %3d  followers=%d\n", key, len(entries), entries[0].Followers)
	}
}
