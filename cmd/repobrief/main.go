package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"repobrief/internal/batch"
	"repobrief/internal/config"
	"repobrief/internal/github"
	"repobrief/internal/input"
	"repobrief/internal/llm"
	"repobrief/internal/logging"
	"repobrief/internal/pipeline"
	"repobrief/internal/server"
	"repobrief/internal/surrealdb"
)

func main() {
	root := &cobra.Command{
		Use:   "repobrief",
		Short: "GitHub repository → AI briefing → SurrealDB",
	}

	root.AddCommand(runCmd(), batchCmd(), serveCmd(), schemaCmd(), showCmd(), listCmd(), statsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and applies it to the process logger.
func setup() *config.Config {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg
}

func newPipeline(cfg *config.Config, store pipeline.Store) *pipeline.Pipeline {
	gh := github.NewClient(cfg.GitHubAPIURL, cfg.GitHubToken)
	ai := llm.NewClient(cfg.LLMBaseURL, cfg.LLMModel)
	return pipeline.New(gh, ai, store)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runCmd() *cobra.Command {
	var apiKey string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "run [repo-url]",
		Short: "Brief one repository and store the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			key := apiKey
			if key == "" {
				key = cfg.LLMAPIKey
			}
			in := input.Input{RepoURL: args[0], APIKey: key}
			if err := in.Validate(); err != nil {
				return err
			}

			// The mock key never touches the network, so skip the
			// database connection entirely.
			var store pipeline.Store
			if !noStore && !in.IsMock() {
				db, err := surrealdb.NewClient(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(ctx) }()
				if err := db.InitSchema(ctx); err != nil {
					return err
				}
				store = db
			}

			briefing, err := newPipeline(cfg, store).Run(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(briefing)
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "AI API key (defaults to LLM_API_KEY)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Print the briefing without writing to SurrealDB")
	return cmd
}

func batchCmd() *cobra.Command {
	var apiKey string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "batch [manifest.yaml]",
		Short: "Brief every repository listed in a YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			m, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}

			key := apiKey
			if key == "" {
				key = cfg.LLMAPIKey
			}

			var store pipeline.Store
			if !noStore && key != input.MockAPIKey {
				db, err := surrealdb.NewClient(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(ctx) }()
				if err := db.InitSchema(ctx); err != nil {
					return err
				}
				store = db
			}

			summary, err := batch.Run(ctx, newPipeline(cfg, store), m, key)
			if err != nil {
				return err
			}
			fmt.Printf("Briefed %d/%d repositories (%d failed)\n",
				len(summary.Briefed), len(m.Repos), summary.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiKey, "api-key", "", "AI API key shared by the batch (defaults to LLM_API_KEY)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Run the batch without writing to SurrealDB")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the briefing pipeline over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			var store pipeline.Store
			if !noStore {
				db, err := surrealdb.NewClient(ctx, cfg)
				if err != nil {
					return err
				}
				defer func() { _ = db.Close(ctx) }()
				if err := db.InitSchema(ctx); err != nil {
					return err
				}
				store = db
			}

			router := server.New(newPipeline(cfg, store))
			srv := &http.Server{Addr: addr, Handler: router}

			go func() {
				logrus.Infof("Listening on %s", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logrus.Fatalf("Server failed: %v", err)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logrus.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Serve without writing briefings to SurrealDB")
	return cmd
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Initialize/update SurrealDB schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			if err := db.InitSchema(ctx); err != nil {
				return err
			}
			fmt.Println("Schema initialized")
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [owner/repo]",
		Short: "Print a stored briefing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			b, err := db.GetBriefing(ctx, args[0])
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("no briefing stored for %s", args[0])
			}
			return printJSON(b)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored briefings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			briefings, err := db.ListBriefings(ctx)
			if err != nil {
				return err
			}
			if len(briefings) == 0 {
				fmt.Println("No briefings stored")
				return nil
			}
			for _, b := range briefings {
				fmt.Printf("%-40s ★ %-6d %s\n", b.Repo, b.Stars, b.Purpose)
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show briefing counts and language breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg := setup()

			db, err := surrealdb.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(ctx) }()

			stats, err := db.GetStats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Briefings:      %d\n", stats.Total)
			fmt.Printf("Analyzed:       %d\n", stats.Analyzed)
			fmt.Printf("Avg complexity: %.1f\n", stats.AvgComplexity)

			langs, err := db.GetLanguageBreakdown(ctx)
			if err != nil {
				return err
			}

			if len(langs) > 0 {
				sort.Slice(langs, func(i, j int) bool {
					return langs[i].Count > langs[j].Count
				})
				fmt.Println("\nLanguage breakdown:")
				for _, l := range langs {
					fmt.Printf("  %-20s %d\n", l.Language, l.Count)
				}
			}

			return nil
		},
	}
}
