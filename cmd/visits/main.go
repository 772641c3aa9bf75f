package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-visits/internal/config"
	"github.com/joeblew999/plat-visits/internal/server"
	"github.com/joeblew999/plat-visits/internal/service"
)

// Options defines all CLI flags and env vars for the visits server. Empty
// values fall back to the config file, then to the built-in defaults.
// Flags: --config, --host, --port, --data-dir, --boundary, --log-level, --log-format
// Env vars: SERVICE_CONFIG, SERVICE_HOST, SERVICE_PORT, ...
type Options struct {
	Config    string `doc:"Path to the YAML config file" short:"c" default:"visits.yaml"`
	Host      string `doc:"Host to bind to"`
	Port      int    `doc:"Port to listen on" short:"p"`
	DataDir   string `doc:"Directory for boundary sources and the DuckDB database"`
	Boundary  string `doc:"Boundary GeoJSON path, or a file name inside <data-dir>/sources"`
	LogLevel  string `doc:"Log level (debug, info, warn, error)"`
	LogFormat string `doc:"Log format (json, console)"`
}

// loadConfig reads the config file, applies the CLI overrides and installs
// the global logger.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}

	if opts.Host != "" {
		cfg.Server.Host = opts.Host
	}
	if opts.Port != 0 {
		cfg.Server.Port = opts.Port
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Boundary != "" {
		cfg.Boundary.Path = opts.Boundary
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newServer(opts *Options) (*server.Server, *config.Config) {
	cfg, err := loadConfig(opts)
	if err != nil {
		fail("load config", err)
	}
	srv, err := server.New(cfg)
	if err != nil {
		fail("create server", err)
	}
	return srv, cfg
}

func fail(msg string, err error) {
	zap.L().Error(msg, zap.Error(err))
	_ = zap.L().Sync()
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}

func filterFlags(cmd *cobra.Command) service.Filter {
	county, _ := cmd.Flags().GetString("county")
	category, _ := cmd.Flags().GetString("category")
	return service.Filter{County: county, Category: category}
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var httpServer *http.Server
		var srv *server.Server

		hooks.OnStart(func() {
			var cfg *config.Config
			srv, cfg = newServer(opts)

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			displayHost := cfg.Server.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, cfg.Server.Port)

			zap.L().Info("plat-visits server starting",
				zap.String("addr", addr),
				zap.String("viewer", baseURL+"/viewer"),
				zap.String("docs", baseURL+"/docs"),
				zap.String("openapi", baseURL+"/openapi.json"),
				zap.String("data_dir", cfg.DataDir),
			)

			httpServer = &http.Server{Addr: addr, Handler: srv, ReadHeaderTimeout: 10 * time.Second}
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fail("server", err)
			}
		})

		hooks.OnStop(func() {
			if httpServer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(ctx); err != nil {
					zap.L().Warn("shutdown", zap.Error(err))
				}
			}
			if srv != nil {
				if err := srv.Close(); err != nil {
					zap.L().Warn("close", zap.Error(err))
				}
			}
			_ = zap.L().Sync()
		})
	})

	cli.Root().Use = "visits"
	cli.Root().Short = "Church and temple visitation map dashboard"
	cli.Root().Version = "0.1.0"

	// compose subcommand: print the composed deck
	composeCmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose the map layers and print the deck (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _ := newServer(opts)
			defer srv.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			filter := filterFlags(cmd)

			useYAML, _ := cmd.Flags().GetBool("yaml")
			if !useYAML {
				if err := srv.Composer().Render(ctx, filter, service.JSONRenderer{W: os.Stdout, Indent: "  "}); err != nil {
					fail("compose", err)
				}
				return
			}

			deck, err := srv.Composer().Compose(ctx, filter)
			if err != nil {
				fail("compose", err)
			}
			out, err := toYAML(deck)
			if err != nil {
				fail("marshal deck", err)
			}
			fmt.Print(string(out))
		}),
	}
	composeCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	composeCmd.Flags().String("county", "", "Only show POIs in this county")
	composeCmd.Flags().String("category", "", "Show only church or temple layers")
	cli.Root().AddCommand(composeCmd)

	// flat subcommand: print the combined 2D point table
	flatCmd := &cobra.Command{
		Use:   "flat",
		Short: "Print the flat point view as JSON",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _ := newServer(opts)
			defer srv.Close()

			county, _ := cmd.Flags().GetString("county")
			flat, err := srv.Composer().Flat(context.Background(), service.Filter{County: county})
			if err != nil {
				fail("flat view", err)
			}
			output, err := json.MarshalIndent(flat, "", "  ")
			if err != nil {
				fail("marshal flat view", err)
			}
			fmt.Println(string(output))
		}),
	}
	flatCmd.Flags().String("county", "", "Only show POIs in this county")
	cli.Root().AddCommand(flatCmd)

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, _ := newServer(opts)
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = toYAML(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fail("marshal spec", err)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	cli.Run()
}

// toYAML converts v through its JSON form so custom JSON marshalers, such as
// the deck.gl "@@type" tags, survive.
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return yaml.Marshal(generic)
}
