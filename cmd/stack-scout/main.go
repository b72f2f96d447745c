package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"stack_scout/internal/config"
	"stack_scout/pkg/aggregate"
	"stack_scout/pkg/logging"
	"stack_scout/pkg/policy"
	"stack_scout/pkg/ratelimit"
	"stack_scout/pkg/server"
	"stack_scout/pkg/stackexchange"
	"stack_scout/pkg/throttle"
	"stack_scout/pkg/tools/builtin"
)

var version = "1.0.0"

func main() {
	var printConfig bool
	var outputFormat string
	flag.BoolVar(&printConfig, "print-config", false, "print resolved configuration and exit")
	flag.StringVar(&outputFormat, "format", "text", "output format: text or json")
	flag.Parse()

	// Optional .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if printConfig {
		if outputFormat == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(cfg); err != nil {
				log.Fatalf("print config: %v", err)
			}
			return
		}
		fmt.Fprintf(os.Stdout, "api_base=%s\nsite=%s\nwrite_enabled=%v\n",
			cfg.APIBaseURL, cfg.Site, cfg.Credentials().CanWrite())
		return
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	// One limiter and one invoker shared by every outbound call.
	limiter := ratelimit.New(cfg.RateLimitCalls, cfg.RateLimitWindow)
	invoker := throttle.New(limiter).
		WithBackoff(cfg.RetryBackoff).
		WithMaxRetries(cfg.MaxRetries)

	creds := cfg.Credentials()
	client := stackexchange.NewClient(cfg.APIBaseURL, cfg.Site, creds, invoker)
	client.SetTimeout(cfg.RequestTimeout)

	aggregator := aggregate.New(client)
	gate := policy.NewGate(client, creds)

	registry, err := builtin.NewRegistryWithBuiltins(aggregator, gate)
	if err != nil {
		log.Fatalf("tool registration: %v", err)
	}

	srv, err := server.New(registry, logger, version)
	if err != nil {
		log.Fatalf("server setup: %v", err)
	}

	logger.Info("stack-scout ready",
		"version", version,
		"site", cfg.Site,
		"tools", registry.Count(),
		"write_enabled", creds.CanWrite(),
	)
	if err := srv.ServeStdio(); err != nil {
		logger.Error("server stopped", "error", err.Error())
		os.Exit(1)
	}
}
