// Command apitest probes the catalog API's main endpoints once each and
// prints the request, status and response body for every one.
//
// Usage:
//
//	go run ./cmd/apitest [-url http://host/api.php] [-v]
//
// Endpoints are reached through the entry point's s=/api/v1<path>
// parameter. A failing endpoint never stops the run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/config"
	"github.com/ovoapp/catalog-probe/internal/logger"
	"github.com/ovoapp/catalog-probe/internal/probe"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ 发生错误: %v\n", r)
			os.Stderr.Write(debug.Stack())
			code = 1
		}
	}()

	baseURL := flag.String("url", "", "API entry point (overrides API_BASE_URL)")
	verbose := flag.Bool("v", false, "Verbose output (show response headers)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *baseURL != "" {
		cfg.APIBaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	log, err := logger.Setup(cfg, "apitest")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: setup logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := probe.NewClient(cfg.APIBaseURL,
		probe.WithTimeout(cfg.RequestTimeout),
		probe.WithUserAgent(cfg.UserAgent),
		probe.WithRoutePrefix(cfg.APIRoutePrefix),
		probe.WithLogger(log),
	)
	prober := probe.NewProber(client,
		probe.WithHeaders(*verbose),
		probe.WithProberLogger(log),
	)

	log.Debug("probing endpoints", zap.String("base_url", cfg.APIBaseURL))
	outcomes := prober.Run(ctx, probe.DefaultEndpoints())

	if ctx.Err() != nil {
		fmt.Println("\n⚠️ 测试被用户中断")
		return 0
	}

	failed := 0
	for _, o := range outcomes {
		if o.Kind != probe.OutcomeOK {
			failed++
		}
	}
	log.Info("probe run finished",
		zap.Int("endpoints", len(outcomes)),
		zap.Int("failed", failed),
	)
	return 0
}
