// Command weekdaytest checks which weekday spellings the catalog's
// /schedule endpoint accepts and how it resolves each one.
//
// Usage:
//
//	go run ./cmd/weekdaytest [-url http://host/api.php/v1/schedule]
//
// Every case is sent in order; a case passes when the envelope code is 0.
// The run ends with pass/fail statistics and usage examples.
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
	"github.com/ovoapp/catalog-probe/internal/weekday"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ 测试过程中发生错误: %v\n", r)
			os.Stderr.Write(debug.Stack())
			code = 1
		}
	}()

	scheduleURL := flag.String("url", "", "Direct schedule URL (overrides SCHEDULE_URL)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *scheduleURL != "" {
		cfg.ScheduleURL = *scheduleURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	log, err := logger.Setup(cfg, "weekdaytest")
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
		probe.WithLogger(log),
	)
	runner := weekday.NewRunner(client, cfg.ScheduleURL, weekday.WithLogger(log))

	summary := runner.Run(ctx, weekday.DefaultCases())
	if ctx.Err() != nil {
		fmt.Println("\n⚠️ 测试被用户中断")
		return 0
	}

	weekday.PrintUsage(os.Stdout, cfg.ScheduleURL)

	log.Info("weekday run finished",
		zap.Int("total", summary.Total),
		zap.Int("passed", summary.Passed),
		zap.String("pass_rate", summary.FormatPassRate()),
	)
	return 0
}
