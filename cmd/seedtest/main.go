// Command seedtest provisions the xp_lv level table and then probes the
// catalog endpoints with response headers shown.
//
// Usage:
//
//	go run ./cmd/seedtest [-url http://host/api.php]
//
// This tool:
// 1. Creates xp_lv if missing and inserts the nine default levels
// 2. Probes /types, /xp_lv, /banners, /hotvedios, /schedule, /check_update
//
// Seeding is idempotent: existing levels are left untouched, so running
// it twice still leaves nine rows. A database failure is reported and the
// probes run anyway.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ovoapp/catalog-probe/internal/config"
	"github.com/ovoapp/catalog-probe/internal/database"
	"github.com/ovoapp/catalog-probe/internal/logger"
	"github.com/ovoapp/catalog-probe/internal/probe"
)

// step is one numbered probe in the run.
type step struct {
	title    string
	endpoint probe.Endpoint
}

var steps = []step{
	{"测试API基础连接", probe.Endpoint{Name: "视频分类", Path: "/types"}},
	{"测试xp_lv接口", probe.Endpoint{Name: "等级系统", Path: "/xp_lv"}},
	{"测试banners接口", probe.Endpoint{Name: "轮播图", Path: "/banners"}},
	{"测试hotvedios接口", probe.Endpoint{Name: "热门视频", Path: "/hotvedios"}},
	{"测试schedule接口", probe.Endpoint{Name: "排期表", Path: "/schedule"}},
	{"测试check_update接口", probe.Endpoint{Name: "版本检查", Path: "/check_update", Params: map[string]string{
		"platform": "android",
		"version":  "1.0.0",
	}}},
}

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

	baseURL := flag.String("url", "", "API entry point (overrides API_BASE_URL)")
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

	log, err := logger.Setup(cfg, "seedtest")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: setup logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, os.Stdout, cfg, log)
}

// execute runs the whole sequence: start delay, seeding, then every endpoint
// step. A seeding failure is reported and the endpoint steps still run.
func execute(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger) int {
	fmt.Fprintf(out, "📦 确保数据库可访问: %s %s\n", cfg.DBDriver, dbTarget(cfg))
	fmt.Fprintf(out, "⏳ 等待%s后开始测试...\n", cfg.StartDelay)
	select {
	case <-ctx.Done():
		fmt.Fprintln(out, "\n⚠️ 测试被用户中断")
		return 0
	case <-time.After(cfg.StartDelay):
	}

	fmt.Fprintln(out, "🚀 开始API接口测试")
	probe.Rule(out, "=", 50)

	fmt.Fprintln(out, "\n📋 步骤1: 创建数据库表")
	if !seedLevels(ctx, out, cfg, log) {
		log.Warn("seeding failed, continuing with endpoint checks", zap.String("driver", cfg.DBDriver))
	}

	client := probe.NewClient(cfg.APIBaseURL,
		probe.WithTimeout(cfg.RequestTimeout),
		probe.WithUserAgent(cfg.UserAgent),
		probe.WithRoutePrefix(cfg.APIRoutePrefix),
		probe.WithLogger(log),
	)
	prober := probe.NewProber(client,
		probe.WithOutput(out),
		probe.WithHeaders(true),
		probe.WithProberLogger(log),
	)

	for i, s := range steps {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(out, "\n📋 步骤%d: %s\n", i+2, s.title)
		fmt.Fprintf(out, "🧪 测试API: %s\n", s.endpoint.Path)
		prober.Probe(ctx, s.endpoint)
	}

	if ctx.Err() != nil {
		fmt.Fprintln(out, "\n⚠️ 测试被用户中断")
		return 0
	}

	fmt.Fprintln(out, "\n🎉 测试完成!")
	return 0
}

// seedLevels opens one connection, seeds xp_lv and closes it again.
// Failures are printed and reported as false; they never abort the run.
func seedLevels(ctx context.Context, out io.Writer, cfg *config.Config, log *zap.Logger) bool {
	fmt.Fprintln(out, "\n🗄️ 连接数据库创建xp_lv表...")

	db, err := database.Open(database.DefaultConfig(cfg.DBDriver, cfg.DSN()), log)
	if err != nil {
		fmt.Fprintf(out, "❌ 数据库操作失败: %v\n", err)
		return false
	}
	defer db.Close()

	report, err := db.SeedLevelTable(ctx, database.DefaultLevels(),
		database.WithSeedProgress(func(step database.SeedStep, r database.SeedReport) {
			switch step {
			case database.SeedTableReady:
				fmt.Fprintln(out, "✅ xp_lv表创建成功")
			case database.SeedLevelsInserted:
				fmt.Fprintln(out, "✅ 默认等级数据插入成功")
			}
		}))
	if err != nil {
		fmt.Fprintf(out, "❌ 数据库操作失败: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "📊 xp_lv表中有 %d 条记录\n", report.Total)

	log.Debug("seeding finished",
		zap.String("driver", cfg.DBDriver),
		zap.Int64("inserted", report.Inserted),
	)
	return true
}

func dbTarget(cfg *config.Config) string {
	if cfg.DBDriver == config.DriverSQLite {
		return cfg.DBPath
	}
	return fmt.Sprintf("%s:%d/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
}
