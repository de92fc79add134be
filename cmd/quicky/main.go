// quicky places a single quick PostOnly limit order: one tick inside the
// current price, with a percentage stop-loss, signed and submitted in two
// sequential round trips.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"quicky/internal/app"
	"quicky/internal/domain"
	"quicky/internal/infra/bybit"
	"quicky/internal/service"
)

func main() {
	var (
		symbol     = flag.String("symbol", "", "symbol to trade, e.g. XRPUSD (must have a configured tick size)")
		qty        = flag.Int64("qty", 0, "signed quantity: positive buys, negative sells")
		testnet    = flag.Bool("testnet", false, "force execution against the testnet")
		slPcnt     = flag.String("sl-pcnt", "", "stop-loss percentage override, e.g. 0.2")
		configPath = flag.String("config", "configs/config.yaml", "path to the configuration file")
		serverTime = flag.Bool("server-time", false, "print the exchange server time (ms) and exit")
	)
	flag.Parse()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// The flag can only turn the testnet on; going live requires
	// use_testnet: false in the config file.
	if *testnet {
		cfg.API.Bybit.UseTestnet = true
	}
	if *slPcnt != "" {
		pcnt, err := decimal.NewFromString(*slPcnt)
		if err != nil {
			slog.Error("invalid -sl-pcnt value", slog.String("value", *slPcnt), slog.Any("error", err))
			os.Exit(2)
		}
		cfg.Trading.StopLossPcnt = pcnt
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid configuration", slog.Any("error", err))
			os.Exit(2)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := bybit.NewClient(cfg)

	if *serverTime {
		ms, err := client.ServerTime(ctx)
		if err != nil {
			slog.Error("server time request failed", slog.Any("error", err))
			os.Exit(1)
		}
		fmt.Println(ms)
		return
	}

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "a -symbol is required")
		flag.Usage()
		os.Exit(2)
	}

	var journal domain.Journal
	if bootstrap.Journal != nil {
		journal = bootstrap.Journal
	}
	svc := service.NewQuickOrderService(cfg, client, journal)

	start := time.Now()
	plan, err := svc.PlaceQuickLimitOrder(ctx, *symbol, *qty)
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("order placement failed",
			slog.String("symbol", *symbol),
			slog.Int64("qty", *qty),
			slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("done (elapsed = %.2f secs)\n", elapsed.Seconds())
	slog.Info("done",
		slog.String("symbol", plan.Symbol),
		slog.String("side", string(plan.Side)),
		slog.String("price", plan.LimitPrice.String()),
		slog.String("stop_loss", plan.StopLoss.String()),
		slog.Duration("elapsed", elapsed))
}
