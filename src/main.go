// State population dashboard entrypoint.
//
// Starts a local web server (default http://127.0.0.1:8050/) showing a stacked bar chart of population by
// race/ethnicity per state. Clicking a bar group redraws the donut chart below it for that state.
//
// Design notes:
//   - Settings come from POPDASH_* environment variables; flags override them (see src/config).
//   - The dataset is embedded and read-only; -data swaps in a JSON/JSONC file with the same shape.
//   - Category counts in the embedded data overlap (alone-or-in-combination), so by default sum/total
//     mismatches are only logged. -strict turns mismatches beyond -sum-tolerance into a startup error.
//   - The listener is bound before the browser is opened, so the first page load never races startup.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iafilius/StatePopulationDashboard/src/browser"
	"github.com/iafilius/StatePopulationDashboard/src/config"
	"github.com/iafilius/StatePopulationDashboard/src/logging"
	"github.com/iafilius/StatePopulationDashboard/src/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Parse(flag.NewFlagSet("popdash", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	logging.SetLogLevel(cfg.LogLevel)
	defer logging.TimeTrack(time.Now(), "dashboard run")

	ds, err := config.LoadDataset(cfg)
	if err != nil {
		return err
	}
	srv := web.New(ds, web.OptionsFromConfig(cfg))

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	url := cfg.URL()
	initLog := logging.Scoped("init")
	initLog.Infof("dashboard at %s", url)
	if cfg.OpenBrowser {
		if err := browser.Open(url); err != nil {
			initLog.Warnf("%v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, ln)
}
