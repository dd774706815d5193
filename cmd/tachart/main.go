// Command tachart computes chart indicators for a bar series.
//
// Bars come from a CSV file (-csv) or from Binance futures (-symbol). The
// indicator setup is taken from TACHART_* environment variables, optionally
// replaced by a stored preset (-preset). Output is chart plot data as JSON
// or CSV, or a summary of the last bar (-format latest).
//
// Flags:
//
//	-env <file>           extra .env file(s), comma separated
//	-csv <path>           read bars from CSV (time,open,high,low,close[,volume])
//	-symbol <sym>         fetch bars from Binance futures, e.g. BTCUSDT
//	-interval <iv>        kline interval for -symbol (default 1h)
//	-limit <n>            number of klines for -symbol (default 500)
//	-from <time>          with -symbol: fetch the range starting here (RFC3339 or unix s/ms)
//	-to <time>            end of the -from range (default now)
//	-preset <name>        use a stored preset instead of the env config
//	-save-preset <name>   store the effective config under name
//	-list-presets         print stored presets and exit
//	-format json|csv|latest
//	-tail <n>             keep only the last n points of every line
//	-out <path>           write output to a file instead of stdout
//	-metrics-addr <addr>  serve /metrics and /healthz (overrides TACHART_METRICS_ADDR)
//	-watch <dur>          with -symbol: refetch and recompute every dur until interrupted
//
// Example:
//
//	tachart -symbol BTCUSDT -interval 15m -limit 300 -format latest
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

func main() {
	var opts options
	var envFiles string
	flag.StringVar(&envFiles, "env", "", "Extra .env file(s), comma separated")
	flag.StringVar(&opts.csvPath, "csv", "", "Path to CSV (time,open,high,low,close,volume)")
	flag.StringVar(&opts.symbol, "symbol", "", "Binance futures symbol, e.g. BTCUSDT")
	flag.StringVar(&opts.interval, "interval", "1h", "Kline interval for -symbol")
	flag.IntVar(&opts.limit, "limit", 500, "Number of klines for -symbol")
	flag.StringVar(&opts.from, "from", "", "With -symbol, fetch klines from this time (RFC3339 or unix s/ms)")
	flag.StringVar(&opts.to, "to", "", "End of the -from range (default now)")
	flag.StringVar(&opts.preset, "preset", "", "Use a stored preset")
	flag.StringVar(&opts.savePreset, "save-preset", "", "Store the effective config under this name")
	flag.BoolVar(&opts.listPresets, "list-presets", false, "Print stored presets and exit")
	flag.StringVar(&opts.format, "format", formatJSON, "Output format: json|csv|latest")
	flag.IntVar(&opts.tail, "tail", 0, "Keep only the last n points of every line (0 = all)")
	flag.StringVar(&opts.outPath, "out", "", "Output file (default stdout)")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address")
	flag.DurationVar(&opts.watch, "watch", 0, "With -symbol, recompute on this cadence until interrupted")
	flag.Parse()

	if envFiles != "" {
		opts.envFiles = strings.Split(envFiles, ",")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tachart: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
