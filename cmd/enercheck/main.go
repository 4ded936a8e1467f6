package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"enercheck/internal/config"
	"enercheck/internal/ensek"
	"enercheck/internal/storage"
	"enercheck/internal/suite"
	"enercheck/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	must(cfg.Require("ENSEK_API_BASE_URL", cfg.EnsekAPIBaseURL))
	must(cfg.Require("ENSEK_USERNAME", cfg.EnsekUsername))
	must(cfg.Require("ENSEK_PASSWORD", cfg.EnsekPassword))
	must(util.InitLogger(cfg.LogEnv))
	defer util.SyncLogger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", "", "output xlsx path (default under OUTPUT_DIR)")
		_ = fs.Parse(os.Args[2:])

		runner := suite.NewRunner(db, cfg, util.GetLogger())
		summary, err := runner.Run(ctx)
		must(err)

		outputPath := *out
		if strings.TrimSpace(outputPath) == "" {
			outputPath = filepath.Join(cfg.OutputDir, fmt.Sprintf("run_%d_%s.xlsx", summary.RunID, summary.TraceID))
		}
		must(runner.ExportRun(summary.RunID, outputPath))
		fmt.Printf("run done traceId=%s counts=%v report=%s\n", summary.TraceID, summary.Counts, outputPath)
		if summary.Counts["FAIL"] > 0 {
			os.Exit(2)
		}
	case "watch":
		runner := suite.NewRunner(db, cfg, util.GetLogger())
		must(runner.RunLoop(ctx))
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		runID := fs.Int("runId", 0, "run id (0 = latest)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		id := *runID
		if id == 0 {
			latest, err := db.GetLatestRun()
			must(err)
			if latest == nil {
				must(fmt.Errorf("no runs recorded yet"))
			}
			id = latest.ID
		}

		rows, err := db.GetCheckExportRows(id)
		must(err)
		if len(rows) == 0 {
			must(fmt.Errorf("no check rows for runId=%d", id))
		}
		must(suite.ExportChecksToXLSX(rows, *out))
		fmt.Printf("exported %d rows to %s\n", len(rows), *out)
	case "reset":
		client := ensek.NewClient(cfg)
		_, err := client.Login(ctx, cfg.EnsekUsername, cfg.EnsekPassword)
		must(err)
		res, err := client.Reset(ctx)
		must(err)
		if !res.Success {
			must(fmt.Errorf("reset rejected: status=%d message=%s", res.StatusCode, res.Message))
		}
		fmt.Printf("reset done status=%d\n", res.StatusCode)
	case "orders:list":
		client := ensek.NewClient(cfg)
		_, err := client.Login(ctx, cfg.EnsekUsername, cfg.EnsekPassword)
		must(err)
		orders, res, err := client.Orders(ctx)
		must(err)
		if !res.Success {
			must(fmt.Errorf("orders rejected: status=%d message=%s", res.StatusCode, res.Message))
		}
		for _, order := range orders {
			fmt.Printf("%s\t%s\t%d\t%s\n", order.ID, order.Fuel, order.Quantity, order.Time)
		}
		fmt.Printf("total orders=%d\n", len(orders))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: enercheck <command>")
	fmt.Println("commands:")
	fmt.Println("  run [--out=./out/report.xlsx]")
	fmt.Println("  watch")
	fmt.Println("  export:xlsx [--runId=1] --out=./out/report.xlsx")
	fmt.Println("  reset")
	fmt.Println("  orders:list")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
