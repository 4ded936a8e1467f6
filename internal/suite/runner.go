// Package suite orchestrates the conformance checks against a running
// ENSEK endpoint: strictly sequential calls, settle delays between the
// buy and orders reads, persisted run history, XLSX reporting.
package suite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"enercheck/internal"
	"enercheck/internal/config"
	"enercheck/internal/ensek"
	"enercheck/internal/reconcile"
	"enercheck/internal/storage"
)

type Runner struct {
	cfg    config.Config
	db     *storage.DB
	client *ensek.Client
	rec    *reconcile.Reconciler
	log    *zap.Logger
}

type RunSummary struct {
	RunID   int
	TraceID string
	Counts  map[string]int
}

func NewRunner(db *storage.DB, cfg config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		db:     db,
		client: ensek.NewClient(cfg),
		rec:    reconcile.NewReconciler(time.Duration(cfg.TimeDriftWarnMin) * time.Minute),
		log:    log,
	}
}

// Run executes one full conformance pass and persists every check.
func (r *Runner) Run(ctx context.Context) (RunSummary, error) {
	start := time.Now()
	trace := traceID()

	runID, err := r.db.InsertRun(trace, r.cfg.EnsekAPIBaseURL)
	if err != nil {
		return RunSummary{}, err
	}

	r.log.Info("conformance run started",
		zap.String("traceId", trace),
		zap.String("baseUrl", r.cfg.EnsekAPIBaseURL))

	counts := map[string]int{}
	seq := 0
	for _, scenario := range r.scenarios() {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, err
		}

		seq++
		checkStart := time.Now()
		status, detail := scenario.run(ctx, runID)
		check := internal.CheckResult{
			Seq:        seq,
			Name:       scenario.name,
			Status:     status,
			Detail:     detail,
			DurationMs: float64(time.Since(checkStart).Milliseconds()),
		}

		if err := r.db.InsertCheck(runID, check); err != nil {
			return RunSummary{}, err
		}
		counts[string(status)]++

		r.log.Info("check complete",
			zap.String("name", check.Name),
			zap.String("status", string(check.Status)),
			zap.String("detail", check.Detail),
			zap.Float64("durationMs", check.DurationMs))
	}

	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}
	if err := r.db.FinishRun(runID, counts, timings); err != nil {
		return RunSummary{}, err
	}

	r.log.Info("conformance run finished",
		zap.String("traceId", trace),
		zap.Any("counts", counts))

	return RunSummary{RunID: runID, TraceID: trace, Counts: counts}, nil
}

// RunLoop repeats Run on an interval, exporting each run's report when
// auto-export is on. Regression mode for unattended use.
func (r *Runner) RunLoop(ctx context.Context) error {
	for {
		summary, err := r.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.log.Error("run cycle failed", zap.Error(err))
		} else if r.cfg.WatchAutoExport {
			out := filepath.Join(r.cfg.OutputDir, "watch", fmt.Sprintf("run_%d_%s.xlsx", summary.RunID, summary.TraceID))
			if err := r.ExportRun(summary.RunID, out); err != nil {
				r.log.Error("run export failed", zap.Int("runId", summary.RunID), zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(r.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

func (r *Runner) ExportRun(runID int, outputPath string) error {
	rows, err := r.db.GetCheckExportRows(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no check rows for run %d", runID)
	}
	return ExportChecksToXLSX(rows, outputPath)
}

func (r *Runner) settle() {
	if r.cfg.SettleDelayMs > 0 {
		time.Sleep(time.Duration(r.cfg.SettleDelayMs) * time.Millisecond)
	}
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
