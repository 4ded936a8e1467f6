package suite

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"enercheck/internal"
	"enercheck/internal/config"
	"enercheck/internal/mockapi"
	"enercheck/internal/storage"
)

func TestFullConformanceRunAgainstMock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := mockapi.NewServer("test", "testing")
	ts := httptest.NewServer(server.Engine())
	defer ts.Close()

	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, _ := config.Load()
	cfg.EnsekAPIBaseURL = ts.URL
	cfg.EnsekUsername = "test"
	cfg.EnsekPassword = "testing"
	cfg.EnsekRateLimitRPS = 1000
	cfg.SettleDelayMs = 0
	cfg.BuyQuantity = 10
	cfg.TimeDriftWarnMin = 5

	runner := NewRunner(db, cfg, zap.NewNop())
	summary, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if summary.Counts[string(internal.CheckFail)] != 0 {
		rows, _ := db.GetCheckExportRows(summary.RunID)
		for _, row := range rows {
			t.Logf("%d %s %s %s", row.Seq, row.Name, row.Status, row.Detail)
		}
		t.Fatalf("unexpected failures: %v", summary.Counts)
	}
	if summary.Counts[string(internal.CheckPass)] != 13 {
		t.Fatalf("expected 13 passing checks: %v", summary.Counts)
	}

	purchases, err := db.ListPurchases(summary.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(purchases) != 4 {
		t.Fatalf("expected one purchase row per energy id, got %d", len(purchases))
	}
	noFuel := 0
	for _, p := range purchases {
		if p.ReconcileStatus != string(internal.ReconcileOK) {
			t.Fatalf("unexpected purchase outcome: %+v", p)
		}
		if p.OrderID == nil {
			noFuel++
		}
	}
	if noFuel != 1 {
		t.Fatalf("expected exactly the nuclear buy to be out of stock, got %d", noFuel)
	}

	out := filepath.Join(tmp, "report.xlsx")
	if err := runner.ExportRun(summary.RunID, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestExportRunWithoutChecks(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, _ := config.Load()
	runner := NewRunner(db, cfg, zap.NewNop())
	if err := runner.ExportRun(999, filepath.Join(tmp, "report.xlsx")); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
