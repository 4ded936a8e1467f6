package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"enercheck/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  baseUrl TEXT NOT NULL,
  startedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  countsJson TEXT NOT NULL DEFAULT '{}',
  timingsJson TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS checks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  seq INTEGER NOT NULL,
  name TEXT NOT NULL,
  status TEXT NOT NULL,
  detail TEXT NOT NULL DEFAULT '',
  durationMs REAL NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(runId, seq),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_checks_run ON checks(runId);

CREATE TABLE IF NOT EXISTS purchases (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  energyId INTEGER NOT NULL,
  requestedQty INTEGER NOT NULL,
  orderId TEXT,
  purchasedQty INTEGER,
  cost REAL,
  remainingUnits INTEGER,
  unitType TEXT,
  reconcileStatus TEXT NOT NULL,
  detailJson TEXT NOT NULL DEFAULT '{}',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_purchases_run ON purchases(runId);
CREATE INDEX IF NOT EXISTS idx_purchases_order ON purchases(orderId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID, baseURL string) (int, error) {
	result, err := d.conn.Exec(`INSERT INTO runs (traceId, baseUrl) VALUES (?, ?)`, traceID, baseURL)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (d *DB) FinishRun(runID int, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	_, err := d.conn.Exec(`UPDATE runs SET countsJson = ?, timingsJson = ? WHERE id = ?`,
		string(countsJSON), string(timingsJSON), runID)
	return err
}

func (d *DB) GetLatestRun() (*internal.RunRow, error) {
	var row internal.RunRow
	var countsJSON, timingsJSON string
	err := d.conn.QueryRow(`
SELECT id, traceId, baseUrl, startedAt, countsJson, timingsJson
FROM runs ORDER BY id DESC LIMIT 1
`).Scan(&row.ID, &row.TraceID, &row.BaseURL, &row.StartedAt, &countsJSON, &timingsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(countsJSON), &row.Counts)
	_ = json.Unmarshal([]byte(timingsJSON), &row.Timings)
	return &row, nil
}

func (d *DB) InsertCheck(runID int, check internal.CheckResult) error {
	_, err := d.conn.Exec(`
INSERT INTO checks (runId, seq, name, status, detail, durationMs)
VALUES (?, ?, ?, ?, ?, ?)
`, runID, check.Seq, check.Name, string(check.Status), check.Detail, check.DurationMs)
	return err
}

func (d *DB) InsertPurchase(row internal.PurchaseRow) (int64, error) {
	result, err := d.conn.Exec(`
INSERT INTO purchases (runId, energyId, requestedQty, orderId, purchasedQty, cost, remainingUnits, unitType, reconcileStatus, detailJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, row.RunID, row.EnergyID, row.RequestedQty, row.OrderID, row.PurchasedQty, row.Cost, row.RemainingUnits, row.UnitType, row.ReconcileStatus, row.DetailJSON)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) ListPurchases(runID int) ([]internal.PurchaseRow, error) {
	rows, err := d.conn.Query(`
SELECT id, runId, energyId, requestedQty, orderId, purchasedQty, cost, remainingUnits, unitType, reconcileStatus, detailJson
FROM purchases WHERE runId = ? ORDER BY id ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PurchaseRow
	for rows.Next() {
		var row internal.PurchaseRow
		if err := rows.Scan(
			&row.ID, &row.RunID, &row.EnergyID, &row.RequestedQty, &row.OrderID,
			&row.PurchasedQty, &row.Cost, &row.RemainingUnits, &row.UnitType,
			&row.ReconcileStatus, &row.DetailJSON,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) GetCheckExportRows(runID int) ([]internal.CheckExportRow, error) {
	rows, err := d.conn.Query(`
SELECT r.traceId, c.seq, c.name, c.status, c.detail, c.durationMs
FROM checks c
JOIN runs r ON r.id = c.runId
WHERE c.runId = ?
ORDER BY c.seq ASC
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CheckExportRow
	for rows.Next() {
		var row internal.CheckExportRow
		if err := rows.Scan(&row.RunTraceID, &row.Seq, &row.Name, &row.Status, &row.Detail, &row.DurationMs); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
