package internal

import "strings"

// BuyMessage is the structured form of the buy endpoint's free-text
// confirmation. Every field is a pure function of RawText; a field the
// text does not contain stays nil.
type BuyMessage struct {
	RawText           string
	PurchasedQuantity *int
	Cost              *float64
	RemainingUnits    *int
	OrderID           *string
	UnitType          *string
}

func (m BuyMessage) IsSuccessfulPurchase() bool {
	return m.PurchasedQuantity != nil && m.Cost != nil && m.OrderID != nil
}

// Case-sensitive on purpose: the remote API's wording is the only
// reference sample available and broadening the match could reclassify
// unrelated messages.
func (m BuyMessage) IsNoFuelAvailable() bool {
	if m.RawText == "" {
		return false
	}
	return strings.Contains(m.RawText, "There is no") || strings.Contains(m.RawText, "fuel to purchase")
}

// Order is one entry of the orders endpoint. Time stays raw text; the
// remote does not guarantee it parses.
type Order struct {
	ID       string `json:"id"`
	Fuel     string `json:"fuel"`
	Quantity int    `json:"quantity"`
	Time     string `json:"time"`
}

type ReconcileStatus string

const (
	ReconcileOK       ReconcileStatus = "OK"
	ReconcileMismatch ReconcileStatus = "MISMATCH"
	ReconcileSkipped  ReconcileStatus = "SKIPPED"
)

type FieldCheck struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	OK       bool   `json:"ok"`
}

type ReconcileResult struct {
	Status   ReconcileStatus `json:"status"`
	Reason   string          `json:"reason"`
	Checks   []FieldCheck    `json:"checks"`
	Warnings []string        `json:"warnings"`
}

type CheckStatus string

const (
	CheckPass CheckStatus = "PASS"
	CheckFail CheckStatus = "FAIL"
	CheckWarn CheckStatus = "WARN"
	CheckSkip CheckStatus = "SKIP"
)

type CheckResult struct {
	Seq        int
	Name       string
	Status     CheckStatus
	Detail     string
	DurationMs float64
}

type RunRow struct {
	ID        int
	TraceID   string
	BaseURL   string
	StartedAt string
	Counts    map[string]int
	Timings   map[string]float64
}

type PurchaseRow struct {
	ID              int
	RunID           int
	EnergyID        int
	RequestedQty    int
	OrderID         *string
	PurchasedQty    *int
	Cost            *float64
	RemainingUnits  *int
	UnitType        *string
	ReconcileStatus string
	DetailJSON      string
}

type CheckExportRow struct {
	RunTraceID string
	Seq        int
	Name       string
	Status     string
	Detail     string
	DurationMs float64
}
