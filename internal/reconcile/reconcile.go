// Package reconcile cross-checks a buy attempt against the orders list
// fetched from the separate listing endpoint.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"enercheck/internal"
	"enercheck/internal/energy"
)

// Input carries everything known about one buy attempt. OrderID is the
// id parsed out of the buy confirmation; RequestedQuantity is what the
// suite asked for, which is what the orders endpoint records even on
// partial fulfillment.
type Input struct {
	EnergyID          int
	RequestedQuantity int
	OrderID           *string
	Message           internal.BuyMessage
	AttemptedAt       time.Time
}

type Reconciler struct {
	driftWarn time.Duration
}

func NewReconciler(driftWarn time.Duration) *Reconciler {
	if driftWarn <= 0 {
		driftWarn = 5 * time.Minute
	}
	return &Reconciler{driftWarn: driftWarn}
}

// Reconcile applies the full validation chain: unit type from the buy
// message, order lookup by id, fuel type and quantity of the matched
// order, and a soft timing check. Field mismatches fail the result;
// timing drift only annotates it.
func (r *Reconciler) Reconcile(in Input, orders []internal.Order) internal.ReconcileResult {
	if in.OrderID == nil || strings.TrimSpace(*in.OrderID) == "" {
		return internal.ReconcileResult{
			Status: internal.ReconcileSkipped,
			Reason: "skipped: no order id to validate",
		}
	}

	expectedFuel := energy.ExpectedFuelType(in.EnergyID)
	expectedUnit := energy.ExpectedUnitType(in.EnergyID)

	result := internal.ReconcileResult{Status: internal.ReconcileOK}

	if expectedFuel == energy.Unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("energy id %d not in catalog, fuel and unit checks skipped", in.EnergyID))
	} else if in.Message.UnitType != nil {
		rawUnit := *in.Message.UnitType
		normActual := energy.NormalizeUnitType(rawUnit)
		normExpected := energy.NormalizeUnitType(expectedUnit)
		check := internal.FieldCheck{
			Field:    "unitType",
			Expected: fmt.Sprintf("%s (normalized %s)", expectedUnit, normExpected),
			Actual:   fmt.Sprintf("%s (normalized %s)", rawUnit, normActual),
			OK:       normActual == normExpected,
		}
		result.Checks = append(result.Checks, check)
		if !check.OK {
			fail(&result, fmt.Sprintf("unit type mismatch: expected %s got %s", check.Expected, check.Actual))
		}
	}

	matched := findOrder(orders, *in.OrderID)
	if matched == nil {
		result.Checks = append(result.Checks, internal.FieldCheck{
			Field:    "orderId",
			Expected: *in.OrderID,
			Actual:   "",
			OK:       false,
		})
		fail(&result, fmt.Sprintf("order not found: %s", *in.OrderID))
		return result
	}

	if expectedFuel != energy.Unknown {
		normActual := energy.NormalizeFuelType(matched.Fuel)
		normExpected := energy.NormalizeFuelType(expectedFuel)
		check := internal.FieldCheck{
			Field:    "fuelType",
			Expected: fmt.Sprintf("%s (normalized %s)", expectedFuel, normExpected),
			Actual:   fmt.Sprintf("%s (normalized %s)", matched.Fuel, normActual),
			OK:       normActual == normExpected,
		}
		result.Checks = append(result.Checks, check)
		if !check.OK {
			fail(&result, fmt.Sprintf("fuel type mismatch: expected %s got %s", check.Expected, check.Actual))
		}
	}

	qtyCheck := internal.FieldCheck{
		Field:    "quantity",
		Expected: fmt.Sprintf("%d", in.RequestedQuantity),
		Actual:   fmt.Sprintf("%d", matched.Quantity),
		OK:       matched.Quantity == in.RequestedQuantity,
	}
	result.Checks = append(result.Checks, qtyCheck)
	if !qtyCheck.OK {
		fail(&result, fmt.Sprintf("quantity mismatch: requested %d, order records %d", in.RequestedQuantity, matched.Quantity))
	}

	if !in.AttemptedAt.IsZero() {
		if orderTime, ok := parseOrderTime(matched.Time); ok {
			drift := in.AttemptedAt.Sub(orderTime)
			if drift < 0 {
				drift = -drift
			}
			if drift > r.driftWarn {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("order time %s drifts %s from purchase attempt (threshold %s)", matched.Time, drift.Round(time.Second), r.driftWarn))
			}
		}
	}

	return result
}

// ReconcileNoFuel is the lighter path for an out-of-stock buy: there is
// no order to look up, only the fuel expectation to sanity-check
// against the message wording.
func (r *Reconciler) ReconcileNoFuel(energyID int, msg internal.BuyMessage) internal.ReconcileResult {
	if !msg.IsNoFuelAvailable() {
		return internal.ReconcileResult{
			Status: internal.ReconcileMismatch,
			Reason: "message is not a no-fuel classification",
		}
	}

	expectedFuel := energy.ExpectedFuelType(energyID)
	result := internal.ReconcileResult{Status: internal.ReconcileOK, Reason: "no fuel available"}
	if expectedFuel == energy.Unknown {
		return result
	}

	// The wording usually names the fuel ("There is no nuclear fuel to
	// purchase"); absence is only worth a note, the phrasing is not
	// guaranteed.
	if !strings.Contains(strings.ToLower(msg.RawText), expectedFuel) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("no-fuel message does not mention expected fuel %q: %s", expectedFuel, msg.RawText))
	}
	return result
}

func fail(result *internal.ReconcileResult, reason string) {
	result.Status = internal.ReconcileMismatch
	if result.Reason == "" {
		result.Reason = reason
	} else {
		result.Reason += "; " + reason
	}
}

func findOrder(orders []internal.Order, orderID string) *internal.Order {
	for i := range orders {
		if strings.EqualFold(orders[i].ID, orderID) {
			return &orders[i]
		}
	}
	return nil
}

func parseOrderTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC1123, time.RFC1123Z, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
