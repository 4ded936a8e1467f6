package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"enercheck/internal"
	"enercheck/internal/buymsg"
	"enercheck/internal/energy"
	"enercheck/internal/ensek"
	"enercheck/internal/reconcile"
)

type scenario struct {
	name string
	run  func(ctx context.Context, runID int) (internal.CheckStatus, string)
}

func (r *Runner) scenarios() []scenario {
	out := []scenario{
		{name: "login_valid_credentials", run: r.checkLogin},
		{name: "login_invalid_credentials", run: r.checkLoginInvalid},
		{name: "buy_without_token", run: r.checkBuyUnauthorized},
		{name: "orders_without_token", run: r.checkOrdersUnauthorized},
		{name: "reset_inventory", run: r.checkReset},
	}

	for _, id := range energy.KnownIDs() {
		energyID := id
		out = append(out, scenario{
			name: fmt.Sprintf("buy_and_reconcile_%s", energy.ExpectedFuelType(energyID)),
			run: func(ctx context.Context, runID int) (internal.CheckStatus, string) {
				return r.checkBuyAndReconcile(ctx, runID, energyID)
			},
		})
	}

	out = append(out,
		scenario{name: "buy_unknown_energy_id", run: r.checkBuyUnknownID},
		scenario{name: "buy_zero_quantity", run: r.checkBuyZeroQuantity},
		scenario{name: "buy_negative_quantity", run: r.checkBuyNegativeQuantity},
		scenario{name: "orders_list_well_formed", run: r.checkOrdersWellFormed},
	)

	return out
}

func (r *Runner) checkLogin(ctx context.Context, _ int) (internal.CheckStatus, string) {
	res, err := r.client.Login(ctx, r.cfg.EnsekUsername, r.cfg.EnsekPassword)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("login call failed: %v", err)
	}
	if !res.Success {
		return internal.CheckFail, fmt.Sprintf("login rejected: status=%d message=%s", res.StatusCode, res.Message)
	}
	if r.client.Token() == "" {
		return internal.CheckFail, "login returned no token"
	}
	return internal.CheckPass, fmt.Sprintf("status=%d", res.StatusCode)
}

func (r *Runner) checkLoginInvalid(ctx context.Context, _ int) (internal.CheckStatus, string) {
	bare := ensek.NewClient(r.cfg)
	res, err := bare.Login(ctx, r.cfg.EnsekUsername, r.cfg.EnsekPassword+"-wrong")
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("login call failed: %v", err)
	}
	if res.Success {
		return internal.CheckFail, "invalid credentials were accepted"
	}
	if res.StatusCode != http.StatusUnauthorized {
		return internal.CheckWarn, fmt.Sprintf("expected 401, got %d (%s)", res.StatusCode, res.Message)
	}
	return internal.CheckPass, "status=401"
}

func (r *Runner) checkBuyUnauthorized(ctx context.Context, _ int) (internal.CheckStatus, string) {
	bare := ensek.NewClient(r.cfg)
	res, err := bare.Buy(ctx, 1, r.cfg.BuyQuantity)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("buy call failed: %v", err)
	}
	if res.StatusCode != http.StatusUnauthorized {
		return internal.CheckFail, fmt.Sprintf("expected 401 without token, got %d", res.StatusCode)
	}
	return internal.CheckPass, "status=401"
}

func (r *Runner) checkOrdersUnauthorized(ctx context.Context, _ int) (internal.CheckStatus, string) {
	bare := ensek.NewClient(r.cfg)
	_, res, err := bare.Orders(ctx)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("orders call failed: %v", err)
	}
	if res.StatusCode != http.StatusUnauthorized {
		return internal.CheckFail, fmt.Sprintf("expected 401 without token, got %d", res.StatusCode)
	}
	return internal.CheckPass, "status=401"
}

func (r *Runner) checkReset(ctx context.Context, _ int) (internal.CheckStatus, string) {
	res, err := r.client.Reset(ctx)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("reset call failed: %v", err)
	}
	if !res.Success {
		return internal.CheckFail, fmt.Sprintf("reset rejected: status=%d message=%s", res.StatusCode, res.Message)
	}
	return internal.CheckPass, fmt.Sprintf("status=%d", res.StatusCode)
}

// checkBuyAndReconcile is the cross-endpoint consistency check: buy,
// parse the confirmation, wait out read-after-write lag, fetch orders,
// reconcile. Out-of-stock replies route to the lighter no-fuel path and
// still pass.
func (r *Runner) checkBuyAndReconcile(ctx context.Context, runID, energyID int) (internal.CheckStatus, string) {
	attemptedAt := time.Now().UTC()
	res, err := r.client.Buy(ctx, energyID, r.cfg.BuyQuantity)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("buy call failed: %v", err)
	}
	if !res.Success {
		return internal.CheckFail, fmt.Sprintf("buy rejected: status=%d message=%s", res.StatusCode, res.Message)
	}

	msg := buymsg.Extract(res.Message)

	if msg.IsNoFuelAvailable() {
		result := r.rec.ReconcileNoFuel(energyID, msg)
		r.persistPurchase(runID, energyID, msg, result)
		if result.Status != internal.ReconcileOK {
			return internal.CheckFail, result.Reason
		}
		if len(result.Warnings) > 0 {
			return internal.CheckWarn, strings.Join(result.Warnings, "; ")
		}
		return internal.CheckPass, "no fuel available (valid terminal state)"
	}

	if !msg.IsSuccessfulPurchase() {
		r.persistPurchase(runID, energyID, msg, internal.ReconcileResult{Status: internal.ReconcileSkipped, Reason: "unrecognized message"})
		return internal.CheckFail, fmt.Sprintf("unrecognized buy message: %s", res.Message)
	}

	r.settle()

	orders, ordersRes, err := r.client.Orders(ctx)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("orders call failed: %v", err)
	}
	if !ordersRes.Success {
		return internal.CheckFail, fmt.Sprintf("orders rejected: status=%d message=%s", ordersRes.StatusCode, ordersRes.Message)
	}

	result := r.rec.Reconcile(reconcile.Input{
		EnergyID:          energyID,
		RequestedQuantity: r.cfg.BuyQuantity,
		OrderID:           msg.OrderID,
		Message:           msg,
		AttemptedAt:       attemptedAt,
	}, orders)
	r.persistPurchase(runID, energyID, msg, result)

	switch result.Status {
	case internal.ReconcileMismatch:
		return internal.CheckFail, result.Reason
	case internal.ReconcileSkipped:
		return internal.CheckSkip, result.Reason
	}
	if len(result.Warnings) > 0 {
		return internal.CheckWarn, strings.Join(result.Warnings, "; ")
	}
	return internal.CheckPass, fmt.Sprintf("order %s reconciled", *msg.OrderID)
}

func (r *Runner) checkBuyUnknownID(ctx context.Context, _ int) (internal.CheckStatus, string) {
	res, err := r.client.Buy(ctx, 8888, r.cfg.BuyQuantity)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("buy call failed: %v", err)
	}
	if res.StatusCode >= 400 && res.StatusCode < 500 {
		return internal.CheckPass, fmt.Sprintf("status=%d", res.StatusCode)
	}
	return internal.CheckFail, fmt.Sprintf("expected client error for unknown id, got %d (%s)", res.StatusCode, res.Message)
}

func (r *Runner) checkBuyZeroQuantity(ctx context.Context, _ int) (internal.CheckStatus, string) {
	res, err := r.client.Buy(ctx, 1, 0)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("buy call failed: %v", err)
	}
	if res.StatusCode >= 400 && res.StatusCode < 500 {
		return internal.CheckPass, fmt.Sprintf("status=%d", res.StatusCode)
	}
	return internal.CheckFail, fmt.Sprintf("expected client error for zero quantity, got %d (%s)", res.StatusCode, res.Message)
}

func (r *Runner) checkBuyNegativeQuantity(ctx context.Context, _ int) (internal.CheckStatus, string) {
	res, err := r.client.Buy(ctx, 1, -5)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("buy call failed: %v", err)
	}
	if res.StatusCode >= 400 && res.StatusCode < 500 {
		return internal.CheckPass, fmt.Sprintf("status=%d", res.StatusCode)
	}
	return internal.CheckFail, fmt.Sprintf("expected client error for negative quantity, got %d (%s)", res.StatusCode, res.Message)
}

func (r *Runner) checkOrdersWellFormed(ctx context.Context, _ int) (internal.CheckStatus, string) {
	orders, res, err := r.client.Orders(ctx)
	if err != nil {
		return internal.CheckFail, fmt.Sprintf("orders call failed: %v", err)
	}
	if !res.Success {
		return internal.CheckFail, fmt.Sprintf("orders rejected: status=%d", res.StatusCode)
	}

	for i, order := range orders {
		if strings.TrimSpace(order.ID) == "" {
			return internal.CheckFail, fmt.Sprintf("order %d has an empty id", i)
		}
	}
	return internal.CheckPass, fmt.Sprintf("%d orders, all with ids", len(orders))
}

func (r *Runner) persistPurchase(runID, energyID int, msg internal.BuyMessage, result internal.ReconcileResult) {
	detail, _ := json.Marshal(result)
	_, err := r.db.InsertPurchase(internal.PurchaseRow{
		RunID:           runID,
		EnergyID:        energyID,
		RequestedQty:    r.cfg.BuyQuantity,
		OrderID:         msg.OrderID,
		PurchasedQty:    msg.PurchasedQuantity,
		Cost:            msg.Cost,
		RemainingUnits:  msg.RemainingUnits,
		UnitType:        msg.UnitType,
		ReconcileStatus: string(result.Status),
		DetailJSON:      string(detail),
	})
	if err != nil {
		r.log.Warn("purchase row not persisted", zap.Error(err))
	}
}
