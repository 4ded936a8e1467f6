// Package buymsg turns the buy endpoint's free-text confirmation into
// typed fields. Extraction never fails: a pattern that does not match
// simply leaves its field nil.
package buymsg

import (
	"math"
	"regexp"
	"strconv"

	"enercheck/internal"
	"enercheck/internal/util"
)

// Each field has its own pattern scanned independently over the full
// text, so partially recognizable messages still yield the fields that
// are present.
var (
	reQuantity  = regexp.MustCompile(`You have purchased\s+(\d+)`)
	reUnitType  = regexp.MustCompile(`You have purchased\s+\d+\s+(\S+)`)
	reCost      = regexp.MustCompile(`at a cost of\s+(\d+(?:\.\d+)?)`)
	reRemaining = regexp.MustCompile(`there are\s+(-?\d+)\s+units remaining`)
	// The remote spells the phrase both "order id" and "orderid".
	reOrderID = regexp.MustCompile(`Your order\s?id is\s+([0-9a-fA-F-]+)`)
)

func Extract(raw string) internal.BuyMessage {
	msg := internal.BuyMessage{RawText: raw}
	if raw == "" {
		return msg
	}

	if m := reQuantity.FindStringSubmatch(raw); len(m) > 1 {
		if qty, err := strconv.Atoi(m[1]); err == nil {
			msg.PurchasedQuantity = util.IntPtr(qty)
		}
	}

	if m := reUnitType.FindStringSubmatch(raw); len(m) > 1 {
		msg.UnitType = util.StringPtr(m[1])
	}

	if m := reCost.FindStringSubmatch(raw); len(m) > 1 {
		if cost, err := strconv.ParseFloat(m[1], 64); err == nil {
			msg.Cost = util.FloatPtr(round2(cost))
		}
	}

	if m := reRemaining.FindStringSubmatch(raw); len(m) > 1 {
		if remaining, err := strconv.Atoi(m[1]); err == nil {
			msg.RemainingUnits = util.IntPtr(remaining)
		}
	}

	if m := reOrderID.FindStringSubmatch(raw); len(m) > 1 {
		msg.OrderID = util.StringPtr(m[1])
	}

	return msg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
