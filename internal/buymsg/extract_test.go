package buymsg

import "testing"

func TestExtractFullMessage(t *testing.T) {
	raw := "You have purchased 2970 m³ at a cost of 3.4000000000000004 there are 10 units remaining. Your order id is 69d09d33-9944-4d27-9f89-c5ffddf8a4e8"
	msg := Extract(raw)

	if msg.PurchasedQuantity == nil || *msg.PurchasedQuantity != 2970 {
		t.Fatalf("quantity=%v", msg.PurchasedQuantity)
	}
	if msg.UnitType == nil || *msg.UnitType != "m³" {
		t.Fatalf("unitType=%v", msg.UnitType)
	}
	if msg.Cost == nil || *msg.Cost != 3.4 {
		t.Fatalf("cost=%v", msg.Cost)
	}
	if msg.RemainingUnits == nil || *msg.RemainingUnits != 10 {
		t.Fatalf("remaining=%v", msg.RemainingUnits)
	}
	if msg.OrderID == nil || *msg.OrderID != "69d09d33-9944-4d27-9f89-c5ffddf8a4e8" {
		t.Fatalf("orderId=%v", msg.OrderID)
	}
	if !msg.IsSuccessfulPurchase() {
		t.Fatal("expected successful purchase")
	}
	if msg.IsNoFuelAvailable() {
		t.Fatal("not a no-fuel message")
	}
}

func TestExtractOrderIDSpellings(t *testing.T) {
	withSpace := Extract("Your order id is ABC-123")
	withoutSpace := Extract("Your orderid is ABC-123")

	if withSpace.OrderID == nil || withoutSpace.OrderID == nil {
		t.Fatalf("orderId missing: %v %v", withSpace.OrderID, withoutSpace.OrderID)
	}
	if *withSpace.OrderID != *withoutSpace.OrderID {
		t.Fatalf("spellings disagree: %q vs %q", *withSpace.OrderID, *withoutSpace.OrderID)
	}
}

func TestExtractNegativeRemaining(t *testing.T) {
	msg := Extract("You have purchased 10 kWh at a cost of 5 there are -5 units remaining. Your order id is aa-bb")
	if msg.RemainingUnits == nil || *msg.RemainingUnits != -5 {
		t.Fatalf("remaining=%v", msg.RemainingUnits)
	}
}

func TestExtractUnrelatedText(t *testing.T) {
	msg := Extract("Bad request")
	if msg.PurchasedQuantity != nil || msg.Cost != nil || msg.OrderID != nil || msg.UnitType != nil || msg.RemainingUnits != nil {
		t.Fatalf("expected all fields absent: %+v", msg)
	}
	if msg.IsSuccessfulPurchase() {
		t.Fatal("must not classify as purchase")
	}
}

func TestExtractEmpty(t *testing.T) {
	msg := Extract("")
	if msg.IsSuccessfulPurchase() || msg.IsNoFuelAvailable() {
		t.Fatal("empty text must not satisfy any predicate")
	}
}

func TestNoFuelClassification(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "there is no", raw: "There is no nuclear fuel to purchase!", want: true},
		{name: "fuel to purchase only", raw: "No more fuel to purchase today", want: true},
		{name: "lower case does not count", raw: "there is no stock", want: false},
		{name: "plain success", raw: "You have purchased 5 MW at a cost of 10 there are 1 units remaining. Your order id is ff-11", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.raw).IsNoFuelAvailable(); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestCostRounding(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{raw: "You have purchased 1 m³ at a cost of 3.4000000000000004 there are 1 units remaining.", want: 3.4},
		{raw: "You have purchased 1 m³ at a cost of 3.456 there are 1 units remaining.", want: 3.46},
		{raw: "You have purchased 1 m³ at a cost of 10 there are 1 units remaining.", want: 10},
	}

	for _, tc := range cases {
		msg := Extract(tc.raw)
		if msg.Cost == nil {
			t.Fatalf("cost missing for %q", tc.raw)
		}
		if *msg.Cost != tc.want {
			t.Fatalf("got %v want %v", *msg.Cost, tc.want)
		}
	}
}
