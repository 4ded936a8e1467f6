package energy

import "testing"

func TestCatalogLookup(t *testing.T) {
	cases := []struct {
		id   int
		fuel string
		unit string
	}{
		{id: 1, fuel: "gas", unit: "m³"},
		{id: 2, fuel: "nuclear", unit: "MW"},
		{id: 3, fuel: "electric", unit: "kWh"},
		{id: 4, fuel: "oil", unit: "Litres"},
		{id: 8, fuel: Unknown, unit: Unknown},
		{id: -1, fuel: Unknown, unit: Unknown},
	}

	for _, tc := range cases {
		if got := ExpectedFuelType(tc.id); got != tc.fuel {
			t.Fatalf("id=%d fuel=%q want %q", tc.id, got, tc.fuel)
		}
		if got := ExpectedUnitType(tc.id); got != tc.unit {
			t.Fatalf("id=%d unit=%q want %q", tc.id, got, tc.unit)
		}
	}
}

func TestNormalizeFuelType(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Elec", want: "electric"},
		{input: "electricity", want: "electric"},
		{input: " ELECTRIC ", want: "electric"},
		{input: "Gas", want: "gas"},
		{input: "Natural Gas", want: "gas"},
		{input: "petroleum", want: "oil"},
		{input: "OIL", want: "oil"},
		{input: "Nuclear", want: "nuclear"},
		{input: "hydrogen", want: "hydrogen"},
		{input: "  biomass  ", want: "biomass"},
	}

	for _, tc := range cases {
		if got := NormalizeFuelType(tc.input); got != tc.want {
			t.Fatalf("NormalizeFuelType(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeUnitType(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "m3", want: "m³"},
		{input: "M³", want: "m³"},
		{input: "cubic meters", want: "m³"},
		{input: "mw", want: "MW"},
		{input: "Megawatts", want: "MW"},
		{input: "KWH", want: "kWh"},
		{input: "kilowatt hours", want: "kWh"},
		{input: "LITRES", want: "Litres"},
		{input: "liters", want: "Litres"},
		{input: "l", want: "Litres"},
		{input: "barrels", want: "barrels"},
	}

	for _, tc := range cases {
		if got := NormalizeUnitType(tc.input); got != tc.want {
			t.Fatalf("NormalizeUnitType(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizersIdempotent(t *testing.T) {
	fuels := []string{"Elec", "Natural Gas", "petroleum", "nuclear", "plasma"}
	for _, f := range fuels {
		once := NormalizeFuelType(f)
		if NormalizeFuelType(once) != once {
			t.Fatalf("fuel normalization not idempotent for %q", f)
		}
	}

	units := []string{"m3", "MW", "kwh", "LITRES", "barrels"}
	for _, u := range units {
		once := NormalizeUnitType(u)
		if NormalizeUnitType(once) != once {
			t.Fatalf("unit normalization not idempotent for %q", u)
		}
	}
}
