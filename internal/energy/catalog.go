// Package energy holds the fixed energy-id catalog and the fuel/unit
// vocabulary normalizers. The buy message, this catalog, and the orders
// endpoint each use their own casing and spelling for the same concept,
// so comparisons always go through normalization.
package energy

import "strings"

const Unknown = "unknown"

type Type struct {
	FuelType string
	UnitType string
}

var catalog = map[int]Type{
	1: {FuelType: "gas", UnitType: "m³"},
	2: {FuelType: "nuclear", UnitType: "MW"},
	3: {FuelType: "electric", UnitType: "kWh"},
	4: {FuelType: "oil", UnitType: "Litres"},
}

// ExpectedFuelType returns "unknown" for ids outside the catalog;
// callers treat that as "skip validation", never as a failure.
func ExpectedFuelType(energyID int) string {
	if t, ok := catalog[energyID]; ok {
		return t.FuelType
	}
	return Unknown
}

func ExpectedUnitType(energyID int) string {
	if t, ok := catalog[energyID]; ok {
		return t.UnitType
	}
	return Unknown
}

// KnownIDs lists the catalog ids in ascending order.
func KnownIDs() []int {
	return []int{1, 2, 3, 4}
}

func NormalizeFuelType(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "elec", "electricity", "electric":
		return "electric"
	case "gas", "natural gas":
		return "gas"
	case "oil", "petroleum":
		return "oil"
	case "nuclear":
		return "nuclear"
	default:
		return s
	}
}

func NormalizeUnitType(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "m³", "m3", "cubic meters":
		return "m³"
	case "mw", "megawatts":
		return "MW"
	case "kwh", "kilowatt hours":
		return "kWh"
	case "litres", "liters", "l":
		return "Litres"
	default:
		return s
	}
}
