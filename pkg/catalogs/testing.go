package catalogs

import (
	"fmt"
	"testing"
)

// TestVehicle creates a test vehicle with sensible defaults.
// The t.Helper() call ensures stack traces point to the test, not this function.
func TestVehicle(t testing.TB, id int) Vehicle {
	t.Helper()
	return Vehicle{
		ID:           id,
		Brand:        "RENAULT",
		Model:        fmt.Sprintf("Clio %d", id),
		Year:         2021,
		Price:        12500,
		Mileage:      42000,
		Fuel:         "Essence",
		Transmission: "Manuelle",
		Motor:        "90 ch",
		Types:        []string{TypeRecent, TypeUsed},
		Destination:  DestinationEurope,
		Image:        fmt.Sprintf("images/clio-%d.jpg", id),
		Gallery:      []string{},
		Description:  "Test vehicle",
		Features:     []string{"climatisation"},
	}
}

// TestVehicles creates one test vehicle per identifier, in the given order.
func TestVehicles(t testing.TB, ids ...int) []Vehicle {
	t.Helper()
	out := make([]Vehicle, len(ids))
	for i, id := range ids {
		out[i] = TestVehicle(t, id)
	}
	return out
}

// TestRecord renders a minimal record file for the given identifier and
// brand, suitable for loader and pipeline tests.
func TestRecord(t testing.TB, id int, brand string) string {
	t.Helper()
	return fmt.Sprintf("---\nid: %d\nbrand: %s\nmodel: Test\nyear: 2020\nprice: 1000\ntypes:\n  - occasion\n---\nBody.\n", id, brand)
}
