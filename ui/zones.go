package ui

import "fmt"

// MenuRowZoneID returns the bubblezone ID a menu row is marked with.
// Render paths mark with it; mouse paths look it up for hit testing.
func MenuRowZoneID(idx int) string {
	return fmt.Sprintf("zone-menu-row-%d", idx)
}
