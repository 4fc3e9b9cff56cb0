package domain

// Inventory status values as stored and reported.
const (
	StatusSafe      = "safe"
	StatusExpiring  = "expiring"
	StatusOverstock = "overstock"
	StatusExpired   = "expired"
)

// StatusForExpiry derives the stock status from remaining shelf life when the
// store has not set one explicitly.
func StatusForExpiry(daysUntilExpiry int) string {
	switch {
	case daysUntilExpiry < 0:
		return StatusExpired
	case daysUntilExpiry <= 2:
		return StatusExpiring
	default:
		return StatusSafe
	}
}
