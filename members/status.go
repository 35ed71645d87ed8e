package members

// Status is derived from days left and never stored.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// ExpiringWindowDays is the last day count still classed as expiring.
const ExpiringWindowDays = 7

// StatusFromDaysLeft is the single classification used by every member listing.
//
//	nil      -> active
//	< 0      -> expired
//	0..7     -> expiring
//	> 7      -> active
func StatusFromDaysLeft(daysLeft *int) Status {
	switch {
	case daysLeft == nil:
		return StatusActive
	case *daysLeft < 0:
		return StatusExpired
	case *daysLeft <= ExpiringWindowDays:
		return StatusExpiring
	default:
		return StatusActive
	}
}
