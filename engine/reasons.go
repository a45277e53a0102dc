package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// REASONS — Cancellation / incompletion reason breakdown
// ============================================================================
// A booking counts toward a kind only when its flag is > 0 AND its reason
// text is present and non-blank. Percentages are of that kind's subtotal.
// ============================================================================

// ReasonKind selects which flag/reason pair to read.
type ReasonKind int

const (
	CustomerCancellation ReasonKind = iota
	DriverCancellation
	IncompleteRide
)

func (k ReasonKind) String() string {
	switch k {
	case CustomerCancellation:
		return "customer_cancellation"
	case DriverCancellation:
		return "driver_cancellation"
	case IncompleteRide:
		return "incomplete_ride"
	default:
		return fmt.Sprintf("reason_kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name in JSON output.
func (k ReasonKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ReasonKinds lists every kind in display order.
func ReasonKinds() []ReasonKind {
	return []ReasonKind{CustomerCancellation, DriverCancellation, IncompleteRide}
}

// ReasonCount is one reason's share of a kind's subtotal.
type ReasonCount struct {
	Reason  string  `json:"reason"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Reasons is the breakdown for one kind.
type Reasons struct {
	Kind     ReasonKind    `json:"kind"`
	Subtotal int           `json:"subtotal"`
	Items    []ReasonCount `json:"items"`
}

func (k ReasonKind) keyFunc() KeyFunc {
	return func(b Booking) (string, bool) {
		var flag *int
		var reason *string
		switch k {
		case CustomerCancellation:
			flag, reason = b.CancelledByCustomer, b.CustomerCancelReason
		case DriverCancellation:
			flag, reason = b.CancelledByDriver, b.DriverCancelReason
		case IncompleteRide:
			flag, reason = b.IncompleteRides, b.IncompleteReason
		}
		if flag == nil || *flag <= 0 || reason == nil {
			return "", false
		}
		r := strings.TrimSpace(*reason)
		return r, r != ""
	}
}

// ReasonBreakdown counts reasons of one kind, largest first.
func ReasonBreakdown(view View, kind ReasonKind) Reasons {
	g := GroupBy(view, kind.keyFunc(), Count())
	ranked := g.Ranked()

	out := Reasons{Kind: kind, Items: make([]ReasonCount, 0, len(ranked))}
	for _, grp := range ranked {
		out.Subtotal += grp.Count
		out.Items = append(out.Items, ReasonCount{
			Reason:  grp.Key,
			Count:   grp.Count,
			Percent: grp.Share,
		})
	}
	return out
}
