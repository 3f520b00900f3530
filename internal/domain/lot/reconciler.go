// internal/domain/lot/reconciler.go
package lot

import "fmt"

// NegativeAvailabilityError indicates the event log for a lot sums past its
// initial bag count. It means a guard was missed upstream; treat it as fatal,
// not as a user error.
type NegativeAvailabilityError struct {
	LotCode  string
	Computed int
}

func (e *NegativeAvailabilityError) Error() string {
	return fmt.Sprintf("lot %s: computed availability is negative (%d), event log is inconsistent",
		e.LotCode, e.Computed)
}

// CurrentAvailable recomputes a lot's available bag count from its full
// event list. The stored state is never trusted for this number, so the
// computation stays correct under replay or out-of-order event delivery.
func CurrentAvailable(l *ProductionLot, events []BagConsumptionEvent) int {
	available := l.InitialBagCount
	for _, event := range events {
		if event.LotID == l.ID {
			available -= event.Quantity
		}
	}
	return available
}

// Reconcile recomputes availability and enforces the non-negative invariant
func Reconcile(l *ProductionLot, events []BagConsumptionEvent) (int, error) {
	available := CurrentAvailable(l, events)
	if available < 0 {
		return available, &NegativeAvailabilityError{
			LotCode:  l.LotCode,
			Computed: available,
		}
	}
	return available, nil
}
