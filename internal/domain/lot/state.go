// internal/domain/lot/state.go
package lot

import (
	"errors"
	"fmt"
)

var (
	// ErrLotDepleted is returned when an operation targets a depleted lot
	ErrLotDepleted = errors.New("lot is depleted")

	// ErrAlreadyRefrigerated is returned when refrigeration is requested twice
	ErrAlreadyRefrigerated = errors.New("lot is already refrigerated")

	// ErrNonPositiveQuantity is returned when a consumption quantity is zero or negative
	ErrNonPositiveQuantity = errors.New("consumption quantity must be greater than zero")
)

// ExceedsAvailableError is returned when a consumption request asks for more
// bags than the lot has left. It carries the numbers so the caller can show
// requested vs available.
type ExceedsAvailableError struct {
	LotCode   string
	Requested int
	Available int
}

func (e *ExceedsAvailableError) Error() string {
	return fmt.Sprintf("lot %s: requested %d bags, only %d available",
		e.LotCode, e.Requested, e.Available)
}

// CanConsume validates a bag consumption against the lot's state and its
// currently available count. Transitions only move forward: a depleted lot
// rejects everything.
func CanConsume(l *ProductionLot, available, quantity int) error {
	if l.State.IsTerminal() {
		return ErrLotDepleted
	}
	if quantity <= 0 {
		return fmt.Errorf("%w, got %d", ErrNonPositiveQuantity, quantity)
	}
	if quantity > available {
		return &ExceedsAvailableError{
			LotCode:   l.LotCode,
			Requested: quantity,
			Available: available,
		}
	}
	return nil
}

// CanRefrigerate validates the incubating → refrigerated transition. The
// move is one-way; there is no path back to incubating.
func CanRefrigerate(l *ProductionLot, available int) error {
	switch l.State {
	case LotStateDepleted:
		return ErrLotDepleted
	case LotStateRefrigerated:
		return ErrAlreadyRefrigerated
	}
	if available <= 0 {
		return &ExceedsAvailableError{
			LotCode:   l.LotCode,
			Requested: 1,
			Available: available,
		}
	}
	return nil
}

// NextState derives the state after a consumption. Depletion is a
// consequence of reaching zero available bags, never a requested transition.
func NextState(l *ProductionLot, availableAfter int) LotState {
	if availableAfter <= 0 {
		return LotStateDepleted
	}
	return l.State
}
