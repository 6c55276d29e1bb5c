package domain

import "github.com/shopspring/decimal"

type SagaState string

const (
	SagaStateIdle         SagaState = "IDLE"
	SagaStateSubmitting   SagaState = "SUBMITTING"
	SagaStateCompensating SagaState = "COMPENSATING"
	SagaStateSucceeded    SagaState = "SUCCEEDED"
	SagaStateFailed       SagaState = "FAILED"
)

func (s SagaState) IsTerminal() bool {
	return s == SagaStateSucceeded || s == SagaStateFailed
}

// String representation (for logging)
func (s SagaState) String() string {
	return string(s)
}

var sagaTransitions = map[SagaState][]SagaState{
	SagaStateIdle:         {SagaStateSubmitting},
	SagaStateSubmitting:   {SagaStateSucceeded, SagaStateCompensating, SagaStateFailed},
	SagaStateCompensating: {SagaStateFailed},
}

func CanTransitionTo(from, to SagaState) bool {
	for _, next := range sagaTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutRequest is the full input to one checkout attempt. Groups are
// re-derived from the cart at submission time, not taken from the display.
type CheckoutRequest struct {
	Groups          []CartGroup
	DeliveryAddress string
	PaymentMethod   PaymentMethod
	DeliveryFee     decimal.Decimal
}
