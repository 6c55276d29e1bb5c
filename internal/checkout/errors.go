package checkout

import "errors"

var (
	ErrUnauthenticated    = errors.New("no authenticated user at checkout time")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this session")

	IllegalTransitionError = errors.New("illegal transition of saga state")
)
