package errors

import "fmt"

// ErrStockExceeded indicates an add or update would exceed available stock.
// Callers resolve it by clamping; it only surfaces when the product has no
// stock at all.
type ErrStockExceeded struct {
	ProductID string
	Requested int
	Stock     int
}

func (e *ErrStockExceeded) Error() string {
	return fmt.Sprintf("stock exceeded for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Stock)
}

// ErrItemNotFound indicates an update or removal referenced a product not in
// the cart. Treated as a benign no-op by most callers.
type ErrItemNotFound struct {
	ProductID string
}

func (e *ErrItemNotFound) Error() string {
	return fmt.Sprintf("cart item not found: %s", e.ProductID)
}

// ErrPermissionDenied indicates the user declined notification permission.
// Terminal for the session; never re-prompted automatically.
type ErrPermissionDenied struct {
	Status string
}

func (e *ErrPermissionDenied) Error() string {
	return fmt.Sprintf("notification permission denied: %s", e.Status)
}

// ErrTokenUnavailable indicates the platform could not produce a push token.
type ErrTokenUnavailable struct {
	Reason string
}

func (e *ErrTokenUnavailable) Error() string {
	return fmt.Sprintf("push token unavailable: %s", e.Reason)
}

// ErrRegistrationFailed indicates the backend rejected or was unreachable for
// token registration.
type ErrRegistrationFailed struct {
	StatusCode int
	Message    string
}

func (e *ErrRegistrationFailed) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("token registration failed: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("token registration failed: %s", e.Message)
}

// ErrPersistenceFailed wraps a local storage write failure. In-memory state
// remains authoritative for the session.
type ErrPersistenceFailed struct {
	Key string
	Err error
}

func (e *ErrPersistenceFailed) Error() string {
	return fmt.Sprintf("persistence failed for key %s: %v", e.Key, e.Err)
}

func (e *ErrPersistenceFailed) Unwrap() error {
	return e.Err
}

// ErrUnauthorized indicates a request failed authentication
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	return e.Message
}

// ErrInvalidStateTransition indicates a token lifecycle transition that the
// state graph does not allow.
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}
