package order

import "errors"

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNotFound      = errors.New("order not found")
	ErrNotOwner      = errors.New("order belongs to another user")
	ErrInvalidState  = errors.New("order can only be cancelled while pending")
	ErrInvalidStatus = errors.New("unknown status value")
)

type ProductInactiveError struct {
	ProductID string
}

func (e *ProductInactiveError) Error() string {
	return "product " + e.ProductID + " is not available for purchase"
}

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing or invalid field: " + e.Field
}
