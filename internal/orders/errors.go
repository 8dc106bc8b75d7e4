package orders

import "errors"

// Not-found errors map to 404 when the entity is addressed directly,
// and to 422 when it is a reference inside a request body.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrItemNotFound     = errors.New("order item not found")
	ErrCustomerNotFound = errors.New("customer not found")

	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrUnknownPaymentMethod = errors.New("payment method does not exist")
	ErrUnknownStatus        = errors.New("order status does not exist")
	ErrUnknownDeliveryMode  = errors.New("delivery mode does not exist")
)

// IsValidation reports whether err should surface as a 422.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrUnknownPaymentMethod) ||
		errors.Is(err, ErrUnknownStatus) ||
		errors.Is(err, ErrUnknownDeliveryMode)
}
