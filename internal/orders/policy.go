package orders

import (
	"fmt"

	"go-resto-api/internal/models"
)

// notifyPolicy says what happens when an order transitions into a
// status. The mapping is deliberately a table so the coupling between
// status values and side effects is visible and testable, instead of a
// magic numeric comparison buried in the update path.
type notifyPolicy struct {
	Notify  bool
	Message func(order *models.Order, customer *models.Customer, estimatedTime string) string
}

var statusPolicies = map[uint]notifyPolicy{
	models.StatusConfirmed: {
		Notify:  true,
		Message: confirmationMessage,
	},
}

func confirmationMessage(order *models.Order, customer *models.Customer, estimatedTime string) string {
	if estimatedTime == "" {
		estimatedTime = "unos minutos"
	}
	return fmt.Sprintf(
		"¡Hola %s! Tu pedido N°%d fue CONFIRMADO. Estará listo en %s aproximadamente. ¡Muchas gracias!",
		customer.Name, order.ID, estimatedTime,
	)
}
