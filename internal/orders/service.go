// Package orders implements the order lifecycle: draft creation,
// incremental line items, finalization with the authoritative total
// recomputation, status transitions with their notification side
// effects, and the cascading delete.
package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-resto-api/internal/database"
	"go-resto-api/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Dispatcher is the enqueue-and-forget handoff to the notification
// worker. Implementations must never block the caller.
type Dispatcher interface {
	Enqueue(phone, body string)
}

type Service struct {
	db         *gorm.DB
	dispatcher Dispatcher

	// Mutations of one order (add item, finalize, status update,
	// delete) are serialized per order id so the total recomputation
	// never races a concurrent item insert.
	locks sync.Map
}

func NewService(db *gorm.DB, dispatcher Dispatcher) *Service {
	return &Service{db: db, dispatcher: dispatcher}
}

func (s *Service) lockOrder(orderID uint) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}

// CreateDraft opens an order with the system defaults and no customer,
// so line items can be rung up before the customer is identified.
func (s *Service) CreateDraft(ctx context.Context) (*models.Order, error) {
	order := models.Order{
		PlacedAt:        time.Now(),
		Total:           0,
		StatusID:        models.StatusPending,
		PaymentMethodID: models.DefaultPaymentMethod,
		DeliveryModeID:  models.DefaultDeliveryMode,
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// AddLineItem appends a line to an order. The subtotal is computed from
// the current catalog price; whatever the client claims is ignored.
// The order total is deliberately NOT touched here - it is recomputed
// once, at finalization.
func (s *Service) AddLineItem(ctx context.Context, orderID, productID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	mu := s.lockOrder(orderID)
	defer mu.Unlock()

	db := s.db.WithContext(ctx)

	if err := firstErr(db.First(&models.Order{}, orderID).Error, ErrOrderNotFound); err != nil {
		return nil, err
	}

	var product models.Product
	if err := firstErr(db.First(&product, productID).Error, ErrProductNotFound); err != nil {
		return nil, err
	}

	item := models.OrderItem{
		OrderID:   orderID,
		ProductID: &product.ID,
		Quantity:  quantity,
		Subtotal:  product.Price * float64(quantity),
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, err
	}
	item.Product = &product
	return &item, nil
}

// UpdateLineItem changes a line's quantity and recomputes its subtotal
// from the current product price (0 when the product was deleted).
func (s *Service) UpdateLineItem(ctx context.Context, itemID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	db := s.db.WithContext(ctx)

	// Resolve the owning order first, then read the item inside the
	// same critical section the other order mutations use.
	var item models.OrderItem
	if err := firstErr(db.Select("id", "order_id").First(&item, itemID).Error, ErrItemNotFound); err != nil {
		return nil, err
	}

	mu := s.lockOrder(item.OrderID)
	defer mu.Unlock()

	if err := firstErr(db.Preload("Product").First(&item, itemID).Error, ErrItemNotFound); err != nil {
		return nil, err
	}

	item.Quantity = quantity
	item.Subtotal = RefOf(item).UnitPrice() * float64(quantity)
	if err := db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type FinalizeInput struct {
	OrderID         uint
	DNI             string
	Name            string
	Phone           string
	Address         string
	PaymentMethodID uint
	DeliveryModeID  uint
}

// Finalize attaches a customer to a draft, recomputes the order total
// from the stored line-item subtotals and confirms the order. The total
// is never taken from the request. Customer creation is find-or-create:
// an existing customer's contact data is left untouched.
func (s *Service) Finalize(ctx context.Context, in FinalizeInput) (*models.Order, error) {
	mu := s.lockOrder(in.OrderID)
	defer mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := firstErr(tx.First(&order, in.OrderID).Error, ErrOrderNotFound); err != nil {
			return err
		}
		if err := checkReference(tx, &models.PaymentMethod{}, in.PaymentMethodID, ErrUnknownPaymentMethod); err != nil {
			return err
		}
		if err := checkReference(tx, &models.DeliveryMode{}, in.DeliveryModeID, ErrUnknownDeliveryMode); err != nil {
			return err
		}

		customer, err := database.FindOrCreateCustomer(tx, models.Customer{
			DNI:     in.DNI,
			Name:    in.Name,
			Phone:   in.Phone,
			Address: in.Address,
		})
		if err != nil {
			return err
		}

		total, err := database.OrderItemsTotal(tx, in.OrderID)
		if err != nil {
			return err
		}

		return tx.Model(&order).Updates(map[string]interface{}{
			"customer_dni":      customer.DNI,
			"total":             total,
			"payment_method_id": in.PaymentMethodID,
			"delivery_mode_id":  in.DeliveryModeID,
			"status_id":         models.StatusConfirmed,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, in.OrderID)
}

type UpdateInput struct {
	PlacedAt        *time.Time
	Total           *float64
	CustomerDNI     *string
	PaymentMethodID *uint
	StatusID        *uint
	DeliveryModeID  *uint
	// EstimatedTime is transient: it only feeds the notification text
	// and is not persisted on the order row.
	EstimatedTime string
}

// Update applies a partial update. When the new status carries a notify
// policy and the order's customer has a phone on file, the message is
// enqueued after the write commits; delivery failures never surface.
// Repeated updates to the same status re-fire the notification.
func (s *Service) Update(ctx context.Context, orderID uint, in UpdateInput) (*models.Order, error) {
	mu := s.lockOrder(orderID)
	defer mu.Unlock()

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := firstErr(db.First(&order, orderID).Error, ErrOrderNotFound); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.PlacedAt != nil {
		updates["placed_at"] = *in.PlacedAt
	}
	if in.Total != nil {
		updates["total"] = *in.Total
	}
	if in.CustomerDNI != nil {
		if err := firstErr(db.Where("dni = ?", *in.CustomerDNI).First(&models.Customer{}).Error, ErrCustomerNotFound); err != nil {
			return nil, err
		}
		updates["customer_dni"] = *in.CustomerDNI
	}
	if in.PaymentMethodID != nil {
		if err := checkReference(db, &models.PaymentMethod{}, *in.PaymentMethodID, ErrUnknownPaymentMethod); err != nil {
			return nil, err
		}
		updates["payment_method_id"] = *in.PaymentMethodID
	}
	if in.StatusID != nil {
		if err := checkReference(db, &models.OrderStatus{}, *in.StatusID, ErrUnknownStatus); err != nil {
			return nil, err
		}
		updates["status_id"] = *in.StatusID
	}
	if in.DeliveryModeID != nil {
		if err := checkReference(db, &models.DeliveryMode{}, *in.DeliveryModeID, ErrUnknownDeliveryMode); err != nil {
			return nil, err
		}
		updates["delivery_mode_id"] = *in.DeliveryModeID
	}

	if len(updates) > 0 {
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	if in.StatusID != nil {
		s.notifyForStatus(ctx, &order, *in.StatusID, in.EstimatedTime)
	}

	return s.Get(ctx, orderID)
}

func (s *Service) notifyForStatus(ctx context.Context, stale *models.Order, statusID uint, estimatedTime string) {
	policy, ok := statusPolicies[statusID]
	if !ok || !policy.Notify {
		return
	}

	// Reload: the same update may have just attached the customer.
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, stale.ID).Error; err != nil {
		log.Error().Err(err).Uint("order_id", stale.ID).Msg("Could not reload order for notification")
		return
	}
	if order.CustomerDNI == nil {
		return
	}

	var customer models.Customer
	err := s.db.WithContext(ctx).Where("dni = ?", *order.CustomerDNI).First(&customer).Error
	if err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("Could not load customer for notification")
		return
	}
	if customer.Phone == "" {
		return
	}

	s.dispatcher.Enqueue(customer.Phone, policy.Message(&order, &customer, estimatedTime))
}

// Get loads an order with its customer, reference rows and line items
// (products resolved where they still exist).
func (s *Service) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("PaymentMethod").
		Preload("Status").
		Preload("DeliveryMode").
		Preload("Items").
		Preload("Items.Product").
		First(&order, orderID).Error
	if err := firstErr(err, ErrOrderNotFound); err != nil {
		return nil, err
	}
	return &order, nil
}

// ItemView is one displayed line: items of the same product are merged,
// deleted products fall back to a label and zero price.
type ItemView struct {
	Product  *models.Product `json:"product,omitempty"`
	Label    string          `json:"label"`
	Quantity int             `json:"quantity"`
	Subtotal float64         `json:"subtotal"`
}

// OrderView is the listing shape. DisplayTotal is the sum of the merged
// subtotals at current prices; Total stays the amount persisted at
// finalization.
type OrderView struct {
	models.Order
	Items        []ItemView `json:"items"`
	DisplayTotal float64    `json:"display_total"`
}

// ListWithDetails returns every order with grouped line items.
func (s *Service) ListWithDetails(ctx context.Context) ([]OrderView, error) {
	var all []models.Order
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("PaymentMethod").
		Preload("Status").
		Preload("DeliveryMode").
		Preload("Items").
		Preload("Items.Product").
		Order("id").
		Find(&all).Error
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(all))
	for i := range all {
		views = append(views, buildView(&all[i]))
	}
	return views, nil
}

// GetView returns a single order in the grouped listing shape.
func (s *Service) GetView(ctx context.Context, orderID uint) (*OrderView, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := buildView(order)
	return &view, nil
}

func buildView(order *models.Order) OrderView {
	grouped := make([]ItemView, 0, len(order.Items))
	byProduct := map[uint]int{} // product id -> position in grouped
	deletedPos := -1

	for _, item := range order.Items {
		ref := RefOf(item)
		var pos int
		if p, ok := ref.Resolved(); ok {
			i, seen := byProduct[p.ID]
			if !seen {
				i = len(grouped)
				byProduct[p.ID] = i
				grouped = append(grouped, ItemView{Product: p, Label: ref.Label()})
			}
			pos = i
		} else {
			if deletedPos < 0 {
				deletedPos = len(grouped)
				grouped = append(grouped, ItemView{Label: ref.Label()})
			}
			pos = deletedPos
		}
		grouped[pos].Quantity += item.Quantity
		grouped[pos].Subtotal += ref.UnitPrice() * float64(item.Quantity)
	}

	view := OrderView{Order: *order, Items: grouped}
	view.Order.Items = nil
	for _, g := range grouped {
		view.DisplayTotal += g.Subtotal
	}
	return view
}

// Delete removes the order and all of its line items in one
// transaction. The cascade is owned here, not delegated to a storage
// constraint.
func (s *Service) Delete(ctx context.Context, orderID uint) error {
	mu := s.lockOrder(orderID)
	defer mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := firstErr(tx.First(&models.Order{}, orderID).Error, ErrOrderNotFound); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Order{}, orderID).Error
	})
	if err != nil {
		return err
	}

	s.locks.Delete(orderID)
	return nil
}

// DetachProduct nulls out the product reference on every line item that
// points at the product, so their reads keep working through the
// deleted-product fallback. Called before a product row is removed.
func DetachProduct(tx *gorm.DB, productID uint) error {
	return tx.Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Update("product_id", nil).Error
}

func checkReference(db *gorm.DB, model interface{}, id uint, missing error) error {
	return firstErr(db.First(model, id).Error, missing)
}

func firstErr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
