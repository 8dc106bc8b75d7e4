package orders

import "go-resto-api/internal/models"

// DeletedProductLabel is what a line item displays when its product row
// no longer exists.
const DeletedProductLabel = "deleted product"

// ProductRef is either Resolved (the product row still exists) or
// Deleted. All display paths go through its accessors instead of
// nil-checking the foreign key in place.
type ProductRef struct {
	product *models.Product
}

func ResolvedProduct(p *models.Product) ProductRef {
	return ProductRef{product: p}
}

func DeletedProduct() ProductRef {
	return ProductRef{}
}

// RefOf classifies a loaded line item.
func RefOf(item models.OrderItem) ProductRef {
	if item.ProductID == nil || item.Product == nil {
		return DeletedProduct()
	}
	return ResolvedProduct(item.Product)
}

func (r ProductRef) Resolved() (*models.Product, bool) {
	return r.product, r.product != nil
}

func (r ProductRef) Label() string {
	if r.product == nil {
		return DeletedProductLabel
	}
	return r.product.Name
}

// UnitPrice is the current catalog price, or 0 for a deleted product.
func (r ProductRef) UnitPrice() float64 {
	if r.product == nil {
		return 0
	}
	return r.product.Price
}
