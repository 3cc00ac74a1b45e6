package store

import (
	"time"
)

// Entity carries the key assigned by a SQL saver. Embed it to make a bean
// storable.
type Entity struct {
	ID int64 `json:"id" msgpack:"id"`
}

// EntityID returns the stored key, 0 before the first save.
func (e *Entity) EntityID() int64 { return e.ID }

// SetEntityID records the key assigned by the store.
func (e *Entity) SetEntityID(id int64) { e.ID = id }

// Product represents an individual item available for sale.
// Prices are in cents to avoid floating-point errors.
type Product struct {
	Entity

	SKU        string    `json:"sku"             msgpack:"sku"`
	Name       string    `json:"name"            msgpack:"name"`
	PriceCents int64     `json:"price_cents"     msgpack:"price_cents"`
	Inventory  int       `json:"inventory_count" msgpack:"inventory"`
	CreatedAt  time.Time `json:"created_at"      msgpack:"created_at"`
}

// EntityName names the product table entry.
func (*Product) EntityName() string { return "product" }

// Customer represents the user placing orders. The e-mail address is only
// reachable through accessors.
type Customer struct {
	Entity

	email    string
	FullName string  `json:"full_name" msgpack:"full_name"`
	Address  *string `json:"address"   msgpack:"address"`
	IsActive bool    `json:"is_active" msgpack:"is_active"`
}

// NewCustomer creates an active customer.
func NewCustomer(email string) *Customer {
	return &Customer{email: email, IsActive: true}
}

func (*Customer) EntityName() string { return "customer" }

func (c *Customer) GetEmail() string      { return c.email }
func (c *Customer) SetEmail(email string) { c.email = email }

// Order represents a transaction made by a customer.
type Order struct {
	Entity

	customer  *Customer
	Status    OrderStatus `json:"status"     msgpack:"status"`
	Items     []OrderItem `json:"items"      msgpack:"items"`
	OrderedAt time.Time   `json:"ordered_at" msgpack:"ordered_at"`
}

func (*Order) EntityName() string { return "order" }

func (o *Order) GetCustomer() *Customer  { return o.customer }
func (o *Order) SetCustomer(c *Customer) { o.customer = c }

// TotalCents sums the item prices. It has no setter and is not a property.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}

	return total
}

// OrderItem represents a specific product line within an order.
// It snapshots the price at the time of purchase.
type OrderItem struct {
	ProductID int64  `json:"product_id" msgpack:"product_id"`
	Name      string `json:"name"       msgpack:"name"`
	Quantity  int    `json:"quantity"   msgpack:"quantity"`
	UnitPrice int64  `json:"unit_price" msgpack:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// EnumValues lists the statuses in lifecycle order.
func (OrderStatus) EnumValues() []any {
	return []any{StatusPending, StatusPaid, StatusShipped, StatusCancelled}
}
