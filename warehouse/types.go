package warehouse

import (
	"fmt"
	"time"
)

// Address represents a physical or billing/shipping address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
}

// Audit records modification times. Embedded through a pointer so that an
// unaudited record carries no timestamps at all.
type Audit struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location is a storage place inside a site.
type Location interface {
	fmt.Stringer
}

// Bin is the usual Location.
type Bin struct {
	Aisle int
	Shelf int
}

func (b Bin) String() string { return fmt.Sprintf("A%02d-S%02d", b.Aisle, b.Shelf) }

// Site is a warehouse building. It has to be created with a code.
type Site struct {
	*Audit

	code    string
	Address Address `json:"address"`
}

// NewSite creates a site identified by code.
func NewSite(code string) *Site {
	return &Site{code: code}
}

// Code returns the site code. Sites are never renamed, so there is no
// setter and Code is read-only.
func (s *Site) Code() string { return s.code }

// Order is an outbound order picked in a site.
type Order struct {
	*Audit

	OrderNumber string      `json:"order_number"`
	Site        *Site       `json:"site"`
	Items       []OrderItem `json:"items"`
	ShippedAt   *time.Time  `json:"shipped_at,omitempty"`
	Parent      *Order      `json:"parent,omitempty"`

	location Location
	weight   float64
}

func (o *Order) GetLocation() Location  { return o.location }
func (o *Order) SetLocation(l Location) { o.location = l }

// Weight is in grams.
func (o *Order) Weight() float64     { return o.weight }
func (o *Order) SetWeight(w float64) { o.weight = w }

// OrderItem is a line item within an order.
type OrderItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Picked   bool   `json:"picked"`
}

// IsPicked reports whether the item left its bin.
func (i *OrderItem) IsPicked() bool { return i.Picked }

// SetPicked marks the item.
func (i *OrderItem) SetPicked(p bool) { i.Picked = p }
