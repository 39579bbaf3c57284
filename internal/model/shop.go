// Package model defines the shared data types for the bridge: store records
// read from WooCommerce, the conversational agent's webhook envelope, and the
// structured error taxonomy.
package model

import "encoding/json"

// Product is a WooCommerce REST product record.
// Only the fields the bridge reads are typed; the full upstream document is
// kept so direct API consumers receive it unmodified.
type Product struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Permalink   string        `json:"permalink"`
	Price       string        `json:"price"` // "19.99" - string decimal
	Status      string        `json:"status"`
	StockStatus string        `json:"stock_status"`
	Categories  []CategoryRef `json:"categories,omitempty"`
	raw         json.RawMessage
}

// CategoryRef is the abbreviated category embedded in a product.
type CategoryRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category is a WooCommerce product category.
type Category struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Parent int    `json:"parent"`
	Count  int    `json:"count"`
	raw    json.RawMessage
}

// Order is a WooCommerce REST order record.
// Status is one of pending, processing, on-hold, completed, cancelled,
// refunded, failed, or a custom status registered by the store.
type Order struct {
	ID          int    `json:"id"`
	Number      string `json:"number"`
	Status      string `json:"status"`
	Currency    string `json:"currency"`
	Total       string `json:"total"`
	DateCreated string `json:"date_created"`
	raw         json.RawMessage
}

func (p *Product) UnmarshalJSON(data []byte) error {
	type product Product
	var v product
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Product(v)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the upstream document when one was decoded.
func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	type product Product
	return json.Marshal(product(p))
}

func (c *Category) UnmarshalJSON(data []byte) error {
	type category Category
	var v category
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Category(v)
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the upstream document when one was decoded.
func (c Category) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	type category Category
	return json.Marshal(category(c))
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type order Order
	var v order
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Order(v)
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the upstream document when one was decoded.
func (o Order) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	type order Order
	return json.Marshal(order(o))
}
