// Package model defines data structures used throughout the application.
package model

import (
	"fmt"
	"time"
)

// Product represents an insurance product in the catalog.
// FormattedPrice is derived from Price on the way out of the API and is
// never persisted.
type Product struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Coverage       string  `json:"coverage"`
	Deductible     float64 `json:"deductible"`
	FormattedPrice string  `json:"formatted_price,omitempty"`
}

// FormatPrice renders a price as a USD currency string with exactly two
// decimal digits, e.g. 125.9 -> "$125.90".
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// Formatted returns a copy of the product with FormattedPrice attached.
func (p Product) Formatted() Product {
	p.FormattedPrice = FormatPrice(p.Price)
	return p
}

// Stripped returns a copy of the product without the derived
// FormattedPrice, suitable for persistence.
func (p Product) Stripped() Product {
	p.FormattedPrice = ""
	return p
}

// Validate checks a full product record. Used after merging a partial
// update onto an existing record.
func (p *Product) Validate() *FieldError {
	if p.Name == "" {
		return missingField("name")
	}
	if p.Description == "" {
		return missingField("description")
	}
	if p.Coverage == "" {
		return missingField("coverage")
	}
	if p.Price < 0 {
		return invalidField("price", "Price must be a non-negative number")
	}
	if p.Deductible < 0 {
		return invalidField("deductible", "Deductible must be a non-negative number")
	}
	return nil
}

// ProductInput is a partial product payload. Every field is a pointer so
// that an absent field can be distinguished from a zero value, which keeps
// the merge-on-update semantics statically checkable.
type ProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Coverage    *string  `json:"coverage"`
	Deductible  *float64 `json:"deductible"`
}

// Validate checks the input for creation. Rules are applied in order and
// the first failure wins: name, description, price, and coverage must be
// present and non-empty, price must be non-negative, and deductible, when
// supplied, must be non-negative.
func (in *ProductInput) Validate() *FieldError {
	if in.Name == nil || *in.Name == "" {
		return missingField("name")
	}
	if in.Description == nil || *in.Description == "" {
		return missingField("description")
	}
	if in.Price == nil {
		return missingField("price")
	}
	if in.Coverage == nil || *in.Coverage == "" {
		return missingField("coverage")
	}
	if *in.Price < 0 {
		return invalidField("price", "Price must be a non-negative number")
	}
	if in.Deductible != nil && *in.Deductible < 0 {
		return invalidField("deductible", "Deductible must be a non-negative number")
	}
	return nil
}

// ToProduct builds a new product record from a validated creation input.
// An absent deductible defaults to 0.
func (in *ProductInput) ToProduct(id int) Product {
	p := Product{
		ID:          id,
		Name:        *in.Name,
		Description: *in.Description,
		Price:       *in.Price,
		Coverage:    *in.Coverage,
	}
	if in.Deductible != nil {
		p.Deductible = *in.Deductible
	}
	return p
}

// ApplyTo merges the supplied fields onto an existing record and returns
// the merged copy. Fields not present in the input keep their prior
// values; the id is never touched.
func (in *ProductInput) ApplyTo(p Product) Product {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Coverage != nil {
		p.Coverage = *in.Coverage
	}
	if in.Deductible != nil {
		p.Deductible = *in.Deductible
	}
	return p
}

// FieldError reports a request payload field that failed validation.
// The message is user-facing and returned verbatim in the error response.
type FieldError struct {
	Field   string
	Missing bool
	Message string
}

// Error returns the user-facing validation message.
func (e *FieldError) Error() string {
	return e.Message
}

func missingField(field string) *FieldError {
	return &FieldError{
		Field:   field,
		Missing: true,
		Message: "Missing required field: " + field,
	}
}

func invalidField(field, message string) *FieldError {
	return &FieldError{
		Field:   field,
		Message: message,
	}
}

// ErrorResponse is the JSON body returned for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProductEvent is a catalog change notification delivered over the
// events WebSocket.
type ProductEvent struct {
	Type      string    `json:"type"`
	Product   Product   `json:"product"`
	Timestamp time.Time `json:"timestamp"`
}

// Product event types.
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
)

// NewProductEvent creates a change event for the given product.
func NewProductEvent(eventType string, p Product) ProductEvent {
	return ProductEvent{
		Type:      eventType,
		Product:   p.Formatted(),
		Timestamp: time.Now().UTC(),
	}
}
