package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FoodPlate is a menu item owned by the remote collection. ID is zero until the
// remote assigns one.
type FoodPlate struct {
	ID          int    `json:"id,omitempty" gorm:"primaryKey"`
	Name        string `json:"name" binding:"required"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Available   bool   `json:"available"`
}

// Draft is what the add and edit forms submit. It never carries server-owned fields.
type Draft struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// Draft strips the server-owned fields.
func (p FoodPlate) Draft() Draft {
	return Draft{
		Name:        p.Name,
		Image:       p.Image,
		Description: p.Description,
		Price:       p.Price,
	}
}

// IsZero reports whether p is the empty placeholder.
func (p FoodPlate) IsZero() bool {
	return p == FoodPlate{}
}

// PriceLabel renders the price with two decimals behind the given currency symbol.
// Prices that don't parse are shown verbatim.
func (p FoodPlate) PriceLabel(currency string) string {
	d, err := ParsePrice(p.Price)
	if err != nil {
		return fmt.Sprintf("%s %s", currency, p.Price)
	}
	return fmt.Sprintf("%s %s", currency, d.StringFixed(2))
}

// ParsePrice parses a price given as text.
func ParsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing price %q: %w", raw, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("parsing price %q: negative", raw)
	}
	return d, nil
}
