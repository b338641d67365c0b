package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSummary is the live view of a product shown next to a cart line.
type ProductSummary struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type CartLine struct {
	Item    CartItem       `json:"item"`
	Product ProductSummary `json:"product"`
}

type CartSummary struct {
	Cart      Cart            `json:"cart"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"totalPrice"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Item.Quantity)))
}

// Total sums quantity * current price over all lines.
func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func Summarize(cart Cart, lines []CartLine) CartSummary {
	return CartSummary{
		Cart:      cart,
		ItemCount: len(lines),
		Total:     Total(lines),
	}
}

// JoinLines pairs items with their products, keeping item order. Items whose
// product no longer exists are dropped, as an inner join would.
func JoinLines(items []CartItem, products []Product) []CartLine {
	byID := make(map[uuid.UUID]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{
			Item: it,
			Product: ProductSummary{
				ID:    p.ID,
				Name:  p.Name,
				Price: p.Price,
				Image: p.Image,
			},
		})
	}
	return lines
}
