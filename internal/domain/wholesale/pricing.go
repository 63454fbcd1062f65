package wholesale

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedProduct is the pricing view of a catalog product
type PricedProduct struct {
	ProductID       uuid.UUID
	Price           decimal.Decimal
	WholesalePrice  *decimal.Decimal
	MinWholesaleQty *int
}

// ResolvedPrice is the price a caller should see for a product
type ResolvedPrice struct {
	ProductID       uuid.UUID       `json:"productId"`
	Price           decimal.Decimal `json:"price"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	IsWholesale     bool            `json:"isWholesale"`
	MinWholesaleQty *int            `json:"minWholesaleQty,omitempty"`
}

// Resolve prices products for the holder of a link. A nil link means no valid
// token was presented and every product is priced at retail.
//
// A product's own wholesale price wins over the link discount and carries the
// product's minimum quantity. Otherwise a positive link discount is applied to
// the retail price with a minimum quantity of one.
func Resolve(products []PricedProduct, link *Link) []ResolvedPrice {
	out := make([]ResolvedPrice, 0, len(products))
	for _, p := range products {
		out = append(out, resolveOne(p, link))
	}
	return out
}

func resolveOne(p PricedProduct, link *Link) ResolvedPrice {
	retail := ResolvedPrice{
		ProductID:     p.ProductID,
		Price:         p.Price,
		OriginalPrice: p.Price,
	}
	if link == nil {
		return retail
	}

	if p.WholesalePrice != nil && p.WholesalePrice.IsPositive() {
		return ResolvedPrice{
			ProductID:       p.ProductID,
			Price:           *p.WholesalePrice,
			OriginalPrice:   p.Price,
			IsWholesale:     true,
			MinWholesaleQty: p.MinWholesaleQty,
		}
	}

	if link.Discount.IsPositive() {
		one := 1
		factor := decimal.NewFromInt(1).Sub(link.Discount.Div(hundred))
		return ResolvedPrice{
			ProductID:       p.ProductID,
			Price:           p.Price.Mul(factor).Round(2),
			OriginalPrice:   p.Price,
			IsWholesale:     true,
			MinWholesaleQty: &one,
		}
	}

	return retail
}
