package models

import "strings"

// Item types accepted by the catalog.
const (
	ItemTypePiece  = "Piece"
	ItemTypeSolid  = "Solid"
	ItemTypeLiquid = "Liquid"
	ItemTypePack   = "Pack"
)

// ProductItem is a single entry in a category's item container, stored under a
// generated item key such as "item_1700000000000".
type ProductItem struct {
	Name         string  `json:"name" mapstructure:"name" validate:"required"`
	Description  string  `json:"description" mapstructure:"description"`
	Price        float64 `json:"price" mapstructure:"price" validate:"gt=0"`
	TotalStocks  int     `json:"totalStocks" mapstructure:"totalStocks" validate:"gte=0"`
	PhotoURL     string  `json:"photoUrl" mapstructure:"photoUrl"`
	Discount     float64 `json:"discount" mapstructure:"discount" validate:"gte=0,lte=100"`
	CartQuantity int     `json:"cartQuantity" mapstructure:"cartQuantity" validate:"gte=0"`
	CategoryID   string  `json:"categoryId" mapstructure:"categoryId"`
	IsWishlist   bool    `json:"isWishlist" mapstructure:"isWishlist"`
	ItemID       string  `json:"itemId" mapstructure:"itemId" validate:"required"`
	Quantity     int     `json:"quantity" mapstructure:"quantity" validate:"gte=1"`
	Type         string  `json:"type" mapstructure:"type" validate:"required,oneof=Piece Solid Liquid Pack"`
}

// Normalize trims free-text fields so blank input fails the required checks.
func (p *ProductItem) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.ItemID = strings.TrimSpace(p.ItemID)
	p.PhotoURL = strings.TrimSpace(p.PhotoURL)
	p.Type = strings.TrimSpace(p.Type)
}

// Fields returns the stored representation of the item.
func (p ProductItem) Fields() map[string]interface{} {
	return map[string]interface{}{
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price,
		"totalStocks":  p.TotalStocks,
		"photoUrl":     p.PhotoURL,
		"discount":     p.Discount,
		"cartQuantity": p.CartQuantity,
		"categoryId":   p.CategoryID,
		"isWishlist":   p.IsWishlist,
		"itemId":       p.ItemID,
		"quantity":     p.Quantity,
		"type":         p.Type,
	}
}

// ProductRecord is the flattened view of an item: the container document ID and
// the item key together identify it.
type ProductRecord struct {
	ID      string `json:"id"`
	ItemKey string `json:"itemKey"`
	ProductItem
}
