// backend-go/internal/service/catalog.go
package service

import (
	"github.com/shoplens/backend-go/internal/domain"
	"github.com/shoplens/backend-go/internal/normalize"
)

// catalogIndex resolves normalized SKUs to their variant and parent product.
// The SKU join is soft: forecasts and purchase orders carry no foreign key
// into the catalog, so every lookup has an explicit "no match" path that
// yields empty enrichment fields instead of an error.
type catalogIndex struct {
	variants map[string]domain.Variant
	products map[int64]domain.Product
}

func newCatalogIndex(variants []domain.Variant, products []domain.Product) *catalogIndex {
	idx := &catalogIndex{
		variants: make(map[string]domain.Variant, len(variants)),
		products: make(map[int64]domain.Product, len(products)),
	}
	for _, v := range variants {
		idx.variants[normalize.SKU(v.SKU)] = v
	}
	for _, p := range products {
		idx.products[p.ExternalID] = p
	}
	return idx
}

// skuInfo carries the enrichment fields for one SKU.
type skuInfo struct {
	ProductTitle  string
	VariantTitle  string
	Category      *string
	Price         float64
	LiveInventory *int
}

func (idx *catalogIndex) lookup(rawSKU string) skuInfo {
	var info skuInfo

	variant, ok := idx.variants[normalize.SKU(rawSKU)]
	if !ok {
		return info
	}

	info.VariantTitle = variant.Title
	info.Price = variant.Price
	info.LiveInventory = variant.InventoryQuantity

	if product, ok := idx.products[variant.ProductID]; ok {
		info.ProductTitle = product.Title
		if product.ProductType != "" {
			category := product.ProductType
			info.Category = &category
		}
	}

	return info
}

// priceBySKU returns a normalized-SKU to price map used by the predicted
// revenue trend.
func (idx *catalogIndex) priceBySKU() map[string]float64 {
	prices := make(map[string]float64, len(idx.variants))
	for sku, v := range idx.variants {
		prices[sku] = v.Price
	}
	return prices
}
