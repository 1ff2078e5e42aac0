package domain

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinPageSize = 1
	MaxPageSize = 100
	// MaxPageIndex keeps Page*Size well inside int range
	MaxPageIndex = 1_000_000
)

// PageRequest is a validated zero-based page index and size
type PageRequest struct {
	Page int
	Size int
}

func NewPageRequest(page, size int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, InvalidArgument("Page index must not be negative")
	}
	if page > MaxPageIndex {
		return PageRequest{}, InvalidArgument("Page index must not exceed %d", MaxPageIndex)
	}
	if size < MinPageSize || size > MaxPageSize {
		return PageRequest{}, InvalidArgument("Page size must be between %d and %d", MinPageSize, MaxPageSize)
	}
	return PageRequest{Page: page, Size: size}, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Page is one page of results plus the total number of matches
//
// swagger:model
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int(math.Ceil(float64(total) / float64(req.Size)))
	}
	return Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       req.Page,
		Size:       req.Size,
		TotalPages: pages,
	}
}

// ProductFilter holds the sparse filter criteria of a product query
type ProductFilter struct {
	Type        *ProductType
	Purchasable *bool
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

// PredicateKind names the query combination selected for a filter
type PredicateKind int

const (
	PredicateAll PredicateKind = iota
	PredicateType
	PredicatePurchasable
	PredicateTypePurchasable
	PredicatePriceRange
	PredicateTypePriceRange
	PredicatePurchasablePriceRange
	PredicateTypePurchasablePriceRange
)

func (k PredicateKind) String() string {
	switch k {
	case PredicateType:
		return "type"
	case PredicatePurchasable:
		return "purchasable"
	case PredicateTypePurchasable:
		return "type+purchasable"
	case PredicatePriceRange:
		return "price"
	case PredicateTypePriceRange:
		return "type+price"
	case PredicatePurchasablePriceRange:
		return "purchasable+price"
	case PredicateTypePurchasablePriceRange:
		return "type+purchasable+price"
	default:
		return "all"
	}
}

// MaxPriceSentinel stands in for an absent upper price bound
var MaxPriceSentinel = decimal.NewFromInt(math.MaxInt64)

// ProductQuery is a resolved predicate, ready for the store
type ProductQuery struct {
	Kind        PredicateKind
	Type        ProductType
	Purchasable bool
	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
}

// ResolveFilter selects the predicate for a filter. The first matching
// combination wins:
//  1. all four criteria
//  2. any price bound, with whichever of type/purchasable is present
//  3. type and purchasable
//  4. a single criterion
//  5. nothing
func ResolveFilter(f ProductFilter) (ProductQuery, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return ProductQuery{}, InvalidArgument("Minimum price cannot be greater than maximum price")
	}

	var q ProductQuery
	if f.Type != nil {
		q.Type = *f.Type
	}
	if f.Purchasable != nil {
		q.Purchasable = *f.Purchasable
	}

	switch {
	case f.Type != nil && f.Purchasable != nil && f.MinPrice != nil && f.MaxPrice != nil:
		q.Kind = PredicateTypePurchasablePriceRange
		q.MinPrice, q.MaxPrice = *f.MinPrice, *f.MaxPrice

	case f.MinPrice != nil || f.MaxPrice != nil:
		q.MinPrice, q.MaxPrice = decimal.Zero, MaxPriceSentinel
		if f.MinPrice != nil {
			q.MinPrice = *f.MinPrice
		}
		if f.MaxPrice != nil {
			q.MaxPrice = *f.MaxPrice
		}
		switch {
		case f.Type != nil && f.Purchasable != nil:
			q.Kind = PredicateTypePurchasablePriceRange
		case f.Type != nil:
			q.Kind = PredicateTypePriceRange
		case f.Purchasable != nil:
			q.Kind = PredicatePurchasablePriceRange
		default:
			q.Kind = PredicatePriceRange
		}

	case f.Type != nil && f.Purchasable != nil:
		q.Kind = PredicateTypePurchasable
	case f.Type != nil:
		q.Kind = PredicateType
	case f.Purchasable != nil:
		q.Kind = PredicatePurchasable
	default:
		q.Kind = PredicateAll
	}

	return q, nil
}

// ProductSort is a validated ordering for product listings
type ProductSort struct {
	Column string
	Desc   bool
}

var productSortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"price":     "price",
	"createdat": "created_at",
}

// DefaultProductSort orders by newest identifier first
var DefaultProductSort = ProductSort{Column: "id", Desc: true}

// ParseProductSort parses "field,direction", e.g. "price,asc"
func ParseProductSort(s string) (ProductSort, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultProductSort, nil
	}

	parts := strings.Split(s, ",")
	col, ok := productSortColumns[strings.ToLower(strings.TrimSpace(parts[0]))]
	if !ok {
		return ProductSort{}, InvalidArgument("Invalid sort field. Allowed fields: [id, name, price, createdAt]")
	}
	if len(parts) != 2 {
		return ProductSort{}, InvalidArgument("Invalid sort format. Expected 'field,direction'")
	}

	switch strings.ToLower(strings.TrimSpace(parts[1])) {
	case "asc":
		return ProductSort{Column: col}, nil
	case "desc":
		return ProductSort{Column: col, Desc: true}, nil
	default:
		return ProductSort{}, InvalidArgument("Invalid sort direction. Use 'asc' or 'desc'")
	}
}

func (s ProductSort) String() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}
