package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNewPageRequest(t *testing.T) {
	testCases := []struct {
		page, size int
		valid      bool
	}{
		{0, 1, true},
		{3, 100, true},
		{0, 0, false},
		{0, 101, false},
		{-1, 10, false},
		{MaxPageIndex, 100, true},
		{MaxPageIndex + 1, 10, false},
		{math.MaxInt, 100, false},
	}

	for _, tc := range testCases {
		_, err := NewPageRequest(tc.page, tc.size)
		if tc.valid {
			assert.NoError(t, err, "page=%d size=%d", tc.page, tc.size)
		} else {
			assert.ErrorIs(t, err, ErrInvalidArgument, "page=%d size=%d", tc.page, tc.size)
		}
	}
}

func TestPageRequest_OffsetAtLimit(t *testing.T) {
	pr, err := NewPageRequest(MaxPageIndex, MaxPageSize)
	require.NoError(t, err)
	assert.Equal(t, MaxPageIndex*MaxPageSize, pr.Offset())
	assert.Positive(t, pr.Offset())
}

func TestResolveFilter_InvertedRange(t *testing.T) {
	_, err := ResolveFilter(ProductFilter{MinPrice: dec("100"), MaxPrice: dec("50")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, "Minimum price cannot be greater than maximum price", err.Error())
}

func TestResolveFilter_Priority(t *testing.T) {
	used := ProductTypeUsed
	yes := true

	testCases := []struct {
		name   string
		filter ProductFilter
		kind   PredicateKind
	}{
		{"nothing", ProductFilter{}, PredicateAll},
		{"type only", ProductFilter{Type: &used}, PredicateType},
		{"purchasable only", ProductFilter{Purchasable: &yes}, PredicatePurchasable},
		{"type and purchasable", ProductFilter{Type: &used, Purchasable: &yes}, PredicateTypePurchasable},
		{"min only", ProductFilter{MinPrice: dec("5")}, PredicatePriceRange},
		{"max with type", ProductFilter{Type: &used, MaxPrice: dec("5")}, PredicateTypePriceRange},
		{"min with purchasable", ProductFilter{Purchasable: &yes, MinPrice: dec("5")}, PredicatePurchasablePriceRange},
		{"one bound with both flags", ProductFilter{Type: &used, Purchasable: &yes, MinPrice: dec("5")}, PredicateTypePurchasablePriceRange},
		{"all four", ProductFilter{Type: &used, Purchasable: &yes, MinPrice: dec("5"), MaxPrice: dec("6")}, PredicateTypePurchasablePriceRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := ResolveFilter(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, q.Kind, "got %s", q.Kind)
		})
	}
}

func TestResolveFilter_DefaultBounds(t *testing.T) {
	q, err := ResolveFilter(ProductFilter{MaxPrice: dec("20")})
	require.NoError(t, err)
	assert.True(t, q.MinPrice.Equal(decimal.Zero))
	assert.True(t, q.MaxPrice.Equal(decimal.RequireFromString("20")))

	q, err = ResolveFilter(ProductFilter{MinPrice: dec("20")})
	require.NoError(t, err)
	assert.True(t, q.MaxPrice.Equal(MaxPriceSentinel))
}

func TestParseProductSort(t *testing.T) {
	s, err := ParseProductSort("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProductSort, s)

	s, err = ParseProductSort("createdAt,asc")
	require.NoError(t, err)
	assert.Equal(t, "created_at ASC", s.String())

	for _, bad := range []string{"stock,asc", "price", "price,up"} {
		_, err := ParseProductSort(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument, bad)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[int](nil, 21, PageRequest{Page: 0, Size: 10})
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Items)
}
