package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func boolPtr(b bool) *bool { return &b }

func TestValidateForCreate(t *testing.T) {
	specs := Specifications{"cpu": "i7"}

	testCases := []struct {
		name        string
		typ         string
		price       decimal.NullDecimal
		purchasable *bool
		specs       Specifications
		wantKind    error
		wantMsg     string
	}{
		{"NEW with price", "NEW", price("50"), nil, nil, ErrDomainValidation, "NEW products cannot have a price"},
		{"USED without price", "USED", decimal.NullDecimal{}, nil, nil, ErrDomainValidation, "USED products require a price"},
		{"PART without price", "part", decimal.NullDecimal{}, nil, nil, ErrDomainValidation, "PART products require a price"},
		{"RECONDITIONED empty specs", "RECONDITIONED", price("10"), nil, Specifications{}, ErrDomainValidation, "Reconditioned products require specifications"},
		{"RECONDITIONED nil specs", "RECONDITIONED", price("10"), nil, nil, ErrDomainValidation, "Reconditioned products require specifications"},
		{"unknown type", "BROKEN", price("10"), nil, nil, ErrInvalidArgument, ""},
		{"NEW valid", "NEW", decimal.NullDecimal{}, boolPtr(true), nil, nil, ""},
		{"USED valid", "USED", price("29.99"), boolPtr(true), nil, nil, ""},
		{"RECONDITIONED valid", "RECONDITIONED", price("99"), nil, specs, nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ValidateForCreate(tc.typ, tc.price, tc.purchasable, tc.specs)
			if tc.wantKind != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantKind), "unexpected kind: %v", err)
				if tc.wantMsg != "" {
					assert.Equal(t, tc.wantMsg, err.Error())
				}
				return
			}
			require.NoError(t, err)
			if out.Type == ProductTypeNew {
				assert.False(t, out.Price.Valid)
				assert.False(t, out.Purchasable)
			} else {
				assert.True(t, out.Price.Valid)
			}
		})
	}
}

func TestValidateForCreate_PurchasableDefaultsToFalse(t *testing.T) {
	out, err := ValidateForCreate("USED", price("5"), nil, nil)
	require.NoError(t, err)
	assert.False(t, out.Purchasable)
}

func TestValidateForUpdate(t *testing.T) {
	newProduct := &Product{Type: ProductTypeNew}
	usedProduct := &Product{Type: ProductTypeUsed, Price: price("10")}
	unpricedUsed := &Product{Type: ProductTypeUsed}
	recond := &Product{Type: ProductTypeReconditioned, Price: price("10")}

	testCases := []struct {
		name     string
		existing *Product
		patch    ProductPatch
		wantMsg  string
	}{
		{"type change rejected first", newProduct, ProductPatch{Type: Some("USED"), Price: Some(decimal.NewFromInt(5))}, "Product type cannot be changed"},
		{"same type in any case accepted", usedProduct, ProductPatch{Type: Some("used")}, ""},
		{"NEW with price", newProduct, ProductPatch{Price: Some(decimal.NewFromInt(1))}, "NEW products cannot have a price"},
		{"NEW purchasable", newProduct, ProductPatch{Purchasable: Some(true)}, "NEW products must remain non-purchasable"},
		{"NEW explicit empty specs", newProduct, ProductPatch{Specifications: Some(Specifications{})}, "NEW products must have specifications"},
		{"NEW omitted specs", newProduct, ProductPatch{Name: Some("x")}, ""},
		{"NEW explicit null price", newProduct, ProductPatch{Price: Null[decimal.Decimal]()}, ""},
		{"USED keeps stored price", usedProduct, ProductPatch{Name: Some("x")}, ""},
		{"USED clearing price", usedProduct, ProductPatch{Price: Null[decimal.Decimal]()}, "USED products must have a price"},
		{"USED no price anywhere", unpricedUsed, ProductPatch{}, "USED products must have a price"},
		{"USED supplies missing price", unpricedUsed, ProductPatch{Price: Some(decimal.NewFromInt(3))}, ""},
		{"RECONDITIONED empty specs", recond, ProductPatch{Specifications: Some(Specifications{})}, "Reconditioned products require specifications"},
		{"RECONDITIONED null specs", recond, ProductPatch{Specifications: Null[Specifications]()}, "Reconditioned products require specifications"},
		{"RECONDITIONED omitted specs", recond, ProductPatch{Price: Some(decimal.NewFromInt(12))}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateForUpdate(tc.existing, tc.patch)
			if tc.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDomainValidation)
			assert.Equal(t, tc.wantMsg, err.Error())
		})
	}
}

func TestValidateForUpdate_UnknownIncomingType(t *testing.T) {
	_, err := ValidateForUpdate(&Product{Type: ProductTypeUsed, Price: price("1")}, ProductPatch{Type: Some("VINTAGE")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestValidateForUpdate_NewStaysUnpricedAndNotPurchasable(t *testing.T) {
	p := &Product{Type: ProductTypeNew, Name: "Printer"}
	accepted, err := ValidateForUpdate(p, ProductPatch{Purchasable: Some(false), Name: Some("Printer X")})
	require.NoError(t, err)
	require.NoError(t, ApplyPatch(p, accepted))

	assert.Equal(t, "Printer X", p.Name)
	assert.False(t, p.Price.Valid)
	assert.False(t, p.Purchasable)
	assert.Equal(t, ProductTypeNew, p.Type)
}

func TestApplyPatch_PartialUpdate(t *testing.T) {
	cat := int64(3)
	p := &Product{
		Name:        "Drill",
		Description: "Cordless",
		Model:       "D-1",
		ProductCode: "DR-1",
		Type:        ProductTypeUsed,
		Price:       price("40"),
		CategoryID:  &cat,
	}
	require.NoError(t, p.SetSpecifications(Specifications{"volts": float64(18)}))

	patch := ProductPatch{
		Price:       Some(decimal.RequireFromString("35.50")),
		Description: Null[string](),
	}
	accepted, err := ValidateForUpdate(p, patch)
	require.NoError(t, err)
	require.NoError(t, ApplyPatch(p, accepted))

	assert.Equal(t, "Drill", p.Name)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "D-1", p.Model)
	assert.True(t, p.Price.Decimal.Equal(decimal.RequireFromString("35.5")))
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, int64(3), *p.CategoryID)

	specs, err := p.SpecificationsMap()
	require.NoError(t, err)
	assert.Equal(t, float64(18), specs["volts"])
}

func TestSpecificationsMap_Malformed(t *testing.T) {
	p := &Product{Specifications: []byte("{not json")}
	specs, err := p.SpecificationsMap()
	assert.Error(t, err)
	assert.Empty(t, specs)
}
