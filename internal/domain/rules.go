package domain

import (
	"github.com/shopspring/decimal"
)

// ProductFields is the type-governed part of a product, normalized and
// ready to be persisted.
type ProductFields struct {
	Type           ProductType
	Price          decimal.NullDecimal
	Purchasable    bool
	Specifications Specifications
}

// ValidateForCreate checks the per-type invariants of a new product.
// Purchasable defaults to false when not supplied and is always false for NEW products.
func ValidateForCreate(typ string, price decimal.NullDecimal, purchasable *bool, specs Specifications) (ProductFields, error) {
	t, err := ParseProductType(typ)
	if err != nil {
		return ProductFields{}, err
	}

	out := ProductFields{Type: t, Specifications: specs}

	if t == ProductTypeNew {
		if price.Valid {
			return ProductFields{}, RuleViolation("NEW products cannot have a price")
		}
		out.Purchasable = false
		return out, nil
	}

	if !price.Valid {
		return ProductFields{}, RuleViolation("%s products require a price", t)
	}
	if t == ProductTypeReconditioned && len(specs) == 0 {
		return ProductFields{}, RuleViolation("Reconditioned products require specifications")
	}

	out.Price = price
	if purchasable != nil {
		out.Purchasable = *purchasable
	}
	return out, nil
}

// ProductPatch is a sparse update request. Absent fields leave the stored
// attribute unchanged.
type ProductPatch struct {
	Type           Optional[string]          `json:"type"`
	Name           Optional[string]          `json:"name"`
	Description    Optional[string]          `json:"description"`
	ProductCode    Optional[string]          `json:"productCode"`
	Model          Optional[string]          `json:"model"`
	Price          Optional[decimal.Decimal] `json:"price"`
	Purchasable    Optional[bool]            `json:"purchasable"`
	Specifications Optional[Specifications]  `json:"specifications"`
	CategoryID     Optional[int64]           `json:"categoryId"`
}

// ValidateForUpdate checks a patch against the stored product. The stored type
// governs every rule; the returned patch holds the accepted deltas.
func ValidateForUpdate(existing *Product, patch ProductPatch) (ProductPatch, error) {
	if patch.Type.Present() {
		t, err := ParseProductType(patch.Type.Value)
		if err != nil {
			return ProductPatch{}, err
		}
		if t != existing.Type {
			return ProductPatch{}, RuleViolation("Product type cannot be changed")
		}
	}

	out := patch
	out.Type = Optional[string]{}
	specsEmpty := patch.Specifications.Set && len(patch.Specifications.Value) == 0

	switch existing.Type {
	case ProductTypeNew:
		if patch.Price.Present() {
			return ProductPatch{}, RuleViolation("NEW products cannot have a price")
		}
		if patch.Purchasable.Present() && patch.Purchasable.Value {
			return ProductPatch{}, RuleViolation("NEW products must remain non-purchasable")
		}
		if specsEmpty {
			return ProductPatch{}, RuleViolation("NEW products must have specifications")
		}
		out.Price = Null[decimal.Decimal]()
		out.Purchasable = Some(false)

	case ProductTypeUsed, ProductTypeReconditioned, ProductTypePart:
		if patch.Price.Null || (!patch.Price.Set && !existing.Price.Valid) {
			return ProductPatch{}, RuleViolation("%s products must have a price", existing.Type)
		}
		if existing.Type == ProductTypeReconditioned && specsEmpty {
			return ProductPatch{}, RuleViolation("Reconditioned products require specifications")
		}

	default:
		return ProductPatch{}, InvalidArgument("Unknown stored product type: %s", existing.Type)
	}

	if patch.Name.Set && (patch.Name.Null || patch.Name.Value == "") {
		return ProductPatch{}, InvalidArgument("name cannot be empty")
	}
	if patch.ProductCode.Set && (patch.ProductCode.Null || patch.ProductCode.Value == "") {
		return ProductPatch{}, InvalidArgument("product code cannot be empty")
	}

	return out, nil
}

// ApplyPatch merges accepted deltas into the product. Explicit nulls clear
// nullable attributes.
func ApplyPatch(p *Product, patch ProductPatch) error {
	if patch.Name.Present() {
		p.Name = patch.Name.Value
	}
	if patch.Description.Set {
		p.Description = patch.Description.Value
	}
	if patch.ProductCode.Present() {
		p.ProductCode = patch.ProductCode.Value
	}
	if patch.Model.Set {
		p.Model = patch.Model.Value
	}
	if patch.Price.Set {
		p.Price = decimal.NullDecimal{Decimal: patch.Price.Value, Valid: !patch.Price.Null}
	}
	if patch.Purchasable.Set {
		p.Purchasable = patch.Purchasable.Value
	}
	if patch.Specifications.Set {
		if patch.Specifications.Null {
			return p.SetSpecifications(nil)
		}
		if err := p.SetSpecifications(patch.Specifications.Value); err != nil {
			return err
		}
	}
	if patch.CategoryID.Set {
		if patch.CategoryID.Null {
			p.CategoryID = nil
		} else {
			id := patch.CategoryID.Value
			p.CategoryID = &id
		}
	}
	return nil
}
