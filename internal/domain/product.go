package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductType governs which product fields are mandatory or forbidden
type ProductType string

const (
	ProductTypeNew           ProductType = "NEW"
	ProductTypeUsed          ProductType = "USED"
	ProductTypeReconditioned ProductType = "RECONDITIONED"
	ProductTypePart          ProductType = "PART"
)

var productTypes = []ProductType{
	ProductTypeNew,
	ProductTypeUsed,
	ProductTypeReconditioned,
	ProductTypePart,
}

// ParseProductType accepts any casing of a known product type
func ParseProductType(s string) (ProductType, error) {
	t := ProductType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range productTypes {
		if t == known {
			return t, nil
		}
	}

	names := make([]string, len(productTypes))
	for i, known := range productTypes {
		names[i] = string(known)
	}
	return "", InvalidArgument("Invalid product type. Valid values: %s", strings.Join(names, ", "))
}

// Specifications is open-ended key/value metadata attached to a product
type Specifications map[string]any

// Product is the persisted catalog entity
type Product struct {
	ID             int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductCode    string              `gorm:"size:64;uniqueIndex;not null" json:"productCode"`
	Model          string              `gorm:"size:128" json:"model"`
	Name           string              `gorm:"size:200;not null;index" json:"name"`
	Type           ProductType         `gorm:"size:40;not null;index" json:"type"`
	Specifications datatypes.JSON      `json:"specifications"`
	Description    string              `gorm:"size:2000" json:"description"`
	ImageURL       string              `gorm:"size:1024" json:"imageUrl"`
	Price          decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"price"`
	Purchasable    bool                `gorm:"not null" json:"purchasable"`
	CategoryID     *int64              `gorm:"index" json:"categoryId"`
	Category       *Category           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// SpecificationsMap decodes the stored specifications payload.
// An empty payload decodes to an empty map.
func (p *Product) SpecificationsMap() (Specifications, error) {
	specs := Specifications{}
	if len(p.Specifications) == 0 {
		return specs, nil
	}
	if err := json.Unmarshal(p.Specifications, &specs); err != nil {
		return Specifications{}, err
	}
	if specs == nil {
		specs = Specifications{}
	}
	return specs, nil
}

// SetSpecifications serializes specs into the stored payload; nil clears it
func (p *Product) SetSpecifications(specs Specifications) error {
	if specs == nil {
		p.Specifications = nil
		return nil
	}
	b, err := json.Marshal(specs)
	if err != nil {
		return InvalidArgument("Invalid specifications format")
	}
	p.Specifications = datatypes.JSON(b)
	return nil
}

// ProductView is the normalized representation returned to API clients
//
// swagger:model
type ProductView struct {
	// required: true
	// example: 1
	ID int64 `json:"id"`

	// example: HP-EB-840
	ProductCode string `json:"productCode"`

	// example: EliteBook 840 G5
	Model string `json:"model"`

	// example: Laptop
	Name string `json:"name"`

	// enum: NEW,USED,RECONDITIONED,PART
	Type ProductType `json:"type"`

	Specifications Specifications `json:"specifications"`

	Description string `json:"description"`

	ImageURL string `json:"imageUrl"`

	// Absent for NEW products
	// example: 29.99
	Price *decimal.Decimal `json:"price"`

	Purchasable bool `json:"purchasable"`

	CategoryID *int64 `json:"categoryId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
