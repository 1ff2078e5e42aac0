package domain

import "time"

// Category groups products; a product holds a non-owning reference to it
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Products  []Product `gorm:"foreignKey:CategoryID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
