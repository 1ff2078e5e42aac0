package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a registered customer or administrator
type User struct {
	ID                      int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                    string      `gorm:"size:200;not null" json:"name"`
	Email                   string      `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password                string      `gorm:"size:255;not null" json:"-"`
	PhoneNumber             string      `gorm:"size:32" json:"phoneNumber"`
	Role                    Role        `gorm:"size:16;not null" json:"role"`
	Enabled                 bool        `gorm:"not null" json:"enabled"`
	VerificationToken       *string     `gorm:"size:64;index" json:"-"`
	VerificationTokenExpiry *time.Time  `json:"-"`
	Address                 *Address    `json:"address,omitempty"`
	OrderItems              []OrderItem `json:"orderItems,omitempty"`
	CreatedAt               time.Time   `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// Address is the single shipping address of a user
type Address struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID  int64  `gorm:"not null;uniqueIndex" json:"-"`
	Street  string `gorm:"size:255" json:"street"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	ZipCode string `gorm:"size:20" json:"zipCode"`
	Country string `gorm:"size:100" json:"country"`
}

func (Address) TableName() string {
	return "addresses"
}

// Principal identifies the authenticated caller of a service operation
type Principal struct {
	UserID int64
	Email  string
	Role   Role
}

func (p Principal) IsAdmin() bool {
	return strings.EqualFold(string(p.Role), string(RoleAdmin))
}
