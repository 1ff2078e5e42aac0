package events

// Actor fields are tagged "-" so they never reach websocket clients.

type ProductAdded struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	ActorEmail string `json:"-"`
}

type ProductUpdated struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	ActorEmail string `json:"-"`
}

type ProductDeleted struct {
	ProductID  int64  `json:"product_id"`
	Name       string `json:"name"`
	ActorEmail string `json:"-"`
}

type OrderPlaced struct {
	OrderID    int64  `json:"order_id"`
	UserID     int64  `json:"user_id"`
	ItemCount  int    `json:"item_count"`
	TotalPrice string `json:"total_price"`
}

type OrderItemStatusChanged struct {
	ItemID int64  `json:"item_id"`
	Status string `json:"status"`
}

// UserRegistered is internal only; it carries the verification token
type UserRegistered struct {
	UserID int64
	Email  string
	Name   string
	Token  string
}
