package domain

import (
	"time"
)

// Product is the catalog record a cart item is created from. Display fields
// are snapshotted onto the item at add time and not kept in sync with later
// catalog changes.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	ImageURL string  `json:"image_url,omitempty"`
}

// CartItem represents one product line in the pending order
type CartItem struct {
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url,omitempty"`
	UnitPrice  float64   `json:"unit_price"`
	Quantity   int       `json:"quantity"`
	StockLimit int       `json:"stock_limit"`
	AddedAt    time.Time `json:"added_at"`
}

// Subtotal returns unit price times quantity for this line.
func (i CartItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// CartSnapshot is the full cart state written to storage on every mutation.
// Seq orders snapshots logically so a slow earlier write cannot clobber a
// faster later one.
type CartSnapshot struct {
	Items      []CartItem `json:"items"`
	Seq        uint64     `json:"seq"`
	CapturedAt time.Time  `json:"captured_at"`
}

// PushToken represents the device's current push delivery token
type PushToken struct {
	Value                 string    `json:"value"`
	RegisteredWithBackend bool      `json:"registered_with_backend"`
	LastRefreshedAt       time.Time `json:"last_refreshed_at"`
}

// NotificationContent is the optional display block of a push message.
// Data-only pushes omit it.
type NotificationContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PayloadData is the application-defined data map of a push message
type PayloadData struct {
	Type      string `json:"type"`
	OrderID   string `json:"orderId,omitempty"`
	ProductID string `json:"productId,omitempty"`
	Link      string `json:"link,omitempty"`
}

// NotificationPayload is the structured message delivered by the push system
type NotificationPayload struct {
	Notification *NotificationContent `json:"notification,omitempty"`
	Data         PayloadData          `json:"data"`
}

// NavigationTarget identifies the screen a payload resolves to, plus its
// parameters. Consumed by the navigation collaborator; this core never
// performs the navigation itself.
type NavigationTarget struct {
	Screen Screen            `json:"screen"`
	Params map[string]string `json:"params,omitempty"`
}
