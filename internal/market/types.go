// Package market holds the storefront domain the assistant orchestrates
// against: catalog items, orders, the per-call state snapshot, and the
// action-handler boundary supplied by the hosting application.
package market

import "time"

// Item is a catalog reference: identity plus the fields needed for matching
// and display.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// Order is a completed purchase, addressable by its ticket id.
type Order struct {
	TicketID string    `json:"ticket_id"`
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Placed   time.Time `json:"placed"`
}

// Mission is an onboarding/progression entry included in the snapshot so the
// model can reference it.
type Mission struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// User is the active account.
type User struct {
	Handle  string  `json:"handle"`
	Credits float64 `json:"credits"`
}

// View names a storefront screen.
type View string

const (
	ViewExchange View = "exchange"
	ViewMarket   View = "market"
	ViewProfile  View = "profile"
	ViewOrders   View = "orders"
	ViewHome     View = "home"
	ViewCart     View = "cart"
	ViewProduct  View = "product"
)

// NavigableViews are the destinations the navigate tool accepts.
var NavigableViews = []View{ViewExchange, ViewMarket, ViewProfile, ViewOrders, ViewHome}

// Snapshot is the read-only state bundle passed to the model and to every
// tool handler. The engine re-reads it before each model call and each
// dispatch, so mid-chain cart mutations are visible to later calls.
type Snapshot struct {
	User     User               `json:"user"`
	Catalog  []Item             `json:"catalog"`
	Cart     []Item             `json:"cart"`
	Orders   []Order            `json:"orders"`
	Prices   map[string]float64 `json:"prices"`
	Missions []Mission          `json:"missions"`
	Language string             `json:"language"`
	View     View               `json:"view"`
}

// Actions is the hosting application's mutation and navigation boundary. A
// returned error is an internal fault and aborts the whole chain; "not found"
// conditions never reach these methods (the dispatch table encodes them as
// text before calling in).
type Actions interface {
	AddToCart(item Item, price float64) error
	RemoveFromCart(index int) error
	Sell(item Item) error
	OpenCart() error
	Checkout() error
	SetView(view View) error
	ShowProduct(item Item) error
	ReplayTutorial() error
}
