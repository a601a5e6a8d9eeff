// Package tools implements the fixed dispatch table the model's function
// calls resolve against. Every tool decodes into a typed Call variant and
// returns a Result; "not found" conditions become Result text the model can
// react to, never errors.
package tools

import "encoding/json"

// Tool names as they appear on the wire.
const (
	NameAddToQueue        = "addToQueue"
	NameSellItem          = "sellItem"
	NameViewProduct       = "viewProduct"
	NameRemoveFromQueue   = "removeFromQueue"
	NameViewQueue         = "viewQueue"
	NameCheckout          = "checkout"
	NameNavigate          = "navigate"
	NameCheckOrderStatus  = "checkOrderStatus"
	NameRecommendProducts = "recommendProducts"
	NameReplayTutorial    = "replayTutorial"
)

// Call is a decoded tool invocation. The variant set is closed; any name the
// table does not know decodes to UnknownCall.
type Call interface{ isCall() }

// AddToQueueCall queues a catalog product at the current market price.
type AddToQueueCall struct {
	ProductName string `json:"productName" jsonschema_description:"Name or id of the product to add to the purchase queue."`
}

// SellItemCall sells an owned item back to the exchange.
type SellItemCall struct {
	ProductName string `json:"productName" jsonschema_description:"Name or id of the item to sell."`
}

// ViewProductCall opens a product detail screen.
type ViewProductCall struct {
	ProductName string `json:"productName" jsonschema_description:"Name or id of the product to inspect."`
}

// RemoveFromQueueCall removes a queued product.
type RemoveFromQueueCall struct {
	ProductName string `json:"productName" jsonschema_description:"Name of the queued product to remove."`
}

// ViewQueueCall opens the purchase queue.
type ViewQueueCall struct{}

// CheckoutCall starts the checkout flow.
type CheckoutCall struct{}

// NavigateCall switches the UI to another screen.
type NavigateCall struct {
	Destination string `json:"destination" jsonschema_description:"One of: exchange, market, profile, orders, home."`
}

// CheckOrderStatusCall looks up a past order.
type CheckOrderStatusCall struct {
	TicketID string `json:"ticketId" jsonschema_description:"Exact order ticket id, e.g. TKT-001."`
}

// RecommendProductsCall searches the catalog.
type RecommendProductsCall struct {
	SearchQuery string `json:"searchQuery,omitempty" jsonschema_description:"Free-text filter over name, category and description; empty returns everything."`
}

// ReplayTutorialCall restarts onboarding.
type ReplayTutorialCall struct{}

// UnknownCall is any tool name outside the table.
type UnknownCall struct {
	Name string
}

func (AddToQueueCall) isCall() {}
func (SellItemCall) isCall() {}
func (ViewProductCall) isCall() {}
func (RemoveFromQueueCall) isCall() {}
func (ViewQueueCall) isCall() {}
func (CheckoutCall) isCall() {}
func (NavigateCall) isCall() {}
func (CheckOrderStatusCall) isCall() {}
func (RecommendProductsCall) isCall() {}
func (ReplayTutorialCall) isCall() {}
func (UnknownCall) isCall() {}

// ParseCall decodes a named invocation into its typed variant. Decoding is
// lenient: missing or malformed fields become zero values and surface as
// resolution misses downstream.
func ParseCall(name string, args json.RawMessage) Call {
	decode := func(v any) {
		if len(args) > 0 {
			_ = json.Unmarshal(args, v)
		}
	}
	switch name {
	case NameAddToQueue:
		var c AddToQueueCall
		decode(&c)
		return c
	case NameSellItem:
		var c SellItemCall
		decode(&c)
		return c
	case NameViewProduct:
		var c ViewProductCall
		decode(&c)
		return c
	case NameRemoveFromQueue:
		var c RemoveFromQueueCall
		decode(&c)
		return c
	case NameViewQueue:
		return ViewQueueCall{}
	case NameCheckout:
		return CheckoutCall{}
	case NameNavigate:
		var c NavigateCall
		decode(&c)
		return c
	case NameCheckOrderStatus:
		var c CheckOrderStatusCall
		decode(&c)
		return c
	case NameRecommendProducts:
		var c RecommendProductsCall
		decode(&c)
		return c
	case NameReplayTutorial:
		return ReplayTutorialCall{}
	default:
		return UnknownCall{Name: name}
	}
}
