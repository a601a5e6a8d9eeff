package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/obsidian-exchange/clerk-go/internal/logger"
	"github.com/obsidian-exchange/clerk-go/internal/market"
)

// UnknownProtocolText is the fixed reply for tool names outside the table.
const UnknownProtocolText = "Error: Unknown Protocol."

const maxRecommendations = 3

// Result is the universal handler return shape: text fed back to the model,
// plus catalog items to attach to the transcript.
type Result struct {
	Text  string
	Items []market.Item
}

// Dispatcher resolves decoded calls against the current snapshot and the
// hosting application's action handlers.
type Dispatcher struct {
	Actions market.Actions
}

// Dispatch runs one tool call against the snapshot. Resolution misses are
// encoded in Result.Text so the model can ask the user to clarify; a non-nil
// error means an action handler itself failed and aborts the whole chain.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage, snap *market.Snapshot) (Result, error) {
	switch c := ParseCall(name, args).(type) {
	case AddToQueueCall:
		return d.addToQueue(c, snap)
	case SellItemCall:
		return d.sellItem(c, snap)
	case ViewProductCall:
		return d.viewProduct(c, snap)
	case RemoveFromQueueCall:
		return d.removeFromQueue(c, snap)
	case ViewQueueCall:
		return d.viewQueue(snap)
	case CheckoutCall:
		return d.checkout()
	case NavigateCall:
		return d.navigate(c)
	case CheckOrderStatusCall:
		return d.checkOrderStatus(c, snap)
	case RecommendProductsCall:
		return d.recommendProducts(c, snap)
	case ReplayTutorialCall:
		return d.replayTutorial()
	case UnknownCall:
		logger.L.Warn("unknown tool requested", "tool", c.Name)
		return Result{Text: UnknownProtocolText}, nil
	}
	return Result{Text: UnknownProtocolText}, nil
}

func (d *Dispatcher) addToQueue(c AddToQueueCall, snap *market.Snapshot) (Result, error) {
	item, ok := MatchItem(snap.Catalog, c.ProductName)
	if !ok {
		return Result{Text: fmt.Sprintf("Error: Product matching %q not found in database.", c.ProductName)}, nil
	}
	price, ok := snap.Prices[item.ID]
	if !ok {
		price = item.Price
	}
	if err := d.Actions.AddToCart(item, price); err != nil {
		return Result{}, err
	}
	return Result{
		Text:  fmt.Sprintf("%s added to queue at %.2f credits.", item.Name, price),
		Items: []market.Item{item},
	}, nil
}

func (d *Dispatcher) sellItem(c SellItemCall, snap *market.Snapshot) (Result, error) {
	item, ok := MatchItem(snap.Catalog, c.ProductName)
	if !ok {
		return Result{Text: "Error: Item not found or not identified."}, nil
	}
	if err := d.Actions.Sell(item); err != nil {
		return Result{}, err
	}
	return Result{Text: fmt.Sprintf("%s sold at market price.", item.Name)}, nil
}

func (d *Dispatcher) viewProduct(c ViewProductCall, snap *market.Snapshot) (Result, error) {
	item, ok := MatchItem(snap.Catalog, c.ProductName)
	if !ok {
		return Result{Text: fmt.Sprintf("Error: Product matching %q not found in database.", c.ProductName)}, nil
	}
	if err := d.Actions.ShowProduct(item); err != nil {
		return Result{}, err
	}
	return Result{
		Text:  fmt.Sprintf("Showing %s.", item.Name),
		Items: []market.Item{item},
	}, nil
}

func (d *Dispatcher) removeFromQueue(c RemoveFromQueueCall, snap *market.Snapshot) (Result, error) {
	needle := strings.ToLower(c.ProductName)
	index := -1
	for i, it := range snap.Cart {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			index = i
			break
		}
	}
	if index < 0 {
		return Result{Text: fmt.Sprintf("Error: Product matching %q not found in current queue.", c.ProductName)}, nil
	}
	if err := d.Actions.RemoveFromCart(index); err != nil {
		return Result{}, err
	}
	return Result{Text: fmt.Sprintf("%s removed from queue.", snap.Cart[index].Name)}, nil
}

func (d *Dispatcher) viewQueue(snap *market.Snapshot) (Result, error) {
	if err := d.Actions.OpenCart(); err != nil {
		return Result{}, err
	}
	if len(snap.Cart) == 0 {
		return Result{Text: "Queue is currently empty."}, nil
	}
	names := make([]string, len(snap.Cart))
	for i, it := range snap.Cart {
		names[i] = it.Name
	}
	return Result{Text: "Queue contains: " + strings.Join(names, ", ") + "."}, nil
}

func (d *Dispatcher) checkout() (Result, error) {
	if err := d.Actions.Checkout(); err != nil {
		return Result{}, err
	}
	return Result{Text: "Checkout sequence initiated."}, nil
}

func (d *Dispatcher) navigate(c NavigateCall) (Result, error) {
	dest := market.View(strings.ToLower(c.Destination))
	known := false
	for _, v := range market.NavigableViews {
		if v == dest {
			known = true
			break
		}
	}
	if !known {
		return Result{Text: fmt.Sprintf("Error: Unknown destination %s.", c.Destination)}, nil
	}
	if err := d.Actions.SetView(dest); err != nil {
		return Result{}, err
	}
	return Result{Text: fmt.Sprintf("Navigating to %s.", dest)}, nil
}

func (d *Dispatcher) checkOrderStatus(c CheckOrderStatusCall, snap *market.Snapshot) (Result, error) {
	for _, o := range snap.Orders {
		if o.TicketID == c.TicketID {
			return Result{Text: fmt.Sprintf("Ticket %s: %s, total %.2f credits.", o.TicketID, o.Status, o.Total)}, nil
		}
	}
	return Result{Text: fmt.Sprintf("Ticket %s not found in local archives.", c.TicketID)}, nil
}

func (d *Dispatcher) recommendProducts(c RecommendProductsCall, snap *market.Snapshot) (Result, error) {
	query := strings.ToLower(strings.TrimSpace(c.SearchQuery))
	var hits []market.Item
	for _, it := range snap.Catalog {
		if query == "" ||
			strings.Contains(strings.ToLower(it.Name), query) ||
			strings.Contains(strings.ToLower(it.Category), query) ||
			strings.Contains(strings.ToLower(it.Description), query) {
			hits = append(hits, it)
			if len(hits) == maxRecommendations {
				break
			}
		}
	}
	if len(hits) == 0 {
		return Result{Text: fmt.Sprintf("No products matched %q.", c.SearchQuery)}, nil
	}
	names := make([]string, len(hits))
	for i, it := range hits {
		names[i] = it.Name
	}
	return Result{
		Text:  fmt.Sprintf("Recommending %d products: %s.", len(hits), strings.Join(names, ", ")),
		Items: hits,
	}, nil
}

func (d *Dispatcher) replayTutorial() (Result, error) {
	if err := d.Actions.ReplayTutorial(); err != nil {
		return Result{}, err
	}
	return Result{Text: "Tutorial replay initiated."}, nil
}
