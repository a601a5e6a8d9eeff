package market

import (
	"fmt"
	"sync"
	"time"
)

// Store is an in-memory hosting application: a seeded catalog with market
// prices, a mutable cart, an order archive and a mission list. It implements
// Actions and produces Snapshots for the engine.
type Store struct {
	mu           sync.Mutex
	user         User
	catalog      []Item
	cart         []Item
	orders       []Order
	prices       map[string]float64
	missions     []Mission
	language     string
	view         View
	shownProduct string
	tutorialRuns int
	ticketSeq    int
}

// NewStore seeds a store with the default exchange inventory.
func NewStore() *Store {
	return &Store{
		user: User{Handle: "operator-7", Credits: 2500},
		catalog: []Item{
			{ID: "mining-tier-1", Name: "Nano-Ledger USB", Category: "mining", Price: 120, Description: "Cold-wallet ledger stick rated for low-yield background mining."},
			{ID: "mining-tier-2", Name: "Helios Rig Frame", Category: "mining", Price: 480, Description: "Open-air rig frame with redundant power rails for mid-tier mining."},
			{ID: "mining-tier-3", Name: "Cryo-Cooled Hashing Core", Category: "mining", Price: 1350, Description: "Liquid-nitrogen cooled core for industrial mining throughput."},
			{ID: "phys-01", Name: "Cyberdeck: ONYX MK.IV", Category: "hardware", Price: 890, Description: "Matte-black field deck with quad breakout ports."},
			{ID: "phys-02", Name: "Neural Interface Shunt", Category: "hardware", Price: 310, Description: "Direct-link shunt for low-latency deck access."},
			{ID: "soft-01", Name: "Ghostwire ICE Breaker", Category: "software", Price: 640, Description: "Single-use intrusion suite with adaptive signature masking."},
		},
		orders: []Order{
			{TicketID: "TKT-001", Status: "in transit", Total: 340, Placed: time.Now().Add(-48 * time.Hour)},
			{TicketID: "TKT-002", Status: "delivered", Total: 120, Placed: time.Now().Add(-240 * time.Hour)},
		},
		prices: map[string]float64{
			"mining-tier-1": 134.5,
			"mining-tier-2": 455,
			"mining-tier-3": 1418.75,
			"phys-01":       902.4,
			"phys-02":       297.1,
			"soft-01":       640,
		},
		missions: []Mission{
			{ID: "m-01", Title: "Complete your first purchase", Completed: false},
			{ID: "m-02", Title: "Visit the exchange floor", Completed: true},
		},
		language:  "en",
		view:      ViewHome,
		ticketSeq: 2,
	}
}

// Snapshot copies the current state into a read-only bundle.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prices := make(map[string]float64, len(s.prices))
	for id, p := range s.prices {
		prices[id] = p
	}
	return &Snapshot{
		User:     s.user,
		Catalog:  append([]Item(nil), s.catalog...),
		Cart:     append([]Item(nil), s.cart...),
		Orders:   append([]Order(nil), s.orders...),
		Prices:   prices,
		Missions: append([]Mission(nil), s.missions...),
		Language: s.language,
		View:     s.view,
	}
}

// AddToCart queues an item at the given price.
func (s *Store) AddToCart(item Item, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Price = price
	s.cart = append(s.cart, item)
	return nil
}

// RemoveFromCart drops the cart entry at index.
func (s *Store) RemoveFromCart(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.cart) {
		return fmt.Errorf("cart index %d out of range", index)
	}
	s.cart = append(s.cart[:index], s.cart[index+1:]...)
	return nil
}

// Sell credits the user with the item's current market price.
func (s *Store) Sell(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.prices[item.ID]
	if !ok {
		price = item.Price
	}
	s.user.Credits += price
	return nil
}

// OpenCart switches the UI to the cart screen.
func (s *Store) OpenCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewCart
	return nil
}

// Checkout converts the current cart into an order and debits the user.
// An empty cart is a no-op.
func (s *Store) Checkout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return nil
	}
	var total float64
	for _, it := range s.cart {
		total += it.Price
	}
	s.ticketSeq++
	s.orders = append(s.orders, Order{
		TicketID: fmt.Sprintf("TKT-%03d", s.ticketSeq),
		Status:   "processing",
		Total:    total,
		Placed:   time.Now(),
	})
	s.user.Credits -= total
	s.cart = nil
	s.view = ViewOrders
	for i := range s.missions {
		if s.missions[i].ID == "m-01" {
			s.missions[i].Completed = true
		}
	}
	return nil
}

// SetView switches the UI to the named screen.
func (s *Store) SetView(view View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	return nil
}

// ShowProduct opens the detail screen for an item.
func (s *Store) ShowProduct(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewProduct
	s.shownProduct = item.ID
	return nil
}

// ReplayTutorial restarts the onboarding flow.
func (s *Store) ReplayTutorial() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tutorialRuns++
	s.view = ViewHome
	return nil
}

// View reports the current screen.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}
