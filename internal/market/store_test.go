package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_CheckoutMovesCartToOrders(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AddToCart(Item{ID: "phys-01", Name: "Cyberdeck: ONYX MK.IV"}, 902.4))
	require.NoError(t, s.AddToCart(Item{ID: "soft-01", Name: "Ghostwire ICE Breaker"}, 640))

	before := s.Snapshot()
	require.Len(t, before.Cart, 2)

	require.NoError(t, s.Checkout())

	after := s.Snapshot()
	require.Empty(t, after.Cart)
	require.Len(t, after.Orders, len(before.Orders)+1)
	placed := after.Orders[len(after.Orders)-1]
	require.Equal(t, "TKT-003", placed.TicketID)
	require.InDelta(t, 1542.4, placed.Total, 0.001)
	require.InDelta(t, before.User.Credits-1542.4, after.User.Credits, 0.001)
	require.Equal(t, ViewOrders, after.View)
}

func TestStore_CheckoutEmptyCartIsNoop(t *testing.T) {
	s := NewStore()
	before := s.Snapshot()
	require.NoError(t, s.Checkout())
	after := s.Snapshot()
	require.Equal(t, len(before.Orders), len(after.Orders))
	require.Equal(t, before.User.Credits, after.User.Credits)
}

func TestStore_RemoveFromCartBounds(t *testing.T) {
	s := NewStore()
	require.Error(t, s.RemoveFromCart(0))
	require.NoError(t, s.AddToCart(Item{ID: "phys-02", Name: "Neural Interface Shunt"}, 297.1))
	require.Error(t, s.RemoveFromCart(1))
	require.NoError(t, s.RemoveFromCart(0))
	require.Empty(t, s.Snapshot().Cart)
}

func TestStore_SnapshotIsDetached(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	snap.Cart = append(snap.Cart, Item{ID: "ghost"})
	snap.Prices["phys-01"] = 1

	fresh := s.Snapshot()
	require.Empty(t, fresh.Cart)
	require.InDelta(t, 902.4, fresh.Prices["phys-01"], 0.001)
}
