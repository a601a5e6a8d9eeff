package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/obsidian-exchange/clerk-go/internal/convo"
	"github.com/obsidian-exchange/clerk-go/internal/market"
)

func TestSaveAndList_RoundTrip(t *testing.T) {
	SetPath(filepath.Join(t.TempDir(), "transcript.db"))

	now := time.Now().UTC()
	Save("sess-1", convo.Entry{Role: convo.RoleUser, Text: "show my queue", Time: now})
	Save("sess-1", convo.Entry{
		Role:  convo.RoleModel,
		Items: []market.Item{{ID: "phys-01", Name: "Cyberdeck: ONYX MK.IV"}},
		Time:  now.Add(time.Second),
	})
	Save("sess-2", convo.Entry{Role: convo.RoleUser, Text: "other session", Time: now})

	got := List("sess-1")
	require.Len(t, got, 2)
	require.Equal(t, convo.RoleUser, got[0].Role)
	require.Equal(t, "show my queue", got[0].Text)
	require.Empty(t, got[1].Text)
	require.Len(t, got[1].Items, 1)
	require.Equal(t, "phys-01", got[1].Items[0].ID)

	require.Empty(t, List("sess-3"))
}
