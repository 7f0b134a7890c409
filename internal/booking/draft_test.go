package booking

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecare/internal/model"
)

func draftOf(t *testing.T, ids ...string) *Draft {
	t.Helper()
	d := NewDraft()
	for _, id := range ids {
		require.NoError(t, d.Add(Line{ServiceID: id}))
	}
	return d
}

func TestDraft_AddRejectsDuplicates(t *testing.T) {
	d := draftOf(t, "cleaning", "repair")
	err := d.Add(Line{ServiceID: "cleaning"})
	assert.ErrorIs(t, err, ErrDuplicateService)
	assert.Equal(t, 2, d.Len())
}

func TestDraft_Remove(t *testing.T) {
	d := draftOf(t, "cleaning", "repair", "transport")
	assert.True(t, d.Remove("repair"))
	assert.False(t, d.Remove("repair"))
	assert.Equal(t, []string{"cleaning", "transport"}, d.ServiceIDs())
}

func TestDraft_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"b", "c", "a", "d"}},
		{"backward", 3, 1, []string{"a", "d", "b", "c"}},
		{"same position", 1, 1, []string{"a", "b", "c", "d"}},
		{"to end", 1, 3, []string{"a", "c", "d", "b"}},
		{"to front", 2, 0, []string{"c", "a", "b", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draftOf(t, "a", "b", "c", "d")
			require.NoError(t, d.Move(tt.from, tt.to))
			assert.Equal(t, tt.want, d.ServiceIDs())
		})
	}
}

func TestDraft_MovePreservesSelection(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	for from := range ids {
		for to := range ids {
			d := draftOf(t, ids...)
			require.NoError(t, d.Move(from, to))

			got := d.ServiceIDs()
			sort.Strings(got)
			assert.Equal(t, ids, got, "move %d -> %d", from, to)
		}
	}
}

func TestDraft_MoveOutOfRange(t *testing.T) {
	d := draftOf(t, "a", "b")
	assert.ErrorIs(t, d.Move(-1, 0), ErrPosition)
	assert.ErrorIs(t, d.Move(0, 2), ErrPosition)
	assert.Equal(t, []string{"a", "b"}, d.ServiceIDs())
}

func TestDraft_ApplyPricesAndTotal(t *testing.T) {
	d := draftOf(t, "cleaning", "repair", "transport")
	prices := map[string]model.Money{
		"cleaning":  model.CHF(129, 0),
		"repair":    model.CHF(99, 50),
		"transport": model.CHF(249, 0),
	}
	require.NoError(t, d.ApplyPrices(prices))
	assert.Equal(t, model.CHF(477, 50), d.Total())

	require.NoError(t, d.Move(2, 0))
	assert.Equal(t, model.CHF(477, 50), d.Total())

	d.Remove("repair")
	assert.Equal(t, model.CHF(378, 0), d.Total())
}

func TestDraft_ApplyPricesUnknownService(t *testing.T) {
	d := draftOf(t, "cleaning", "ghost")
	err := d.ApplyPrices(map[string]model.Money{"cleaning": 100})
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestDraft_LinesIsACopy(t *testing.T) {
	d := draftOf(t, "a")
	lines := d.Lines()
	lines[0].ServiceID = "changed"
	assert.Equal(t, []string{"a"}, d.ServiceIDs())
}
