package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/chaincommand-go/internal/domain/division"
	"github.com/andrescamacho/chaincommand-go/internal/domain/shared"
	"github.com/andrescamacho/chaincommand-go/internal/domain/soldier"
)

func newDivision(t *testing.T, sight float64, pos shared.Position) *division.Division {
	t.Helper()
	tmpl := soldier.DefaultTemplate
	tmpl.SightRadius = sight
	troops, err := tmpl.NewMany(2)
	require.NoError(t, err)
	return division.New(division.Params{Team: 1, Position: pos, Soldiers: troops})
}

func TestSightRadius_SeesOnlyWithinRadius(t *testing.T) {
	// Arrange
	observer := newDivision(t, 10, shared.NewPosition(0, 0))
	near := newDivision(t, 10, shared.NewPosition(6, 8))
	far := newDivision(t, 10, shared.NewPosition(30, 0))
	all := []*division.Division{observer, near, far}

	// Act
	seen := NewSightRadius(0).VisiblePeers(observer, all)

	// Assert
	require.Len(t, seen, 1)
	assert.Equal(t, near.ID(), seen[0].ID())
}

func TestSightRadius_FloorExtendsShortSight(t *testing.T) {
	observer := newDivision(t, 1, shared.NewPosition(0, 0))
	peer := newDivision(t, 1, shared.NewPosition(15, 0))

	seen := NewSightRadius(20).VisiblePeers(observer, []*division.Division{observer, peer})

	assert.Len(t, seen, 1)
}

func TestSightRadius_IgnoresDestroyed(t *testing.T) {
	observer := newDivision(t, 50, shared.NewPosition(0, 0))
	dead := newDivision(t, 50, shared.NewPosition(1, 0))
	dead.MarkDestroyed()

	seen := NewSightRadius(0).VisiblePeers(observer, []*division.Division{observer, dead})

	assert.Empty(t, seen)
}
