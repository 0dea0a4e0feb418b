package schedule

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestWouldCreateCycle(t *testing.T) {
	ids := nodes(4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]
	existing := []Edge{{From: a, To: b}, {From: b, To: c}}

	tests := []struct {
		name      string
		candidate Edge
		want      bool
	}{
		{"closing edge C->A", Edge{From: c, To: a}, true},
		{"extending edge C->D", Edge{From: c, To: d}, false},
		{"shortcut A->C", Edge{From: a, To: c}, false},
		{"self edge", Edge{From: d, To: d}, true},
		{"back edge B->A", Edge{From: b, To: a}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WouldCreateCycle(existing, tt.candidate))
		})
	}
}

func TestFindCycleReturnsPath(t *testing.T) {
	ids := nodes(3)
	edges := []Edge{{From: ids[0], To: ids[1]}, {From: ids[1], To: ids[2]}, {From: ids[2], To: ids[0]}}

	cycle := FindCycle(edges)
	require.Len(t, cycle, 4)
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.ElementsMatch(t, ids, cycle[:3])
}

func TestFindCycleAcyclicDiamond(t *testing.T) {
	ids := nodes(4)
	edges := []Edge{
		{From: ids[0], To: ids[1]},
		{From: ids[0], To: ids[2]},
		{From: ids[1], To: ids[3]},
		{From: ids[2], To: ids[3]},
	}
	assert.Nil(t, FindCycle(edges))
}

func TestFindCycleInSecondComponent(t *testing.T) {
	ids := nodes(5)
	edges := []Edge{
		{From: ids[0], To: ids[1]},
		{From: ids[2], To: ids[3]},
		{From: ids[3], To: ids[4]},
		{From: ids[4], To: ids[3]},
	}
	cycle := FindCycle(edges)
	require.NotNil(t, cycle)
	assert.ElementsMatch(t, []uuid.UUID{ids[3], ids[4], ids[3]}, cycle)
}
