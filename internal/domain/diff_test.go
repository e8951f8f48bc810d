package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func planWithPlacementIDs(ids ...string) PackingPlan {
	placements := make([]Placement, len(ids))
	for i, id := range ids {
		placements[i] = Placement{ID: id}
	}
	return PackingPlan{
		Containers: []ContainerPlacementEntry{
			{Result: PackingResult{Placements: placements}},
		},
	}
}

func TestDiffPlans_ReportsAddedRemovedAndCommon(t *testing.T) {
	oldPlan := planWithPlacementIDs("p1", "p2", "p3")
	newPlan := planWithPlacementIDs("p2", "p3", "p4")

	diff := DiffPlans(oldPlan, newPlan)

	assert.ElementsMatch(t, []string{"p4"}, diff.Added)
	assert.ElementsMatch(t, []string{"p1"}, diff.Removed)
	assert.Equal(t, 2, diff.Common)
}

func TestDiffPlans_IdenticalPlansHaveNoDelta(t *testing.T) {
	plan := planWithPlacementIDs("p1", "p2")

	diff := DiffPlans(plan, plan)

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	assert.Equal(t, 2, diff.Common)
}

func TestDiffPlans_EmptyPlansProduceEmptyDiff(t *testing.T) {
	diff := DiffPlans(PackingPlan{}, PackingPlan{})

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	assert.Equal(t, 0, diff.Common)
}
