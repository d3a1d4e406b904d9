package polity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngineSubmitAppliesValidAction(t *testing.T) {
	engine := NewEngine(NewBuilder().Finish())

	errs, changes := engine.Submit(context.Background(), EnterPersonAction(1, WeightFromInt64(10)))
	require.Empty(t, errs)
	require.Len(t, changes, 1)

	person, ok := engine.Snapshot().Person(1)
	require.True(t, ok)
	require.True(t, person.GivenWeight.Equal(WeightFromInt64(10)))
}

func TestEngineSubmitRejectsInvalidActionWithoutMutating(t *testing.T) {
	engine := NewEngine(NewBuilder().Finish())

	_, _ = engine.Submit(context.Background(), EnterPersonAction(1, WeightFromInt64(10)))

	errs, changes := engine.Submit(context.Background(), EnterPersonAction(1, WeightFromInt64(20)))
	require.Len(t, errs, 1)
	require.Empty(t, changes)

	person, ok := engine.Snapshot().Person(1)
	require.True(t, ok)
	require.True(t, person.GivenWeight.Equal(WeightFromInt64(10)), "the first EnterPerson's weight must survive the rejected second one")
}

// TestEngineDocumentCascadeScenario ports spec.md §8 concrete scenario 3: a
// root Document election, linear ResourceScore, election_fill_method
// Constant(20), three equal-weight voters scoring one Document candidacy to
// +1 with approve_weight=10 each, producing total_vote=30 >= 20 and a live
// sub-election under the new winner.
func TestEngineDocumentCascadeScenario(t *testing.T) {
	state := NewBuilder().WithResourceScore().Finish()
	state.Apply([]StateChange{
		InsertElectionChange(Election{
			ID:                   RootElectionID,
			Title:                "root constitution",
			Kind:                 ElectionKindDocument,
			SelectionMethod:      NewResourceScoreMethod(false, false),
			NominationFillMethod: NoFill(),
			ElectionFillMethod:   ConstantFill(WeightFromInt64(20)),
		}),
	})
	engine := NewEngine(state)
	ctx := context.Background()

	for personID := ID(1); personID <= 3; personID++ {
		errs, _ := engine.Submit(ctx, EnterPersonAction(personID, WeightFromInt64(10)))
		require.Empty(t, errs)
	}

	content := NewDocumentContent("pitch", "body", []SubElection{{
		ID:                   1,
		Title:                "office under constitution",
		Kind:                 ElectionKindOffice,
		SelectionMethod:      NewResourceMethod(false),
		NominationFillMethod: NoFill(),
		ElectionFillMethod:   ConstantFill(WeightFromInt64(20)),
	}})
	errs, _ := engine.Submit(ctx, EnterCandidacyAction(100, 1, RootElectionID, content))
	require.Empty(t, errs)

	for personID := ID(1); personID <= 3; personID++ {
		errs, _ := engine.Submit(ctx, SetAllocationsAction(personID, nil, []ResourceScoreAllocation{{
			ElectionID:       RootElectionID,
			ApproveWeight:    WeightFromInt64(10),
			DisapproveWeight: ZeroWeight(),
			Scores:           map[ID]Weight{100: WeightFromInt64(1)},
		}}))
		require.Empty(t, errs)
	}

	errs, _ = engine.Submit(ctx, RecalculateAction())
	require.Empty(t, errs)

	winner, ok := engine.Snapshot().Candidacy(100)
	require.True(t, ok)
	require.Equal(t, CandidacyStatusKindWinner, winner.Status.Kind())

	subElection, ok := engine.Snapshot().Election(1)
	require.True(t, ok)
	require.NotNil(t, subElection.DefiningDocumentID)
	require.Equal(t, ID(100), *subElection.DefiningDocumentID)
}

func TestEngineRecalculateIsIdempotent(t *testing.T) {
	engine := NewEngine(NewBuilder().Finish())
	ctx := context.Background()

	_, _ = engine.Submit(ctx, EnterPersonAction(1, WeightFromInt64(100)))
	_, _ = engine.Submit(ctx, EnterCandidacyAction(10, 1, RootElectionID, NewDocumentContent("a", "", nil)))
	_, _ = engine.Submit(ctx, SetAllocationsAction(1, nil, []ResourceScoreAllocation{{
		ElectionID:       RootElectionID,
		ApproveWeight:    WeightFromInt64(100),
		DisapproveWeight: ZeroWeight(),
		Scores:           map[ID]Weight{10: WeightFromInt64(1)},
	}}))

	errs, changes := engine.Submit(ctx, RecalculateAction())
	require.Empty(t, errs)
	require.NotEmpty(t, changes)

	errs, changes = engine.Submit(ctx, RecalculateAction())
	require.Empty(t, errs)
	require.Empty(t, changes, "a second Recalculate with no intervening state change must produce no changes")
}
