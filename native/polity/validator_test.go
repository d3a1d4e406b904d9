package polity

import "testing"

func mustWeight(t *testing.T, s string) Weight {
	t.Helper()
	w, err := WeightFromString(s)
	if err != nil {
		t.Fatalf("WeightFromString(%q): %v", s, err)
	}
	return w
}

// TestBasicActions ports original_source's test_basic_actions scenario by
// scenario, filling in the stubs the original left as comments.
func TestBasicActions(t *testing.T) {
	state := NewBuilder().Finish()

	// success EnterPerson
	errs, changes := Calculate(state, EnterPersonAction(1, WeightFromInt64(100)))
	if len(errs) != 0 {
		t.Fatalf("EnterPerson(1): unexpected errors %v", errs)
	}
	if len(changes) != 1 || changes[0].Kind != StateChangeInsertPerson {
		t.Fatalf("EnterPerson(1): unexpected changes %+v", changes)
	}
	state.Apply(changes)

	// fail EnterPerson (id conflict)
	errs, changes = Calculate(state, EnterPersonAction(1, WeightFromInt64(10)))
	if len(changes) != 0 {
		t.Fatalf("EnterPerson(1) conflict: expected no changes, got %+v", changes)
	}
	if len(errs) != 1 {
		t.Fatalf("EnterPerson(1) conflict: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrIdConflict); !ok {
		t.Fatalf("EnterPerson(1) conflict: expected ErrIdConflict, got %T", errs[0])
	}

	// success SetAllocations (empty)
	errs, changes = Calculate(state, SetAllocationsAction(1, nil, nil))
	if len(errs) != 0 {
		t.Fatalf("SetAllocations(1, empty): unexpected errors %v", errs)
	}
	if len(changes) != 2 {
		t.Fatalf("SetAllocations(1, empty): expected 2 changes, got %+v", changes)
	}
	state.Apply(changes)

	// fail SetAllocations (person not found)
	errs, _ = Calculate(state, SetAllocationsAction(2, nil, nil))
	if len(errs) != 1 {
		t.Fatalf("SetAllocations(2): expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotFound); !ok {
		t.Fatalf("SetAllocations(2): expected ErrNotFound, got %T", errs[0])
	}

	// success EnterCandidacy (intended winner document under root)
	winnerDoc := NewDocumentContent("gonna win", "", []SubElection{{
		ID:                   1,
		Title:                "gonna win doc",
		Description:          "",
		Kind:                 ElectionKindOffice,
		SelectionMethod:      NewResourceScoreMethod(false, false),
		NominationFillMethod: ConstantFill(WeightFromInt64(10)),
		ElectionFillMethod:   ConstantFill(WeightFromInt64(20)),
	}})
	errs, changes = Calculate(state, EnterCandidacyAction(10, 1, RootElectionID, winnerDoc))
	if len(errs) != 0 {
		t.Fatalf("EnterCandidacy(10): unexpected errors %v", errs)
	}
	if len(changes) != 1 || changes[0].Kind != StateChangeInsertCandidacy {
		t.Fatalf("EnterCandidacy(10): unexpected changes %+v", changes)
	}
	if !changes[0].Candidacy.Status.Equal(ElectionStatus(ZeroWeight())) {
		t.Fatalf("EnterCandidacy(10): expected initial Election(0) status, got %v", changes[0].Candidacy.Status)
	}
	state.Apply(changes)

	// success EnterCandidacy (intended loser document under root)
	loserDoc := NewDocumentContent("gonna lose", "", nil)
	errs, changes = Calculate(state, EnterCandidacyAction(11, 1, RootElectionID, loserDoc))
	if len(errs) != 0 {
		t.Fatalf("EnterCandidacy(11): unexpected errors %v", errs)
	}
	state.Apply(changes)

	// fail EnterCandidacy (id conflict)
	errs, _ = Calculate(state, EnterCandidacyAction(10, 1, RootElectionID, loserDoc))
	if len(errs) != 1 {
		t.Fatalf("EnterCandidacy(10) conflict: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrIdConflict); !ok {
		t.Fatalf("EnterCandidacy(10) conflict: expected ErrIdConflict, got %T", errs[0])
	}

	// fail EnterCandidacy (owner not found)
	errs, _ = Calculate(state, EnterCandidacyAction(12, 99, RootElectionID, loserDoc))
	if len(errs) != 1 {
		t.Fatalf("EnterCandidacy(12) bad owner: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotFound); !ok {
		t.Fatalf("EnterCandidacy(12) bad owner: expected ErrNotFound, got %T", errs[0])
	}

	// fail EnterCandidacy (election not found)
	errs, _ = Calculate(state, EnterCandidacyAction(12, 1, 999, loserDoc))
	if len(errs) != 1 {
		t.Fatalf("EnterCandidacy(12) bad election: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotFound); !ok {
		t.Fatalf("EnterCandidacy(12) bad election: expected ErrNotFound, got %T", errs[0])
	}

	// fail EnterCandidacy (content mismatched kind)
	officeContent := NewOfficeContent("pitch")
	errs, _ = Calculate(state, EnterCandidacyAction(12, 1, RootElectionID, officeContent))
	if len(errs) != 1 {
		t.Fatalf("EnterCandidacy(12) mismatched kind: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrMismatchedKind); !ok {
		t.Fatalf("EnterCandidacy(12) mismatched kind: expected ErrMismatchedKind, got %T", errs[0])
	}

	// success SetAllocations (vote for candidacy 10, the eventual winner)
	errs, changes = Calculate(state, SetAllocationsAction(1, nil, []ResourceScoreAllocation{{
		ElectionID:       RootElectionID,
		ApproveWeight:    WeightFromInt64(100),
		DisapproveWeight: ZeroWeight(),
		Scores:           map[ID]Weight{10: WeightFromInt64(1)},
	}}))
	if len(errs) != 0 {
		t.Fatalf("SetAllocations(vote 10): unexpected errors %v", errs)
	}
	state.Apply(changes)

	// fail SetAllocations (too much weight)
	errs, _ = Calculate(state, SetAllocationsAction(1, nil, []ResourceScoreAllocation{{
		ElectionID:       RootElectionID,
		ApproveWeight:    WeightFromInt64(1000),
		DisapproveWeight: WeightFromInt64(1000),
		Scores:           map[ID]Weight{10: WeightFromInt64(1)},
	}}))
	if len(errs) != 1 {
		t.Fatalf("SetAllocations(too much): expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrAboveAllowedWeight); !ok {
		t.Fatalf("SetAllocations(too much): expected ErrAboveAllowedWeight, got %T", errs[0])
	}

	// fail SetAllocations (NoElection) — the allocation survives validation
	// as an error but the whole action is not failed, per spec.md §4.2/§7.
	errs, changes = Calculate(state, SetAllocationsAction(1, nil, []ResourceScoreAllocation{{
		ElectionID:       999,
		ApproveWeight:    WeightFromInt64(1),
		DisapproveWeight: WeightFromInt64(1),
		Scores:           map[ID]Weight{10: WeightFromInt64(1)},
	}}))
	if len(errs) != 1 {
		t.Fatalf("SetAllocations(NoElection): expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNoElection); !ok {
		t.Fatalf("SetAllocations(NoElection): expected ErrNoElection, got %T", errs[0])
	}
	if len(changes) != 2 {
		t.Fatalf("SetAllocations(NoElection): expected the action to still apply, got %+v", changes)
	}

	// fail SetAllocations (MismatchedMethod)
	errs, _ = Calculate(state, SetAllocationsAction(1, []ResourceAllocation{{
		ElectionID:  RootElectionID,
		CandidacyID: 10,
		Weight:      WeightFromInt64(1),
	}}, nil))
	if len(errs) != 1 {
		t.Fatalf("SetAllocations(MismatchedMethod): expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrMismatchedMethod); !ok {
		t.Fatalf("SetAllocations(MismatchedMethod): expected ErrMismatchedMethod, got %T", errs[0])
	}

	// fail SetAllocations (NoCandidacy, multiple in one allocation)
	errs, _ = Calculate(state, SetAllocationsAction(1, nil, []ResourceScoreAllocation{{
		ElectionID:       RootElectionID,
		ApproveWeight:    WeightFromInt64(1),
		DisapproveWeight: WeightFromInt64(1),
		Scores:           map[ID]Weight{500: WeightFromInt64(1), 501: WeightFromInt64(-1)},
	}}))
	if len(errs) != 2 {
		t.Fatalf("SetAllocations(NoCandidacy x2): expected two errors, got %v", errs)
	}

	// Recalculate: candidacy 10 should become Winner and its sub-election
	// should come into existence.
	errs, changes = Calculate(state, RecalculateAction())
	if len(errs) != 0 {
		t.Fatalf("Recalculate: unexpected errors %v", errs)
	}
	state.Apply(changes)

	winner, ok := state.Candidacy(10)
	if !ok || winner.Status.Kind() != CandidacyStatusKindWinner {
		t.Fatalf("Recalculate: expected candidacy 10 to win, got %+v", winner)
	}
	if _, ok := state.Election(1); !ok {
		t.Fatal("Recalculate: expected sub-election 1 to be instantiated under the new winner")
	}

	// success ExitCandidacy (document, never became winner, so the
	// winning-document guard does not apply)
	errs, changes = Calculate(state, ExitCandidacyAction(11))
	if len(errs) != 0 {
		t.Fatalf("ExitCandidacy(11): unexpected errors %v", errs)
	}
	state.Apply(changes)
	if _, ok := state.Candidacy(11); ok {
		t.Fatal("ExitCandidacy(11): candidacy should be gone")
	}

	// fail ExitCandidacy (candidacy not found)
	errs, _ = Calculate(state, ExitCandidacyAction(11))
	if len(errs) != 1 {
		t.Fatalf("ExitCandidacy(11) missing: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotFound); !ok {
		t.Fatalf("ExitCandidacy(11) missing: expected ErrNotFound, got %T", errs[0])
	}

	// fail ExitCandidacy (document, winner)
	errs, _ = Calculate(state, ExitCandidacyAction(10))
	if len(errs) != 1 {
		t.Fatalf("ExitCandidacy(10) winner: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrWinningDocumentExit); !ok {
		t.Fatalf("ExitCandidacy(10) winner: expected ErrWinningDocumentExit, got %T", errs[0])
	}

	// success ExitPerson / fail ExitPerson (not found)
	errs, changes = Calculate(state, ExitPersonAction(1))
	if len(errs) != 0 {
		t.Fatalf("ExitPerson(1): unexpected errors %v", errs)
	}
	state.Apply(changes)

	errs, _ = Calculate(state, ExitPersonAction(1))
	if len(errs) != 1 {
		t.Fatalf("ExitPerson(1) again: expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotFound); !ok {
		t.Fatalf("ExitPerson(1) again: expected ErrNotFound, got %T", errs[0])
	}
}

func TestEnterPersonRequiredEqualWeight(t *testing.T) {
	state := NewBuilder().WithRequiredEqualWeight(WeightFromInt64(1)).Finish()

	errs, _ := Calculate(state, EnterPersonAction(1, WeightFromInt64(2)))
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %v", errs)
	}
	if _, ok := errs[0].(ErrNotRequiredEqualWeight); !ok {
		t.Fatalf("expected ErrNotRequiredEqualWeight, got %T", errs[0])
	}

	errs, changes := Calculate(state, EnterPersonAction(1, WeightFromInt64(1)))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %+v", changes)
	}
}
