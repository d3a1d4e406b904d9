package polity

// Calculate is the single validated action -> state-change entry point
// (spec.md §4.2, `calculate_polity_action` in original_source). It never
// mutates state: it only reads state and appends to errs/changes. On
// failure it appends at least one error and zero changes for the whole
// action; per spec.md §4.2/§7, SetAllocations is the one action whose
// individual allocations are filtered independently rather than failing the
// whole action (unless the aggregate budget check fails first).
func Calculate(state *State, action Action) (errs []ActionError, changes []StateChange) {
	switch action.Kind {
	case ActionEnterPerson:
		return calculateEnterPerson(state, action)
	case ActionExitPerson:
		return calculateExitPerson(state, action)
	case ActionSetAllocations:
		return calculateSetAllocations(state, action)
	case ActionEnterCandidacy:
		return calculateEnterCandidacy(state, action)
	case ActionExitCandidacy:
		return calculateExitCandidacy(state, action)
	case ActionRecalculate:
		return performRecalculation(state)
	default:
		return nil, nil
	}
}

func calculateEnterPerson(state *State, action Action) ([]ActionError, []StateChange) {
	if state.RequiredEqualWeight != nil && !action.GivenWeight.Equal(*state.RequiredEqualWeight) {
		return []ActionError{ErrNotRequiredEqualWeight{
			PersonID: action.PersonID,
			Found:    action.GivenWeight,
			Required: *state.RequiredEqualWeight,
		}}, nil
	}
	if _, exists := state.Person(action.PersonID); exists {
		return []ActionError{ErrIdConflict{ID: action.PersonID, Table: TableKindPerson}}, nil
	}
	return nil, []StateChange{InsertPersonChange(action.PersonID, action.GivenWeight)}
}

func calculateExitPerson(state *State, action Action) ([]ActionError, []StateChange) {
	if _, exists := state.Person(action.PersonID); !exists {
		return []ActionError{ErrNotFound{ID: action.PersonID, Table: TableKindPerson}}, nil
	}
	return nil, []StateChange{RemovePersonChange(action.PersonID)}
}

func calculateSetAllocations(state *State, action Action) ([]ActionError, []StateChange) {
	person, exists := state.Person(action.VoterID)
	if !exists {
		return []ActionError{ErrNotFound{ID: action.VoterID, Table: TableKindPerson}}, nil
	}

	total := ZeroWeight()
	for _, a := range action.ResourceAllocations {
		total = total.Add(a.TotalWeight())
	}
	for _, a := range action.ResourceScoreAllocations {
		total = total.Add(a.TotalWeight())
	}
	if total.GreaterThan(person.GivenWeight) {
		return []ActionError{ErrAboveAllowedWeight{
			VoterID: person.ID,
			Found:   total,
			Given:   person.GivenWeight,
		}}, nil
	}

	var errs []ActionError
	validResource := make([]ResourceAllocation, 0, len(action.ResourceAllocations))
	for _, a := range action.ResourceAllocations {
		a.VoterID = person.ID
		if ok, allocErrs := validateResourceAllocation(state, person.ID, a); ok {
			validResource = append(validResource, a)
		} else {
			errs = append(errs, allocErrs...)
		}
	}

	validResourceScore := make([]ResourceScoreAllocation, 0, len(action.ResourceScoreAllocations))
	for _, a := range action.ResourceScoreAllocations {
		a.VoterID = person.ID
		if ok, allocErrs := validateResourceScoreAllocation(state, person.ID, a); ok {
			validResourceScore = append(validResourceScore, a)
		} else {
			errs = append(errs, allocErrs...)
		}
	}

	changes := []StateChange{
		SetResourceAllocationsChange(person.ID, validResource),
		SetResourceScoreAllocationsChange(person.ID, validResourceScore),
	}
	return errs, changes
}

// validateResourceAllocation checks NoElection, MismatchedMethod, and
// NoCandidacy for a single ResourceAllocation (spec.md §4.2).
func validateResourceAllocation(state *State, voterID ID, a ResourceAllocation) (bool, []ActionError) {
	election, ok := state.Election(a.ElectionID)
	if !ok {
		return false, []ActionError{ErrNoElection{ElectionID: a.ElectionID, VoterID: voterID}}
	}
	if election.SelectionMethod.Kind() != SelectionMethodKindResource {
		return false, []ActionError{ErrMismatchedMethod{VoterID: voterID, ElectionID: a.ElectionID, ExpectedMethod: election.SelectionMethod.Kind()}}
	}
	var errs []ActionError
	if _, ok := state.Candidacy(a.CandidacyID); !ok {
		errs = append(errs, ErrNoCandidacy{CandidacyID: a.CandidacyID, VoterID: voterID})
	}
	return len(errs) == 0, errs
}

// validateResourceScoreAllocation checks NoElection, MismatchedMethod, and
// NoCandidacy (once per referenced candidacy) for a single
// ResourceScoreAllocation (spec.md §4.2).
func validateResourceScoreAllocation(state *State, voterID ID, a ResourceScoreAllocation) (bool, []ActionError) {
	election, ok := state.Election(a.ElectionID)
	if !ok {
		return false, []ActionError{ErrNoElection{ElectionID: a.ElectionID, VoterID: voterID}}
	}
	if election.SelectionMethod.Kind() != SelectionMethodKindResourceScore {
		return false, []ActionError{ErrMismatchedMethod{VoterID: voterID, ElectionID: a.ElectionID, ExpectedMethod: election.SelectionMethod.Kind()}}
	}
	var errs []ActionError
	for _, candidacyID := range a.CandidacyIDs() {
		if _, ok := state.Candidacy(candidacyID); !ok {
			errs = append(errs, ErrNoCandidacy{CandidacyID: candidacyID, VoterID: voterID})
		}
	}
	return len(errs) == 0, errs
}

func calculateEnterCandidacy(state *State, action Action) ([]ActionError, []StateChange) {
	if _, exists := state.Candidacy(action.CandidacyID); exists {
		return []ActionError{ErrIdConflict{ID: action.CandidacyID, Table: TableKindCandidacy}}, nil
	}
	if _, exists := state.Person(action.OwnerID); !exists {
		return []ActionError{ErrNotFound{ID: action.OwnerID, Table: TableKindPerson}}, nil
	}
	election, exists := state.Election(action.ElectionID)
	if !exists {
		return []ActionError{ErrNotFound{ID: action.ElectionID, Table: TableKindElection}}, nil
	}
	if !action.Content.matchesElectionKind(election.Kind) {
		return []ActionError{ErrMismatchedKind{CandidacyID: action.CandidacyID, ExpectedKind: election.Kind}}, nil
	}

	status := makeInitialStatus(election.NominationFillMethod)
	candidacy := Candidacy{
		ID:         action.CandidacyID,
		OwnerID:    action.OwnerID,
		ElectionID: action.ElectionID,
		Content:    action.Content,
		Status:     status,
	}
	return nil, []StateChange{InsertCandidacyChange(candidacy)}
}

// makeInitialStatus picks Nomination(0) when the election nominates
// candidates before contention, else Election(0) (spec.md §4.2).
func makeInitialStatus(nominationFillMethod FillMethod) CandidacyStatus {
	if nominationFillMethod.Kind() == FillMethodKindConstant {
		return NominationStatus(ZeroWeight())
	}
	return ElectionStatus(ZeroWeight())
}

func calculateExitCandidacy(state *State, action Action) ([]ActionError, []StateChange) {
	candidacy, exists := state.Candidacy(action.CandidacyID)
	if !exists {
		return []ActionError{ErrNotFound{ID: action.CandidacyID, Table: TableKindCandidacy}}, nil
	}
	if candidacy.Status.Kind() == CandidacyStatusKindWinner && candidacy.Content.Kind() == CandidacyContentKindDocument {
		return []ActionError{ErrWinningDocumentExit{CandidacyID: action.CandidacyID}}, nil
	}
	// No election deletions are needed here: a winning document can't be
	// exited directly, and stale allocations to a removed candidacy are
	// tolerated at recalculation time (spec.md §7).
	return nil, []StateChange{RemoveCandidacyChange(action.CandidacyID)}
}
