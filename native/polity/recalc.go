package polity

import "sort"

// performRecalculation is the Recalculate action handler (spec.md §4.3)
// using the default ConstantPolicy. Calculate dispatches here; Engine uses
// performRecalculationWithPolicy directly so an injected WithPolicy option
// takes effect.
func performRecalculation(state *State) ([]ActionError, []StateChange) {
	return performRecalculationWithPolicy(state, ConstantPolicy{})
}

// performRecalculationWithPolicy partitions candidacies and allocations by
// election once, then recalculates each election in ascending-id order for
// determinism (spec.md §4.3 "Ordering and idempotence").
func performRecalculationWithPolicy(state *State, policy FillRequirementPolicy) ([]ActionError, []StateChange) {
	candidaciesByElection := make(map[ID][]Candidacy)
	for _, c := range state.Candidacies() {
		candidaciesByElection[c.ElectionID] = append(candidaciesByElection[c.ElectionID], c)
	}

	resourceByElection := make(map[ID][]ResourceAllocation)
	state.allResourceAllocations(func(a ResourceAllocation) {
		resourceByElection[a.ElectionID] = append(resourceByElection[a.ElectionID], a)
	})

	resourceScoreByElection := make(map[ID][]ResourceScoreAllocation)
	state.allResourceScoreAllocations(func(a ResourceScoreAllocation) {
		resourceScoreByElection[a.ElectionID] = append(resourceScoreByElection[a.ElectionID], a)
	})

	electionIDs := make([]ID, 0, len(candidaciesByElection))
	for id := range candidaciesByElection {
		electionIDs = append(electionIDs, id)
	}
	sort.Slice(electionIDs, func(i, j int) bool { return electionIDs[i] < electionIDs[j] })

	var changes []StateChange
	for _, electionID := range electionIDs {
		changes = append(changes, recalculateElection(
			state, policy, electionID,
			candidaciesByElection[electionID],
			resourceByElection[electionID],
			resourceScoreByElection[electionID],
		)...)
	}
	return nil, changes
}

// recalculateElection implements spec.md §4.3 steps 2-5 for a single
// election: aggregate votes, compute next statuses, select a winner, and
// (for Document elections) cascade sub-election activation/teardown.
func recalculateElection(
	state *State,
	policy FillRequirementPolicy,
	electionID ID,
	candidacies []Candidacy,
	resourceAllocs []ResourceAllocation,
	resourceScoreAllocs []ResourceScoreAllocation,
) []StateChange {
	election, ok := state.Election(electionID)
	if !ok {
		// The election no longer exists; its orphaned candidacies are
		// ignored here. This is a data-integrity condition the caller may
		// want to surface, but spec.md §4.3 step 2a treats it as a silent
		// skip.
		return nil
	}

	totals := aggregateElectionVotes(election.SelectionMethod, resourceAllocs, resourceScoreAllocs)

	electorateSize := len(state.Persons())
	nominationFillRequirement := policy.NominationFillRequirement(election, electorateSize)
	electionFillRequirement := policy.ElectionFillRequirement(election, electorateSize)

	sort.Slice(candidacies, func(i, j int) bool { return candidacies[i].ID < candidacies[j].ID })

	var winnerEntries []winnerEntry
	var entries []candidacyEntry
	for _, c := range candidacies {
		totalVote := voteTotal(totals, c.ID)
		switch c.Status.Kind() {
		case CandidacyStatusKindNomination:
			entries = append(entries, candidacyEntry{id: c.ID, isNomination: true, bucket: c.Status.Bucket(), totalVote: totalVote})
		case CandidacyStatusKindElection:
			entries = append(entries, candidacyEntry{id: c.ID, isNomination: false, bucket: c.Status.Bucket(), totalVote: totalVote})
		case CandidacyStatusKindWinner:
			winnerEntries = append(winnerEntries, winnerEntry{id: c.ID, totalVote: totalVote})
		}
	}

	// Multiple simultaneous winners is a data-integrity condition that
	// should never arise from a correctly-applied change stream (I5); pick
	// deterministically by ascending id, matching the Rust original's
	// "issue a warning if there's more than one winner" TODO resolved to a
	// deterministic choice.
	sort.Slice(winnerEntries, func(i, j int) bool { return winnerEntries[i].id < winnerEntries[j].id })
	var currentWinner *winnerEntry
	if len(winnerEntries) >= 1 {
		currentWinner = &winnerEntries[0]
	}

	newWinnerID, statusChanges := calculateNextStatuses(nominationFillRequirement, electionFillRequirement, currentWinner, entries)

	var changes []StateChange
	// Deterministic order: emit status changes in ascending candidacy id,
	// skipping candidacies whose status is unchanged so that a repeat
	// Recalculate with no intervening state change emits nothing.
	priorStatus := make(map[ID]CandidacyStatus, len(candidacies))
	for _, c := range candidacies {
		priorStatus[c.ID] = c.Status
	}
	changedIDs := make([]ID, 0, len(statusChanges))
	for id, status := range statusChanges {
		if status.Equal(priorStatus[id]) {
			continue
		}
		changedIDs = append(changedIDs, id)
	}
	sort.Slice(changedIDs, func(i, j int) bool { return changedIDs[i] < changedIDs[j] })
	for _, id := range changedIDs {
		changes = append(changes, SetCandidacyStatusChange(id, statusChanges[id]))
	}

	if election.Kind != ElectionKindDocument {
		return changes
	}

	candidacyByID := make(map[ID]Candidacy, len(candidacies))
	for _, c := range candidacies {
		candidacyByID[c.ID] = c
	}

	if newWinnerID != nil {
		if winnerCandidacy, ok := candidacyByID[*newWinnerID]; ok && winnerCandidacy.Content.Kind() == CandidacyContentKindDocument {
			for _, sub := range winnerCandidacy.Content.SubElections() {
				changes = append(changes, InsertElectionChange(sub.MakeElection(winnerCandidacy.ID)))
			}
		}
	}

	// Tear down the prior winner's subtree only when the seat actually
	// changed hands: calculateNextStatuses never reports the incumbent
	// itself as newWinnerID, so a non-nil newWinnerID here always means a
	// distinct candidacy displaced currentWinner. Tearing down on every
	// tick regardless of change would violate the idempotence requirement
	// that a Recalculate with no intervening state change produce an empty
	// change vector (spec.md §4.3 "Ordering and idempotence").
	if newWinnerID != nil && currentWinner != nil {
		changes = append(changes, tearDownDocument(state, currentWinner.id)...)
	}

	return changes
}

type candidacyEntry struct {
	id           ID
	isNomination bool
	bucket       Weight
	totalVote    Weight
}

type winnerEntry struct {
	id        ID
	totalVote Weight
}

// calculateNextStatuses implements spec.md §4.3 steps 3-4
// (original_source calculate_next_statuses): per-candidacy bucket
// transitions followed by strict-maximum winner selection among qualifying
// Election-status candidacies.
func calculateNextStatuses(
	nominationFillRequirement Weight,
	electionFillRequirement Weight,
	currentWinner *winnerEntry,
	entries []candidacyEntry,
) (*ID, map[ID]CandidacyStatus) {
	currentWinnerTotalVote := ZeroWeight()
	var currentWinnerID *ID
	if currentWinner != nil {
		currentWinnerTotalVote = currentWinner.totalVote
		id := currentWinner.id
		currentWinnerID = &id
	}

	statuses := make(map[ID]CandidacyStatus, len(entries))
	var qualifiers []candidacyEntry

	for _, e := range entries {
		if e.isNomination {
			newBucket := MaxWeight(e.bucket.Add(e.totalVote), ZeroWeight())
			if newBucket.Cmp(nominationFillRequirement) >= 0 {
				statuses[e.id] = ElectionStatus(ZeroWeight())
			} else {
				statuses[e.id] = NominationStatus(newBucket)
			}
			continue
		}

		newBucket := MaxWeight(e.bucket.Add(e.totalVote.Sub(currentWinnerTotalVote)), ZeroWeight())
		statuses[e.id] = ElectionStatus(newBucket)

		// A non-positive total vote, or a bucket that hasn't reached the
		// fill requirement, can never make this candidacy a winner this
		// tick (spec.md §4.3 step 4) — this also prevents a
		// resignation-attack challenger with total_vote<=0 from ever
		// qualifying.
		if e.totalVote.Sign() <= 0 || newBucket.LessThan(electionFillRequirement) {
			continue
		}
		qualifiers = append(qualifiers, e)
	}

	if newWinnerID := selectWinner(qualifiers); newWinnerID != nil {
		statuses[*newWinnerID] = WinnerStatus()
		return newWinnerID, statuses
	}

	// Tie, or nobody qualified: the prior winner (if any) keeps the seat.
	// A newly-appeared candidacy never inherits a stabilized seat merely by
	// being the sole challenger (spec.md §4.3 step 4, "resignation attack").
	if currentWinnerID != nil {
		statuses[*currentWinnerID] = WinnerStatus()
	}
	return nil, statuses
}

// selectWinner picks the single qualifying candidacy with strictly the
// greatest total_vote, or nil if zero or more than one tie for the maximum
// (original_source calculate_next_statuses' possible_winners tracking: a
// strictly greater total_vote clears the tie set and resets the maximum;
// an equal total_vote is appended to it).
func selectWinner(qualifiers []candidacyEntry) *ID {
	positiveFilledMaximum := ZeroWeight()
	var possibleWinners []ID
	haveMaximum := false

	for _, e := range qualifiers {
		switch {
		case !haveMaximum || e.totalVote.GreaterThan(positiveFilledMaximum):
			positiveFilledMaximum = e.totalVote
			haveMaximum = true
			possibleWinners = []ID{e.id}
		case e.totalVote.Equal(positiveFilledMaximum):
			possibleWinners = append(possibleWinners, e.id)
		}
	}

	if len(possibleWinners) == 1 {
		return &possibleWinners[0]
	}
	return nil
}

// tearDownDocument recursively removes a displaced document winner and
// every election/candidacy it transitively defined (spec.md §4.3 step 5,
// original_source delete_under_document). It uses an explicit worklist
// rather than native recursion to bound stack usage on pathological
// constitution trees (spec.md §9).
func tearDownDocument(state *State, displacedCandidacyID ID) []StateChange {
	var changes []StateChange
	worklist := []ID{displacedCandidacyID}

	for len(worklist) > 0 {
		candidacyID := worklist[0]
		worklist = worklist[1:]

		changes = append(changes, RemoveCandidacyChange(candidacyID))

		var definedElections []Election
		for _, e := range state.Elections() {
			if e.DefiningDocumentID != nil && *e.DefiningDocumentID == candidacyID {
				definedElections = append(definedElections, e)
			}
		}
		sort.Slice(definedElections, func(i, j int) bool { return definedElections[i].ID < definedElections[j].ID })

		for _, e := range definedElections {
			changes = append(changes, RemoveElectionChange(e.ID))

			var childCandidacies []Candidacy
			for _, c := range state.Candidacies() {
				if c.ElectionID == e.ID {
					childCandidacies = append(childCandidacies, c)
				}
			}
			sort.Slice(childCandidacies, func(i, j int) bool { return childCandidacies[i].ID < childCandidacies[j].ID })
			for _, c := range childCandidacies {
				worklist = append(worklist, c.ID)
			}
		}
	}

	return changes
}
