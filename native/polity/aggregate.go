package polity

// aggregateResourceVotes sums each ResourceAllocation's weight into its
// target candidacy's total (spec.md §4.1, linear Resource).
func aggregateResourceVotes(allocations []ResourceAllocation) map[ID]Weight {
	totals := make(map[ID]Weight, len(allocations))
	for _, a := range allocations {
		totals[a.CandidacyID] = totals[a.CandidacyID].Add(a.Weight)
	}
	return totals
}

// aggregateQuadraticResourceVotes applies sign(w)*sqrt(|w|) to each
// allocation's weight before summing (spec.md §4.1, quadratic Resource).
func aggregateQuadraticResourceVotes(allocations []ResourceAllocation) map[ID]Weight {
	totals := make(map[ID]Weight, len(allocations))
	for _, a := range allocations {
		vote := QuadraticVote(a.Weight)
		totals[a.CandidacyID] = totals[a.CandidacyID].Add(vote)
	}
	return totals
}

// aggregateResourceScoreVotes sums score*approve_or_disapprove_weight per
// candidacy (spec.md §4.1, linear ResourceScore).
func aggregateResourceScoreVotes(allocations []ResourceScoreAllocation) map[ID]Weight {
	totals := make(map[ID]Weight)
	for _, a := range allocations {
		for candidacyID, score := range a.Scores {
			base := a.ApproveWeight
			if score.Sign() < 0 {
				base = a.DisapproveWeight
			}
			totals[candidacyID] = totals[candidacyID].Add(score.Mul(base))
		}
	}
	return totals
}

// aggregateQuadraticResourceScoreVotes applies sign(w)*sqrt(|w|) to the
// approve/disapprove weights before the same score-weighted sum (spec.md
// §4.1, quadratic ResourceScore).
func aggregateQuadraticResourceScoreVotes(allocations []ResourceScoreAllocation) map[ID]Weight {
	totals := make(map[ID]Weight)
	for _, a := range allocations {
		approve := QuadraticVote(a.ApproveWeight)
		disapprove := QuadraticVote(a.DisapproveWeight)
		for candidacyID, score := range a.Scores {
			base := approve
			if score.Sign() < 0 {
				base = disapprove
			}
			totals[candidacyID] = totals[candidacyID].Add(score.Mul(base))
		}
	}
	return totals
}

// aggregateElectionVotes dispatches to the aggregator matching an election's
// selection method, given the allocations addressed to that election
// (spec.md §4.2 step b). Absent candidacies default to zero via the
// zero-value lookup helper voteTotal.
func aggregateElectionVotes(method SelectionMethod, resourceAllocs []ResourceAllocation, resourceScoreAllocs []ResourceScoreAllocation) map[ID]Weight {
	switch method.Kind() {
	case SelectionMethodKindResource:
		if method.ScaleQuadratically() {
			return aggregateQuadraticResourceVotes(resourceAllocs)
		}
		return aggregateResourceVotes(resourceAllocs)
	case SelectionMethodKindResourceScore:
		if method.ScaleQuadratically() {
			return aggregateQuadraticResourceScoreVotes(resourceScoreAllocs)
		}
		return aggregateResourceScoreVotes(resourceScoreAllocs)
	default:
		return map[ID]Weight{}
	}
}

// voteTotal looks up a candidacy's aggregated total, defaulting to zero for
// absent keys (spec.md §4.1).
func voteTotal(totals map[ID]Weight, candidacyID ID) Weight {
	if w, ok := totals[candidacyID]; ok {
		return w
	}
	return ZeroWeight()
}
