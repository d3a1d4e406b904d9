package polity

// State holds every entity table for a single polity (spec.md §3). Tables
// own their entities outright; cross-entity references are always by ID,
// never by pointer or embedding (spec.md §9) — this keeps State copyable by
// value-semantics of its maps' contents and keeps the validator/recalculator
// able to borrow it read-only without aliasing concerns.
type State struct {
	RequiredEqualWeight *Weight

	persons     map[ID]Person
	elections   map[ID]Election
	candidacies map[ID]Candidacy

	resourceAllocations      map[ID][]ResourceAllocation
	resourceScoreAllocations map[ID][]ResourceScoreAllocation
}

// newState builds an empty container; callers should use Builder instead of
// calling this directly, so the root election invariant is always upheld.
func newState() *State {
	return &State{
		persons:                  make(map[ID]Person),
		elections:                make(map[ID]Election),
		candidacies:              make(map[ID]Candidacy),
		resourceAllocations:      make(map[ID][]ResourceAllocation),
		resourceScoreAllocations: make(map[ID][]ResourceScoreAllocation),
	}
}

// Person looks up a person by id.
func (s *State) Person(id ID) (Person, bool) {
	p, ok := s.persons[id]
	return p, ok
}

// Election looks up an election by id.
func (s *State) Election(id ID) (Election, bool) {
	e, ok := s.elections[id]
	return e, ok
}

// Candidacy looks up a candidacy by id.
func (s *State) Candidacy(id ID) (Candidacy, bool) {
	c, ok := s.candidacies[id]
	return c, ok
}

// Persons returns every person in unspecified order. Callers needing a
// deterministic order should sort by ID.
func (s *State) Persons() []Person {
	out := make([]Person, 0, len(s.persons))
	for _, p := range s.persons {
		out = append(out, p)
	}
	return out
}

// Elections returns every election in unspecified order.
func (s *State) Elections() []Election {
	out := make([]Election, 0, len(s.elections))
	for _, e := range s.elections {
		out = append(out, e)
	}
	return out
}

// Candidacies returns every candidacy in unspecified order.
func (s *State) Candidacies() []Candidacy {
	out := make([]Candidacy, 0, len(s.candidacies))
	for _, c := range s.candidacies {
		out = append(out, c)
	}
	return out
}

// ResourceAllocationsOf returns voter's current resource-allocation set.
func (s *State) ResourceAllocationsOf(voter ID) []ResourceAllocation {
	return append([]ResourceAllocation(nil), s.resourceAllocations[voter]...)
}

// ResourceScoreAllocationsOf returns voter's current resource-score
// allocation set.
func (s *State) ResourceScoreAllocationsOf(voter ID) []ResourceScoreAllocation {
	return append([]ResourceScoreAllocation(nil), s.resourceScoreAllocations[voter]...)
}

// allResourceAllocations ranges over every voter's resource allocations.
func (s *State) allResourceAllocations(fn func(ResourceAllocation)) {
	for _, list := range s.resourceAllocations {
		for _, a := range list {
			fn(a)
		}
	}
}

// allResourceScoreAllocations ranges over every voter's resource-score
// allocations.
func (s *State) allResourceScoreAllocations(fn func(ResourceScoreAllocation)) {
	for _, list := range s.resourceScoreAllocations {
		for _, a := range list {
			fn(a)
		}
	}
}

// clone makes a deep copy of every table so a caller can read it without
// racing a concurrent Apply. Entity values are copied by assignment: the
// pointers, slices and maps they carry (Weight values, DefiningDocumentID,
// CandidacyContent's sub-elections, an allocation's Scores) are shared with
// the original but never mutated in place once constructed, so only the
// tables and their slice-valued entries need fresh backing storage.
func (s *State) clone() *State {
	out := &State{
		RequiredEqualWeight:      s.RequiredEqualWeight,
		persons:                  make(map[ID]Person, len(s.persons)),
		elections:                make(map[ID]Election, len(s.elections)),
		candidacies:              make(map[ID]Candidacy, len(s.candidacies)),
		resourceAllocations:      make(map[ID][]ResourceAllocation, len(s.resourceAllocations)),
		resourceScoreAllocations: make(map[ID][]ResourceScoreAllocation, len(s.resourceScoreAllocations)),
	}
	for id, p := range s.persons {
		out.persons[id] = p
	}
	for id, e := range s.elections {
		out.elections[id] = e
	}
	for id, c := range s.candidacies {
		out.candidacies[id] = c
	}
	for voter, allocs := range s.resourceAllocations {
		out.resourceAllocations[voter] = append([]ResourceAllocation(nil), allocs...)
	}
	for voter, allocs := range s.resourceScoreAllocations {
		out.resourceScoreAllocations[voter] = append([]ResourceScoreAllocation(nil), allocs...)
	}
	return out
}

// StateChangeKind discriminates the StateChange tagged union.
type StateChangeKind uint8

const (
	StateChangeKindUnspecified StateChangeKind = iota
	StateChangeInsertPerson
	StateChangeRemovePerson
	StateChangeSetResourceAllocations
	StateChangeSetResourceScoreAllocations
	StateChangeInsertElection
	StateChangeRemoveElection
	StateChangeInsertCandidacy
	StateChangeRemoveCandidacy
	StateChangeSetCandidacyStatus
)

// StateChange is the append-only change-log record emitted by Calculate and
// consumed by State.Apply (spec.md §4.4). Exactly one group of payload
// fields is meaningful per Kind; this mirrors the Rust original's
// PolityStateChange enum via an explicit discriminant, per spec.md §9's
// guidance for languages without native tagged unions.
type StateChange struct {
	Kind StateChangeKind

	PersonID    ID
	GivenWeight Weight

	VoterID                  ID
	ResourceAllocations      []ResourceAllocation
	ResourceScoreAllocations []ResourceScoreAllocation

	Election   Election
	ElectionID ID

	Candidacy       Candidacy
	CandidacyID     ID
	CandidacyStatus CandidacyStatus
}

func InsertPersonChange(id ID, givenWeight Weight) StateChange {
	return StateChange{Kind: StateChangeInsertPerson, PersonID: id, GivenWeight: givenWeight}
}

func RemovePersonChange(id ID) StateChange {
	return StateChange{Kind: StateChangeRemovePerson, PersonID: id}
}

func SetResourceAllocationsChange(voter ID, allocations []ResourceAllocation) StateChange {
	return StateChange{Kind: StateChangeSetResourceAllocations, VoterID: voter, ResourceAllocations: allocations}
}

func SetResourceScoreAllocationsChange(voter ID, allocations []ResourceScoreAllocation) StateChange {
	return StateChange{Kind: StateChangeSetResourceScoreAllocations, VoterID: voter, ResourceScoreAllocations: allocations}
}

func InsertElectionChange(e Election) StateChange {
	return StateChange{Kind: StateChangeInsertElection, Election: e, ElectionID: e.ID}
}

func RemoveElectionChange(id ID) StateChange {
	return StateChange{Kind: StateChangeRemoveElection, ElectionID: id}
}

func InsertCandidacyChange(c Candidacy) StateChange {
	return StateChange{Kind: StateChangeInsertCandidacy, Candidacy: c, CandidacyID: c.ID}
}

func RemoveCandidacyChange(id ID) StateChange {
	return StateChange{Kind: StateChangeRemoveCandidacy, CandidacyID: id}
}

func SetCandidacyStatusChange(id ID, status CandidacyStatus) StateChange {
	return StateChange{Kind: StateChangeSetCandidacyStatus, CandidacyID: id, CandidacyStatus: status}
}

// Apply runs every change in order against the state. Apply assumes
// validated input — Calculate is solely responsible for validation — and is
// total and structural (spec.md §4.4): it never returns an error and never
// needs to re-check invariants already enforced upstream.
func (s *State) Apply(changes []StateChange) {
	for _, c := range changes {
		s.apply(c)
	}
}

func (s *State) apply(c StateChange) {
	switch c.Kind {
	case StateChangeInsertPerson:
		s.persons[c.PersonID] = Person{ID: c.PersonID, GivenWeight: c.GivenWeight}
	case StateChangeRemovePerson:
		delete(s.persons, c.PersonID)
	case StateChangeSetResourceAllocations:
		s.resourceAllocations[c.VoterID] = c.ResourceAllocations
	case StateChangeSetResourceScoreAllocations:
		s.resourceScoreAllocations[c.VoterID] = c.ResourceScoreAllocations
	case StateChangeInsertElection:
		s.elections[c.ElectionID] = c.Election
	case StateChangeRemoveElection:
		if c.ElectionID == RootElectionID {
			// The root election can never be removed (spec.md §3); a
			// well-formed change stream never asks for this, but Apply
			// stays total rather than panicking on a corrupt replay.
			return
		}
		delete(s.elections, c.ElectionID)
	case StateChangeInsertCandidacy:
		s.candidacies[c.CandidacyID] = c.Candidacy
	case StateChangeSetCandidacyStatus:
		if candidacy, ok := s.candidacies[c.CandidacyID]; ok {
			candidacy.Status = c.CandidacyStatus
			s.candidacies[c.CandidacyID] = candidacy
		}
	case StateChangeRemoveCandidacy:
		delete(s.candidacies, c.CandidacyID)
	}
}
