package polity

import "fmt"

// TableKind identifies which entity table an IdConflict/NotFound error
// refers to (original_source TableKind).
type TableKind uint8

const (
	TableKindUnspecified TableKind = iota
	TableKindPerson
	TableKindElection
	TableKindCandidacy
)

func (k TableKind) String() string {
	switch k {
	case TableKindPerson:
		return "person"
	case TableKindElection:
		return "election"
	case TableKindCandidacy:
		return "candidacy"
	default:
		return "unspecified"
	}
}

// ActionError is the common interface satisfied by every error variant in
// the spec.md §7 taxonomy. It exists so callers can range over
// Engine.Submit's error slice uniformly while still being able to type-
// switch or errors.As to a specific variant for payload access.
type ActionError interface {
	error
	actionError()
}

// ErrIdConflict is returned when an Enter* action names an id already
// present in its table.
type ErrIdConflict struct {
	ID    ID
	Table TableKind
}

func (e ErrIdConflict) actionError() {}
func (e ErrIdConflict) Error() string {
	return fmt.Sprintf("polity: id %d already present in %s table", e.ID, e.Table)
}

// ErrNotFound is returned when an action references an entity missing from
// its table.
type ErrNotFound struct {
	ID    ID
	Table TableKind
}

func (e ErrNotFound) actionError() {}
func (e ErrNotFound) Error() string {
	return fmt.Sprintf("polity: %s %d not found", e.Table, e.ID)
}

// ErrNoCandidacy is returned per-allocation when it references a missing
// candidacy.
type ErrNoCandidacy struct {
	CandidacyID ID
	VoterID     ID
}

func (e ErrNoCandidacy) actionError() {}
func (e ErrNoCandidacy) Error() string {
	return fmt.Sprintf("polity: voter %d allocated to missing candidacy %d", e.VoterID, e.CandidacyID)
}

// ErrNoElection is returned per-allocation when it references a missing
// election.
type ErrNoElection struct {
	ElectionID ID
	VoterID    ID
}

func (e ErrNoElection) actionError() {}
func (e ErrNoElection) Error() string {
	return fmt.Sprintf("polity: voter %d allocated to missing election %d", e.VoterID, e.ElectionID)
}

// ErrNotRequiredEqualWeight is returned when EnterPerson's given_weight
// disagrees with the polity's required-equal-weight policy.
type ErrNotRequiredEqualWeight struct {
	PersonID ID
	Found    Weight
	Required Weight
}

func (e ErrNotRequiredEqualWeight) actionError() {}
func (e ErrNotRequiredEqualWeight) Error() string {
	return fmt.Sprintf("polity: person %d given weight %s, required %s", e.PersonID, e.Found, e.Required)
}

// ErrAboveAllowedWeight is returned when a SetAllocations action's total
// weight exceeds the voter's given weight.
type ErrAboveAllowedWeight struct {
	VoterID ID
	Found   Weight
	Given   Weight
}

func (e ErrAboveAllowedWeight) actionError() {}
func (e ErrAboveAllowedWeight) Error() string {
	return fmt.Sprintf("polity: voter %d allocated %s, above given weight %s", e.VoterID, e.Found, e.Given)
}

// ErrMismatchedKind is returned when a candidacy's content variant does not
// match its election's kind.
type ErrMismatchedKind struct {
	CandidacyID  ID
	ExpectedKind ElectionKind
}

func (e ErrMismatchedKind) actionError() {}
func (e ErrMismatchedKind) Error() string {
	return fmt.Sprintf("polity: candidacy %d content does not match election kind %s", e.CandidacyID, e.ExpectedKind)
}

// ErrMismatchedMethod is returned when an allocation's kind is incompatible
// with its election's selection method.
type ErrMismatchedMethod struct {
	VoterID        ID
	ElectionID     ID
	ExpectedMethod SelectionMethodKind
}

func (e ErrMismatchedMethod) actionError() {}
func (e ErrMismatchedMethod) Error() string {
	return fmt.Sprintf("polity: voter %d allocation incompatible with election %d selection method %s", e.VoterID, e.ElectionID, e.ExpectedMethod)
}

// ErrWinningDocumentExit is returned when ExitCandidacy targets a candidacy
// that is the live Winner of a Document election.
type ErrWinningDocumentExit struct {
	CandidacyID ID
}

func (e ErrWinningDocumentExit) actionError() {}
func (e ErrWinningDocumentExit) Error() string {
	return fmt.Sprintf("polity: candidacy %d is a winning document and cannot exit directly", e.CandidacyID)
}
