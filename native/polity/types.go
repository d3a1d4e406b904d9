package polity

import "fmt"

// ID is the opaque, non-zero integer handle shared by persons, elections,
// and candidacies. The distinguished root election uses ID 0; every other
// entity's ID must be non-zero (spec.md §6).
type ID uint64

// RootElectionID is the id of the distinguished, un-removable root
// constitution election (spec.md §3).
const RootElectionID ID = 0

// ElectionKind distinguishes Document elections (which define sub-elections
// when won) from Office elections (which do not).
type ElectionKind uint8

const (
	ElectionKindUnspecified ElectionKind = iota
	ElectionKindDocument
	ElectionKindOffice
)

func (k ElectionKind) String() string {
	switch k {
	case ElectionKindDocument:
		return "document"
	case ElectionKindOffice:
		return "office"
	default:
		return "unspecified"
	}
}

// SelectionMethodKind identifies the allocation family an election accepts,
// independent of the quadratic-scaling flag.
type SelectionMethodKind uint8

const (
	SelectionMethodKindUnspecified SelectionMethodKind = iota
	SelectionMethodKindResource
	SelectionMethodKindResourceScore
)

func (k SelectionMethodKind) String() string {
	switch k {
	case SelectionMethodKindResource:
		return "resource"
	case SelectionMethodKindResourceScore:
		return "resource_score"
	default:
		return "unspecified"
	}
}

// SelectionMethod is the tagged union of the four selection-method variants
// recognized by the vote kernel (spec.md §4.1). The zero value is invalid;
// use the constructors below.
type SelectionMethod struct {
	kind               SelectionMethodKind
	scaleQuadratically bool
	// useAveraging is carried for structural fidelity with the original
	// ResourceScore{scale_quadratically, use_averaging} variant but is not
	// consulted anywhere in aggregation — the original never reads it
	// either (see SPEC_FULL.md §C.2).
	useAveraging bool
}

// NewResourceMethod builds a Resource selection method.
func NewResourceMethod(scaleQuadratically bool) SelectionMethod {
	return SelectionMethod{kind: SelectionMethodKindResource, scaleQuadratically: scaleQuadratically}
}

// NewResourceScoreMethod builds a ResourceScore selection method.
func NewResourceScoreMethod(scaleQuadratically, useAveraging bool) SelectionMethod {
	return SelectionMethod{
		kind:               SelectionMethodKindResourceScore,
		scaleQuadratically: scaleQuadratically,
		useAveraging:       useAveraging,
	}
}

// Kind reports the selection-method family.
func (m SelectionMethod) Kind() SelectionMethodKind { return m.kind }

// ScaleQuadratically reports whether per-vote contributions are scaled by
// sign(w)*sqrt(|w|) before aggregation.
func (m SelectionMethod) ScaleQuadratically() bool { return m.scaleQuadratically }

// UseAveraging reports the ResourceScore averaging flag. It has no effect on
// aggregation (see SPEC_FULL.md §C.2) and is exposed only for round-tripping
// configuration.
func (m SelectionMethod) UseAveraging() bool { return m.useAveraging }

// FillMethodKind distinguishes the closed set of fill-method variants.
type FillMethodKind uint8

const (
	FillMethodKindUnspecified FillMethodKind = iota
	FillMethodKindConstant
	// FillMethodKindNone is valid only for NominationFillMethod: it marks an
	// election that never nominates, so EnterCandidacy starts candidacies
	// directly in Election status (spec.md §4.2).
	FillMethodKindNone
)

// FillMethod is the tagged union backing NominationFillMethod and
// ElectionFillMethod (original_source NominationFillMethod/
// ElectionFillMethod). Only FillMethodKindConstant carries a payload.
type FillMethod struct {
	kind     FillMethodKind
	constant Weight
}

// ConstantFill builds a Constant(weight) fill method.
func ConstantFill(threshold Weight) FillMethod {
	return FillMethod{kind: FillMethodKindConstant, constant: threshold}
}

// NoFill builds the None nomination-fill method (only legal for
// NominationFillMethod).
func NoFill() FillMethod { return FillMethod{kind: FillMethodKindNone} }

// Kind reports which fill-method variant is populated.
func (f FillMethod) Kind() FillMethodKind { return f.kind }

// Constant returns the threshold payload. It panics if Kind() is not
// FillMethodKindConstant; callers should check Kind() first, matching the
// exhaustive-match discipline the Rust original enforces at compile time.
func (f FillMethod) Constant() Weight {
	if f.kind != FillMethodKindConstant {
		panic("polity: Constant() called on non-constant FillMethod")
	}
	return f.constant
}

// Election is the in-memory record for a single election (spec.md §3).
type Election struct {
	ID                   ID
	Title                string
	Description          string
	Kind                 ElectionKind
	SelectionMethod      SelectionMethod
	NominationFillMethod FillMethod
	ElectionFillMethod   FillMethod
	// DefiningDocumentID is the candidacy that created this election via a
	// document cascade. It is unset (nil) only for the root election.
	DefiningDocumentID *ID
}

// IsRoot reports whether e is the distinguished root constitution election.
func (e Election) IsRoot() bool { return e.ID == RootElectionID }

// CandidacyContentKind distinguishes Office and Document candidacy content.
type CandidacyContentKind uint8

const (
	CandidacyContentKindUnspecified CandidacyContentKind = iota
	CandidacyContentKindOffice
	CandidacyContentKindDocument
)

// SubElection describes one sub-election a Document candidacy will
// instantiate if it becomes Winner (original_source InputElection, minus the
// fields supplied at instantiation time: id is caller-assigned,
// defining_document_id is filled in by the cascade).
type SubElection struct {
	ID                   ID
	Title                string
	Description          string
	Kind                 ElectionKind
	SelectionMethod      SelectionMethod
	NominationFillMethod FillMethod
	ElectionFillMethod   FillMethod
}

// MakeElection instantiates the concrete Election a SubElection becomes once
// its defining document candidacy wins (original_source
// InputElection::make_election).
func (s SubElection) MakeElection(definingDocumentID ID) Election {
	docID := definingDocumentID
	return Election{
		ID:                   s.ID,
		Title:                s.Title,
		Description:          s.Description,
		Kind:                 s.Kind,
		SelectionMethod:      s.SelectionMethod,
		NominationFillMethod: s.NominationFillMethod,
		ElectionFillMethod:   s.ElectionFillMethod,
		DefiningDocumentID:   &docID,
	}
}

// CandidacyContent is the tagged union of Office/Document candidacy payloads
// (spec.md §3). The zero value is invalid.
type CandidacyContent struct {
	kind         CandidacyContentKind
	pitch        string
	body         string
	subElections []SubElection
}

// NewOfficeContent builds Office candidacy content.
func NewOfficeContent(pitch string) CandidacyContent {
	return CandidacyContent{kind: CandidacyContentKindOffice, pitch: pitch}
}

// NewDocumentContent builds Document candidacy content.
func NewDocumentContent(pitch, body string, subElections []SubElection) CandidacyContent {
	return CandidacyContent{
		kind:         CandidacyContentKindDocument,
		pitch:        pitch,
		body:         body,
		subElections: append([]SubElection(nil), subElections...),
	}
}

// Kind reports which content variant is populated.
func (c CandidacyContent) Kind() CandidacyContentKind { return c.kind }

// Pitch returns the short pitch text common to both content kinds.
func (c CandidacyContent) Pitch() string { return c.pitch }

// Body returns the long-form body text. Only meaningful for Document content.
func (c CandidacyContent) Body() string { return c.body }

// SubElections returns the sub-elections a Document candidacy activates on
// winning. Only meaningful for Document content.
func (c CandidacyContent) SubElections() []SubElection {
	return append([]SubElection(nil), c.subElections...)
}

// matchesElectionKind reports whether c is legal content for an election of
// the given kind (spec.md §3 invariant I2).
func (c CandidacyContent) matchesElectionKind(kind ElectionKind) bool {
	switch {
	case c.kind == CandidacyContentKindDocument && kind == ElectionKindDocument:
		return true
	case c.kind == CandidacyContentKindOffice && kind == ElectionKindOffice:
		return true
	default:
		return false
	}
}

// CandidacyStatusKind distinguishes the three candidacy lifecycle phases.
type CandidacyStatusKind uint8

const (
	CandidacyStatusKindUnspecified CandidacyStatusKind = iota
	CandidacyStatusKindNomination
	CandidacyStatusKindElection
	CandidacyStatusKindWinner
)

func (k CandidacyStatusKind) String() string {
	switch k {
	case CandidacyStatusKindNomination:
		return "nomination"
	case CandidacyStatusKindElection:
		return "election"
	case CandidacyStatusKindWinner:
		return "winner"
	default:
		return "unspecified"
	}
}

// CandidacyStatus is the tagged union Nomination(bucket) | Election(bucket)
// | Winner (spec.md §3). The zero value has CandidacyStatusKindUnspecified
// and is not a valid status, so every constructor site is explicit about
// which variant it builds.
type CandidacyStatus struct {
	kind   CandidacyStatusKind
	bucket Weight
}

// NominationStatus builds a Nomination(bucket) status.
func NominationStatus(bucket Weight) CandidacyStatus {
	return CandidacyStatus{kind: CandidacyStatusKindNomination, bucket: bucket}
}

// ElectionStatus builds an Election(bucket) status.
func ElectionStatus(bucket Weight) CandidacyStatus {
	return CandidacyStatus{kind: CandidacyStatusKindElection, bucket: bucket}
}

// WinnerStatus builds a Winner status.
func WinnerStatus() CandidacyStatus {
	return CandidacyStatus{kind: CandidacyStatusKindWinner}
}

// Kind reports which status variant is populated.
func (s CandidacyStatus) Kind() CandidacyStatusKind { return s.kind }

// Bucket returns the stabilization/nomination bucket value. It panics if
// Kind() is Winner, which carries no bucket.
func (s CandidacyStatus) Bucket() Weight {
	if s.kind == CandidacyStatusKindWinner {
		panic("polity: Bucket() called on Winner status")
	}
	return s.bucket
}

func (s CandidacyStatus) Equal(other CandidacyStatus) bool {
	if s.kind != other.kind {
		return false
	}
	if s.kind == CandidacyStatusKindWinner {
		return true
	}
	return s.bucket.Equal(other.bucket)
}

func (s CandidacyStatus) String() string {
	if s.kind == CandidacyStatusKindWinner {
		return "winner"
	}
	return fmt.Sprintf("%s(%s)", s.kind, s.bucket)
}

// Person is a voter (spec.md §3).
type Person struct {
	ID           ID
	GivenWeight  Weight
}

// Candidacy is a contender in an election (spec.md §3).
type Candidacy struct {
	ID         ID
	OwnerID    ID
	ElectionID ID
	Content    CandidacyContent
	Status     CandidacyStatus
}

// ResourceAllocation is a single-candidacy weighted allocation, compatible
// with Resource{...} selection methods (spec.md §3).
type ResourceAllocation struct {
	VoterID     ID
	ElectionID  ID
	CandidacyID ID
	Weight      Weight
}

// TotalWeight returns the allocation's contribution to the voter's spent
// budget.
func (a ResourceAllocation) TotalWeight() Weight { return a.Weight }

// ResourceScoreAllocation is a multi-candidacy scored allocation, compatible
// with ResourceScore{...} selection methods (spec.md §3).
type ResourceScoreAllocation struct {
	VoterID          ID
	ElectionID       ID
	ApproveWeight    Weight
	DisapproveWeight Weight
	// Scores maps candidacy id to a signed fixed-precision score; a
	// non-negative score is weighted by ApproveWeight, a negative score by
	// DisapproveWeight, and the vote contribution is score*weight (spec.md
	// §4.1) — matching original_source's scores: HashMap<usize, Weight>
	// rather than narrowing to an integer multiplier.
	Scores map[ID]Weight
}

// TotalWeight returns approve_weight + disapprove_weight, the allocation's
// contribution to the voter's spent budget (spec.md §3).
func (a ResourceScoreAllocation) TotalWeight() Weight {
	return a.ApproveWeight.Add(a.DisapproveWeight)
}

// CandidacyIDs returns the candidacies this allocation references, in
// unspecified order (original_source Allocation::iter_candidacies).
func (a ResourceScoreAllocation) CandidacyIDs() []ID {
	ids := make([]ID, 0, len(a.Scores))
	for id := range a.Scores {
		ids = append(ids, id)
	}
	return ids
}
