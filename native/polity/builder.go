package polity

// Builder constructs an initial State with an empty person table and a
// single root constitution election (spec.md §4.5), mirroring the Rust
// original's PolityStateBuilder fluent-option style.
type Builder struct {
	requiredEqualWeight *Weight
	rootSelectionMethod SelectionMethod

	rootNominationFillMethod FillMethod
	rootElectionFillMethod   FillMethod
}

// NewBuilder starts a Builder with defaults matching the Rust original:
// linear ResourceScore selection on the root election, no required-equal-
// weight policy, no nomination fill requirement, and a constant election
// fill requirement of 100.
func NewBuilder() *Builder {
	return &Builder{
		rootSelectionMethod:      NewResourceScoreMethod(false, false),
		rootNominationFillMethod: NoFill(),
		rootElectionFillMethod:   ConstantFill(WeightFromInt64(100)),
	}
}

// WithRequiredEqualWeight constrains every Person entering the polity to the
// given weight.
func (b *Builder) WithRequiredEqualWeight(weight Weight) *Builder {
	b.requiredEqualWeight = &weight
	return b
}

// WithResource selects linear Resource voting on the root election.
func (b *Builder) WithResource() *Builder {
	b.rootSelectionMethod = NewResourceMethod(false)
	return b
}

// WithResourceScore selects linear ResourceScore voting on the root
// election.
func (b *Builder) WithResourceScore() *Builder {
	b.rootSelectionMethod = NewResourceScoreMethod(false, false)
	return b
}

// WithQuadraticResource selects quadratic Resource voting on the root
// election.
func (b *Builder) WithQuadraticResource() *Builder {
	b.rootSelectionMethod = NewResourceMethod(true)
	return b
}

// WithQuadraticResourceScore selects quadratic ResourceScore voting on the
// root election.
func (b *Builder) WithQuadraticResourceScore() *Builder {
	b.rootSelectionMethod = NewResourceScoreMethod(true, false)
	return b
}

// WithFillMethods overrides the root election's nomination and election
// fill requirements (spec.md §4.5, config.Config.NominationFillConstant/
// ElectionFillConstant).
func (b *Builder) WithFillMethods(nomination, election FillMethod) *Builder {
	b.rootNominationFillMethod = nomination
	b.rootElectionFillMethod = election
	return b
}

// Finish builds the State.
func (b *Builder) Finish() *State {
	s := newState()
	s.RequiredEqualWeight = b.requiredEqualWeight
	s.elections[RootElectionID] = Election{
		ID:                   RootElectionID,
		Title:                "root constitution",
		Description:          "root constitution",
		Kind:                 ElectionKindDocument,
		SelectionMethod:      b.rootSelectionMethod,
		NominationFillMethod: b.rootNominationFillMethod,
		ElectionFillMethod:   b.rootElectionFillMethod,
		DefiningDocumentID:   nil,
	}
	return s
}
