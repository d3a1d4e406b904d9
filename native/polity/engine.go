package polity

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adaptive-democracy/tools/core/events"
	"github.com/adaptive-democracy/tools/observability/metrics"
)

// Engine is the single-writer façade over a State: it validates and applies
// actions under one lock, and logs/traces/emits around the pure
// Calculate/Apply pair (SPEC_FULL.md §D).
type Engine struct {
	mu sync.Mutex

	state  *State
	policy FillRequirementPolicy

	logger  *slog.Logger
	metrics *metrics.PolityMetrics
	emitter events.Emitter
	tracer  trace.Tracer
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger injects a structured logger. The zero value discards.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics injects a Prometheus instrument set.
func WithMetrics(m *metrics.PolityMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithEmitter injects an event emitter. The default is events.NoopEmitter.
func WithEmitter(emitter events.Emitter) EngineOption {
	return func(e *Engine) { e.emitter = emitter }
}

// WithPolicy overrides the default ConstantPolicy fill-requirement policy.
func WithPolicy(policy FillRequirementPolicy) EngineOption {
	return func(e *Engine) { e.policy = policy }
}

// NewEngine wraps state behind a single-writer lock with the given options.
func NewEngine(state *State, opts ...EngineOption) *Engine {
	e := &Engine{
		state:   state,
		policy:  ConstantPolicy{},
		logger:  slog.Default(),
		emitter: events.NoopEmitter{},
		tracer:  otel.Tracer("adaptive-democracy/polity"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Submit validates action against the current state and, if it produces no
// whole-action errors, applies the resulting changes (spec.md §4.2/§4.4).
// A Recalculate action is dispatched through the same path so callers never
// need to special-case it.
func (e *Engine) Submit(ctx context.Context, action Action) ([]ActionError, []StateChange) {
	correlationID := uuid.NewString()
	ctx, span := e.tracer.Start(ctx, "polity.submit",
		trace.WithAttributes(attribute.Int("action.kind", int(action.Kind))))
	defer span.End()

	logger := e.logger
	if logger != nil {
		logger = logger.With(slog.String("correlation_id", correlationID))
	}

	e.mu.Lock()
	errs, changes := e.calculateLocked(ctx, action)
	// A whole-action error comes back with no changes, so whatever changes
	// Calculate did return survived validation and are committed, even when
	// SetAllocations reported per-allocation errors alongside them.
	e.state.Apply(changes)
	wonCandidacies := winnerChanges(changes)
	electionOf := make(map[ID]ID, len(wonCandidacies))
	for _, c := range wonCandidacies {
		if candidacy, ok := e.state.Candidacy(c.CandidacyID); ok {
			electionOf[c.CandidacyID] = candidacy.ElectionID
		}
	}
	e.mu.Unlock()

	if e.metrics != nil {
		e.metrics.ObserveActionSubmitted(actionKindLabel(action.Kind))
		for _, err := range errs {
			e.metrics.ObserveActionError(errorTaxonomyLabel(err))
		}
	}

	if len(errs) > 0 {
		span.SetStatus(codes.Error, "action rejected")
		for _, err := range errs {
			span.RecordError(err)
		}
	}

	if logger != nil {
		logger.Info("action submitted",
			slog.String("kind", actionKindLabel(action.Kind)),
			slog.Int("errors", len(errs)),
			slog.Int("changes", len(changes)))
	}

	e.emitter.Emit(events.ActionSubmitted{
		CorrelationID: correlationID,
		ActionKind:    actionKindLabel(action.Kind),
		ErrorCount:    len(errs),
		ChangeCount:   len(changes),
	})

	for _, c := range wonCandidacies {
		e.emitter.Emit(events.CandidacyWon{
			ElectionID:  uint64(electionOf[c.CandidacyID]),
			CandidacyID: uint64(c.CandidacyID),
		})
	}

	if action.Kind == ActionRecalculate && len(errs) == 0 {
		if teardownEntities := countTeardownEntities(changes); teardownEntities > 0 && e.metrics != nil {
			e.metrics.ObserveCascadeTeardown(teardownEntities)
		}
		e.emitter.Emit(events.RecalculationCompleted{
			CorrelationID:       correlationID,
			ElectionsVisited:    countElectionsTouched(changes),
			WinnersChanged:      len(wonCandidacies),
			CandidaciesTornDown: countCandidaciesTornDown(changes),
		})
	}

	return errs, changes
}

// calculateLocked runs the pure validator. It assumes mu is already held.
func (e *Engine) calculateLocked(ctx context.Context, action Action) ([]ActionError, []StateChange) {
	if action.Kind == ActionRecalculate {
		errs, changes := performRecalculationWithPolicy(e.state, e.policy)
		if e.metrics != nil {
			e.metrics.ObserveRecalculationTick(countElectionsTouched(changes))
		}
		return errs, changes
	}
	return Calculate(e.state, action)
}

// Snapshot returns a deep copy of the current state, taken under the writer
// lock. Submit and Replay mutate the live state's tables directly, so
// handing out that pointer would let a concurrent reader race a writer on
// the same maps; spec.md §5's single-writer model makes Engine the
// synchronization boundary for every read as well as every write.
func (e *Engine) Snapshot() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Replay re-applies a previously recorded change log against state, under
// the same writer lock Submit uses. It never validates: a replayed log is
// assumed to have already passed Calculate when it was first produced
// (spec.md §4.4).
func (e *Engine) Replay(ctx context.Context, changes []StateChange) {
	_, span := e.tracer.Start(ctx, "polity.replay", trace.WithAttributes(attribute.Int("changes", len(changes))))
	defer span.End()

	e.mu.Lock()
	e.state.Apply(changes)
	e.mu.Unlock()
}

func actionKindLabel(kind ActionKind) string {
	switch kind {
	case ActionEnterPerson:
		return "enter_person"
	case ActionExitPerson:
		return "exit_person"
	case ActionSetAllocations:
		return "set_allocations"
	case ActionEnterCandidacy:
		return "enter_candidacy"
	case ActionExitCandidacy:
		return "exit_candidacy"
	case ActionRecalculate:
		return "recalculate"
	default:
		return "unspecified"
	}
}

func errorTaxonomyLabel(err ActionError) string {
	switch err.(type) {
	case ErrIdConflict:
		return "id_conflict"
	case ErrNotFound:
		return "not_found"
	case ErrNoCandidacy:
		return "no_candidacy"
	case ErrNoElection:
		return "no_election"
	case ErrNotRequiredEqualWeight:
		return "not_required_equal_weight"
	case ErrAboveAllowedWeight:
		return "above_allowed_weight"
	case ErrMismatchedKind:
		return "mismatched_kind"
	case ErrMismatchedMethod:
		return "mismatched_method"
	case ErrWinningDocumentExit:
		return "winning_document_exit"
	default:
		return "unknown"
	}
}

// winnerChanges returns the SetCandidacyStatus entries that transitioned a
// candidacy into Winner status, for the candidacy.won event and the
// winners-changed tally.
func winnerChanges(changes []StateChange) []StateChange {
	var out []StateChange
	for _, c := range changes {
		if c.Kind == StateChangeSetCandidacyStatus && c.CandidacyStatus.Kind() == CandidacyStatusKindWinner {
			out = append(out, c)
		}
	}
	return out
}

// countCandidaciesTornDown counts the candidacies a recalculation tick
// removed, for the candidacies-torn-down event field.
func countCandidaciesTornDown(changes []StateChange) int {
	n := 0
	for _, c := range changes {
		if c.Kind == StateChangeRemoveCandidacy {
			n++
		}
	}
	return n
}

// countTeardownEntities counts the combined candidacies and elections a
// recalculation tick removed, i.e. the cascade-teardown depth for the
// cascade-depth histogram.
func countTeardownEntities(changes []StateChange) int {
	n := 0
	for _, c := range changes {
		if c.Kind == StateChangeRemoveCandidacy || c.Kind == StateChangeRemoveElection {
			n++
		}
	}
	return n
}

// countElectionsTouched counts the distinct elections a recalculation
// tick's change log touched, for the recalculation-ticks histogram.
func countElectionsTouched(changes []StateChange) int {
	seen := make(map[ID]struct{})
	for _, c := range changes {
		switch c.Kind {
		case StateChangeSetCandidacyStatus, StateChangeInsertCandidacy, StateChangeRemoveCandidacy:
			seen[c.CandidacyID] = struct{}{}
		case StateChangeInsertElection, StateChangeRemoveElection:
			seen[c.ElectionID] = struct{}{}
		}
	}
	return len(seen)
}
