package core

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bloodhelp-bot/internal/normalize"
	"bloodhelp-bot/internal/observability/metrics"
	"bloodhelp-bot/internal/session"
	"bloodhelp-bot/pkg"
)

// Extractor pulls intent and raw field candidates from one message.
// It must not fail outward: when the completion service is down it
// returns a null result with IntentOther and an "error" model marker.
type Extractor interface {
	Extract(ctx context.Context, message, profileName string, state *pkg.ConversationState) (pkg.ExtractedFields, string)
}

// Engine runs the slot-fill conversation: it owns the step machine,
// merges extractor output through the normalizers, and decides the
// next prompt or hands a completed record to the dispatcher.
type Engine struct {
	store      session.Store
	locker     *session.KeyedLocker
	extractor  Extractor
	dispatcher *Dispatcher
	logger     *slog.Logger
	metrics    *metrics.IntakeMetrics
	aiTimeout  time.Duration
}

// NewEngine wires the engine. metrics may be nil.
func NewEngine(store session.Store, extractor Extractor, dispatcher *Dispatcher, logger *slog.Logger, m *metrics.IntakeMetrics, aiTimeout time.Duration) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if aiTimeout <= 0 {
		aiTimeout = 30 * time.Second
	}
	return &Engine{
		store:      store,
		locker:     session.NewKeyedLocker(),
		extractor:  extractor,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    m,
		aiTimeout:  aiTimeout,
	}
}

// HandleMessage processes one inbound message and returns the reply
// text. Turns from the same conversant are serialized; different
// conversants proceed in parallel.
func (e *Engine) HandleMessage(ctx context.Context, msg pkg.InboundMessage) string {
	e.locker.Lock(msg.ConversantID)
	defer e.locker.Unlock(msg.ConversantID)

	state, err := e.store.Get(ctx, msg.ConversantID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			// A broken state backend must not kill the conversation;
			// start over for this conversant.
			e.logger.Error("session load failed, starting fresh", "conversant", msg.ConversantID, "error", err)
		}
		state = pkg.NewConversationState(msg.ConversantID)
	}
	e.metrics.ObserveTurn(string(state.Step))

	body := strings.TrimSpace(msg.Body)
	if _, isReset := resetKeywords[strings.ToLower(body)]; isReset || state.Step == pkg.StepStart {
		state.Reset()
		e.put(ctx, state)
		return MenuMessage
	}

	switch state.Step {
	case pkg.StepChooseRole:
		return e.handleChooseRole(ctx, state, body)
	case pkg.StepCollect:
		return e.handleCollect(ctx, state, msg)
	default:
		return FallbackMessage
	}
}

// handleChooseRole parses a direct numeric or word choice; the
// extractor is not involved at this step.
func (e *Engine) handleChooseRole(ctx context.Context, state *pkg.ConversationState, body string) string {
	switch strings.ToLower(body) {
	case "1", "donor":
		state.Role = pkg.RoleDonor
		state.Step = pkg.StepCollect
		e.put(ctx, state)
		return DonorChosenMessage
	case "2", "request", "recipient":
		state.Role = pkg.RoleRequest
		state.Step = pkg.StepCollect
		e.put(ctx, state)
		return RequestChosenMessage
	default:
		return InvalidChoiceMessage
	}
}

// handleCollect runs extraction, merges and normalizes the result, and
// either asks for the next missing field or dispatches the completed
// record.
func (e *Engine) handleCollect(ctx context.Context, state *pkg.ConversationState, msg pkg.InboundMessage) string {
	aiCtx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	extracted, model := e.extractor.Extract(aiCtx, msg.Body, msg.DisplayName, state)
	cancel()
	e.metrics.ObserveExtraction(model)
	e.logger.Info("extraction", "conversant", state.ConversantID, "model", model, "intent", extracted.Intent)

	if extracted.Intent == pkg.IntentReset {
		state.Reset()
		e.put(ctx, state)
		return ResetMessage
	}
	if state.Role == pkg.RoleUnset {
		switch extracted.Intent {
		case pkg.IntentDonor:
			state.Role = pkg.RoleDonor
		case pkg.IntentRequest:
			state.Role = pkg.RoleRequest
		}
	}

	mergeFields(&state.Fields, extracted)

	if state.Role == pkg.RoleUnset {
		e.put(ctx, state)
		return promptFor(fieldRole)
	}
	if missing := nextMissing(state.Fields); missing != "" {
		e.put(ctx, state)
		return promptFor(missing)
	}

	phone, _ := normalize.Phone(state.ConversantID)
	record := pkg.NormalizedRecord{
		FullName:  state.Fields.FullName,
		BloodType: state.Fields.BloodType,
		City:      state.Fields.City,
		Phone:     phone,
	}
	reply := e.dispatcher.Dispatch(ctx, state.Role, record, msg.DisplayName)
	e.metrics.ObserveCompleted(string(state.Role))

	// Terminal transition: completed interactions do not keep state.
	if err := e.store.Delete(ctx, state.ConversantID); err != nil {
		e.logger.Error("session delete failed", "conversant", state.ConversantID, "error", err)
	}
	return reply
}

// mergeFields applies a non-destructive merge: an incoming value only
// replaces a stored one when it is non-blank after trimming, and blood
// type and city are canonicalized on the way in. A blood type that
// fails normalization clears the slot rather than storing garbage.
func mergeFields(fields *pkg.Fields, extracted pkg.ExtractedFields) {
	if v := strings.TrimSpace(extracted.FullName); v != "" {
		fields.FullName = v
	}
	if v := strings.TrimSpace(extracted.BloodType); v != "" {
		if canonical, ok := normalize.BloodType(v); ok {
			fields.BloodType = canonical
		} else {
			fields.BloodType = ""
		}
	}
	if v := strings.TrimSpace(extracted.City); v != "" {
		fields.City = normalize.City(v)
	}
}

// nextMissing returns the first empty slot in the fixed collection
// order, or "" when the record is complete. The order is the same for
// both roles.
func nextMissing(fields pkg.Fields) string {
	if fields.FullName == "" {
		return fieldFullName
	}
	if fields.BloodType == "" {
		return fieldBloodType
	}
	if fields.City == "" {
		return fieldCity
	}
	return ""
}

func (e *Engine) put(ctx context.Context, state *pkg.ConversationState) {
	if err := e.store.Put(ctx, state); err != nil {
		e.logger.Error("session save failed", "conversant", state.ConversantID, "error", err)
	}
}
