package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"bloodhelp-bot/pkg"
)

// systemInstruction directs the model to repair typos and answer with
// strict JSON carrying exactly the four extraction keys.
const systemInstruction = "You are Blood Help Bot. Extract structured data from a short WhatsApp message.\n" +
	"Fix obvious typos (e.g., 'mumbaai' -> 'Mumbai', 'o pos' -> 'O+').\n" +
	"Return STRICT JSON with keys: intent, full_name, blood_type, city.\n" +
	"intent must be one of: donor, request, reset, other.\n" +
	"blood_type must be one of [A+,A-,B+,B-,AB+,AB-,O+,O-] if present; else null.\n" +
	"If the user greets (hi/hello/start/menu/restart), use intent='reset'.\n" +
	"Do not include any extra keys. No explanations."

// FallbackModel is tried after the preferred model on any failure.
const FallbackModel = "gpt-4.1-mini"

// ErrorModelMarker is reported as the model name when every model in
// the priority list failed and a degraded result was returned.
const ErrorModelMarker = "error"

// Completer is the slice of the OpenAI client the extractor needs.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OutcomeKind tags the result of a single model attempt.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeServiceError
	OutcomeSchemaError
)

// Outcome is the tagged result of one extraction attempt against one
// model.
type Outcome struct {
	Kind   OutcomeKind
	Fields pkg.ExtractedFields
	Err    error
}

// Extractor asks the completion service to pull intent and field
// candidates out of a raw message, walking a prioritized model list
// and degrading to a null result when every model fails.
type Extractor struct {
	client Completer
	models []string
	logger *slog.Logger
}

// NewExtractor builds an extractor trying preferredModel first and
// FallbackModel second. Duplicate entries are collapsed.
func NewExtractor(client Completer, preferredModel string, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	models := []string{preferredModel}
	if preferredModel != FallbackModel {
		models = append(models, FallbackModel)
	}
	return &Extractor{client: client, models: models, logger: logger}
}

// stateHint is the compact conversation context attached to each
// extraction request.
type stateHint struct {
	Known       pkg.Fields `json:"known"`
	Role        pkg.Role   `json:"role"`
	Step        pkg.Step   `json:"step"`
	ProfileName string     `json:"profile_name"`
}

// Extract classifies the message and pulls raw field candidates from
// it. It never returns an error: when every model fails the zero
// fields with IntentOther and the ErrorModelMarker are returned so the
// conversation can continue by re-prompting.
func (e *Extractor) Extract(ctx context.Context, message, profileName string, state *pkg.ConversationState) (pkg.ExtractedFields, string) {
	hint := stateHint{ProfileName: profileName}
	if state != nil {
		hint.Known = state.Fields
		hint.Role = state.Role
		hint.Step = state.Step
	}
	hintJSON, _ := json.Marshal(hint)
	userContent := fmt.Sprintf("Message: %s\nState: %s\nReturn JSON only.", message, hintJSON)

	var lastErr error
	for _, model := range e.models {
		out := e.attempt(ctx, model, userContent)
		if out.Kind == OutcomeOK {
			return out.Fields, model
		}
		lastErr = out.Err
		e.logger.Warn("extraction attempt failed",
			"model", model,
			"schema_error", out.Kind == OutcomeSchemaError,
			"error", out.Err,
		)
	}

	e.logger.Error("all extraction models failed", "error", lastErr)
	return pkg.ExtractedFields{Intent: pkg.IntentOther}, ErrorModelMarker
}

// attempt runs one model and validates its reply against the strict
// four-key schema.
func (e *Extractor) attempt(ctx context.Context, model, userContent string) Outcome {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: userContent},
		},
	})
	if err != nil {
		return Outcome{Kind: OutcomeServiceError, Err: err}
	}
	if len(resp.Choices) == 0 {
		return Outcome{Kind: OutcomeServiceError, Err: fmt.Errorf("llm: model %s returned no choices", model)}
	}
	fields, err := parseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		return Outcome{Kind: OutcomeSchemaError, Err: err}
	}
	return Outcome{Kind: OutcomeOK, Fields: fields}
}

// parseExtraction decodes the model reply, requiring exactly the four
// expected keys with string-or-null values and a known intent.
func parseExtraction(raw string) (pkg.ExtractedFields, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: malformed JSON: %w", err)
	}
	for _, required := range []string{"intent", "full_name", "blood_type", "city"} {
		if _, ok := keys[required]; !ok {
			return pkg.ExtractedFields{}, fmt.Errorf("llm: missing key %q", required)
		}
	}
	if len(keys) != 4 {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: unexpected extra keys in reply")
	}

	intent, err := stringValue(keys["intent"])
	if err != nil {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: intent: %w", err)
	}
	out := pkg.ExtractedFields{Intent: pkg.Intent(strings.ToLower(strings.TrimSpace(intent)))}
	switch out.Intent {
	case pkg.IntentDonor, pkg.IntentRequest, pkg.IntentReset, pkg.IntentOther:
	default:
		return pkg.ExtractedFields{}, fmt.Errorf("llm: unknown intent %q", intent)
	}
	if out.FullName, err = stringValue(keys["full_name"]); err != nil {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: full_name: %w", err)
	}
	if out.BloodType, err = stringValue(keys["blood_type"]); err != nil {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: blood_type: %w", err)
	}
	if out.City, err = stringValue(keys["city"]); err != nil {
		return pkg.ExtractedFields{}, fmt.Errorf("llm: city: %w", err)
	}
	return out, nil
}

// stringValue accepts a JSON string or null; null becomes "".
func stringValue(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("expected string or null: %w", err)
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}
