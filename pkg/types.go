package pkg

// Role classifies a conversant once they have picked a side of the
// exchange: donating blood or requesting it.
type Role string

const (
	RoleUnset   Role = ""
	RoleDonor   Role = "donor"
	RoleRequest Role = "request"
)

// Step identifies where a conversation currently is. The step machine
// is deliberately small: greet, pick a role, then collect fields until
// the record is complete.
type Step string

const (
	StepStart      Step = "start"
	StepChooseRole Step = "choose_role"
	StepCollect    Step = "collect"
)

// Intent is the classified purpose of a single inbound message as
// understood by the extractor.
type Intent string

const (
	IntentDonor   Intent = "donor"
	IntentRequest Intent = "request"
	IntentReset   Intent = "reset"
	IntentOther   Intent = "other"
)

// Fields holds the slot values collected so far for a conversant. An
// empty string means the slot is still unknown; stored values are
// always canonical (normalization happens before assignment).
type Fields struct {
	FullName  string `json:"full_name,omitempty"`
	BloodType string `json:"blood_type,omitempty"`
	City      string `json:"city,omitempty"`
}

// ConversationState is the per-conversant record driving the slot-fill
// machine. One exists per conversant id (the sender's phone number)
// and it is discarded once a registration or request completes.
type ConversationState struct {
	ConversantID string `json:"conversant_id"`
	Role         Role   `json:"role"`
	Step         Step   `json:"step"`
	Fields       Fields `json:"fields"`
}

// NewConversationState returns a fresh state at the start step.
func NewConversationState(conversantID string) *ConversationState {
	return &ConversationState{ConversantID: conversantID, Step: StepStart}
}

// Reset clears the role and collected fields and moves the state to
// the role-selection step, keeping the conversant id.
func (s *ConversationState) Reset() {
	s.Role = RoleUnset
	s.Step = StepChooseRole
	s.Fields = Fields{}
}

// ExtractedFields is the transient output of one extractor call:
// raw, unnormalized candidate values plus the message intent. It is
// consumed immediately by the merge step and never persisted.
type ExtractedFields struct {
	Intent    Intent `json:"intent"`
	FullName  string `json:"full_name"`
	BloodType string `json:"blood_type"`
	City      string `json:"city"`
}

// NormalizedRecord is the fully-resolved record handed to the
// dispatcher once every required slot is present.
type NormalizedRecord struct {
	FullName  string `json:"full_name"`
	BloodType string `json:"blood_type"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
}

// DonorMatch is one row returned by a donor search.
type DonorMatch struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
}

// InboundMessage is what the transport hands the engine for each
// received message.
type InboundMessage struct {
	Body         string `json:"body"`
	ConversantID string `json:"conversant_id"`
	DisplayName  string `json:"display_name"`
}
