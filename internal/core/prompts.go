package core

// prompts.go holds every user-facing string for the intake flow.
// Keeping the copy in one file makes it easy to tweak without touching
// the engine logic.

const (
	// MenuMessage greets a conversant and asks them to pick a role.
	MenuMessage = "👋 Hi, how may I help you?\n\n" +
		"Please classify yourself:\n" +
		"1️⃣ Donor\n" +
		"2️⃣ Require Blood (Recipient Request)\n\n" +
		"👉 Reply with 1 or 2 to continue."

	// DonorChosenMessage confirms the donor role.
	DonorChosenMessage = "✅ Great! Registering you as a Donor.\n" +
		"You can reply naturally (e.g., 'A+ in Pune, my name is Ravi')."

	// RequestChosenMessage confirms the request role.
	RequestChosenMessage = "🆘 Okay! Making a Blood Request.\n" +
		"You can reply naturally (e.g., 'Need AB- in Hyderabad')."

	// InvalidChoiceMessage re-prompts after an unrecognized role choice.
	InvalidChoiceMessage = "⚠ Invalid choice.\nReply 1 for Donor or 2 for Request."

	// ResetMessage is sent when the extractor classifies a message as a
	// reset while collecting fields.
	ResetMessage = "🔄 Reset.\n" +
		"1️⃣ Donor\n" +
		"2️⃣ Require Blood\n\n" +
		"👉 Reply with 1 or 2."

	// FallbackMessage covers any step the engine does not recognize.
	FallbackMessage = "I didn't catch that. Reply 1 for Donor or 2 for Require Blood."

	// DonorInsertFailedMessage is the degraded-success notice when the
	// donor record could not be persisted.
	DonorInsertFailedMessage = "⚠ Saved your info locally but DB insert failed. Please try again later."

	// HandoffURL is included in the no-match reply so requesters can
	// escalate outside the bot.
	HandoffURL = "https://thala-connect-ai-28.lovable.app/"
)

// resetKeywords restart the conversation from any step.
var resetKeywords = map[string]struct{}{
	"hi": {}, "hello": {}, "start": {}, "menu": {}, "restart": {},
}

// field names used by the missing-field check and prompt table.
const (
	fieldRole      = "role"
	fieldFullName  = "full_name"
	fieldBloodType = "blood_type"
	fieldCity      = "city"
)

// fieldPrompts asks for one specific missing piece of information.
var fieldPrompts = map[string]string{
	fieldRole:      "Please reply with 1 (Donor) or 2 (Require Blood).",
	fieldFullName:  "📝 Please share your Full Name:",
	fieldBloodType: "🩸 Which Blood Group? (A+, A-, B+, B-, AB+, AB-, O+, O-)",
	fieldCity:      "🏙 Which City?",
}

// promptFor returns the fixed prompt for a missing field.
func promptFor(field string) string {
	if p, ok := fieldPrompts[field]; ok {
		return p
	}
	return "Please provide the required detail."
}
