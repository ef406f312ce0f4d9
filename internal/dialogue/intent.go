// Package dialogue implements the per-session state machine that accumulates
// slots across turns, decides between asking and executing, and runs the
// matching action against the seat inventory.
package dialogue

// Intent is the user's transactional goal for the active flow.
type Intent string

const (
	IntentNone       Intent = ""
	IntentBook       Intent = "book"
	IntentCancel     Intent = "cancel"
	IntentChangeTime Intent = "change_time"
	IntentInvoice    Intent = "invoice"
	IntentComplaint  Intent = "complaint"
)

// ParseIntent maps an NLU intent string onto the closed intent set.
// "unknown", empty, and unrecognized values all come back (IntentNone, false).
func ParseIntent(s string) (Intent, bool) {
	switch Intent(s) {
	case IntentBook, IntentCancel, IntentChangeTime, IntentInvoice, IntentComplaint:
		return Intent(s), true
	}
	return IntentNone, false
}
