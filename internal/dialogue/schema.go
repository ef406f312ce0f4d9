package dialogue

// SlotKind drives how a free-text answer is interpreted when it has to fill
// the slot directly (no entity extracted).
type SlotKind int

const (
	SlotLocation SlotKind = iota
	SlotTime
	SlotDate
	SlotQuantity
	SlotTicketCode
	SlotFreeText
)

// SlotSpec declares one required slot: its name, how answers to it are
// interpreted, and the question to ask while it is missing.
type SlotSpec struct {
	Name     string
	Kind     SlotKind
	Question string
}

// Slot names. These double as the NLU entity types merged in ProcessTurn.
const (
	slotDeparture        = "departure"
	slotDestination      = "destination"
	slotDate             = "date"
	slotQuantity         = "quantity"
	slotTime             = "time"
	slotNewTime          = "new_time"
	slotTicketCode       = "ticket_code"
	slotComplaintContent = "complaint_content"
)

// Schema is the per-intent required-slot registry. The required list is
// ordered; the first missing entry decides which question gets asked next.
type Schema struct {
	byIntent map[Intent][]SlotSpec
}

// DefaultSchema returns the registry for the five transactional intents.
func DefaultSchema() *Schema {
	return &Schema{byIntent: map[Intent][]SlotSpec{
		IntentBook: {
			{Name: slotDeparture, Kind: SlotLocation, Question: "Bạn muốn đi từ đâu?"},
			{Name: slotDestination, Kind: SlotLocation, Question: "Bạn muốn đến đâu?"},
			{Name: slotDate, Kind: SlotDate, Question: "Bạn muốn đi ngày nào?"},
			{Name: slotQuantity, Kind: SlotQuantity, Question: "Bạn muốn đặt bao nhiêu vé?"},
			{Name: slotTime, Kind: SlotTime, Question: "Bạn muốn đi lúc mấy giờ?"},
		},
		IntentCancel: {
			{Name: slotTicketCode, Kind: SlotTicketCode, Question: "Vui lòng cung cấp mã vé của bạn."},
		},
		IntentChangeTime: {
			{Name: slotTicketCode, Kind: SlotTicketCode, Question: "Vui lòng cung cấp mã vé của bạn."},
			{Name: slotNewTime, Kind: SlotTime, Question: "Bạn muốn đổi sang giờ nào?"},
		},
		IntentInvoice: {
			{Name: slotTicketCode, Kind: SlotTicketCode, Question: "Vui lòng cung cấp mã vé của bạn."},
		},
		IntentComplaint: {
			{Name: slotTicketCode, Kind: SlotTicketCode, Question: "Vui lòng cung cấp mã vé của bạn."},
			{Name: slotComplaintContent, Kind: SlotFreeText, Question: "Vui lòng mô tả chi tiết vấn đề bạn gặp phải."},
		},
	}}
}

// Missing walks the intent's full schema and reports the slots not yet
// filled, in schema order. Iterating the schema (never the collected map)
// keeps the completeness check total over the declared slots.
func (s *Schema) Missing(intent Intent, slots map[string]string) []SlotSpec {
	var missing []SlotSpec
	for _, spec := range s.byIntent[intent] {
		if _, ok := slots[spec.Name]; !ok {
			missing = append(missing, spec)
		}
	}
	return missing
}
