package dialogue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vexabot/vexabot-dialog/internal/inventory"
	"github.com/vexabot/vexabot-dialog/internal/models"
	"github.com/vexabot/vexabot-dialog/internal/normalize"
)

// Result is what an executor hands back to the state machine. A
// need_more_info result keeps the flow alive (clarification, e.g. available
// departure times); completed and failed both end it.
type Result struct {
	Status   string
	Message  string
	Options  []string
	Artifact *Artifact
}

// Executor runs one intent's domain transaction once every required slot is
// filled. Business-rule violations come back as a failed Result, never as an
// error; the orchestrator's slot ordering guarantees the required slots are
// present.
type Executor interface {
	Intent() Intent
	Execute(slots map[string]string) Result
}

func artifactFromBooking(b *inventory.Booking) *Artifact {
	return &Artifact{
		TicketCode:  b.TicketCode,
		Departure:   b.Departure,
		Destination: b.Destination,
		Date:        b.Date,
		Time:        b.Time,
		Quantity:    b.Quantity,
	}
}

type bookExecutor struct {
	store *inventory.Store
	now   func() time.Time
}

func (e *bookExecutor) Intent() Intent { return IntentBook }

func (e *bookExecutor) Execute(slots map[string]string) Result {
	departure := slots[slotDeparture]
	destination := slots[slotDestination]
	date := normalize.Date(slots[slotDate], e.now())
	quantity := normalize.Quantity(slots[slotQuantity])

	schedules := e.store.Find(departure, destination, date, quantity)
	if len(schedules) == 0 {
		return Result{
			Status:  models.StatusFailed,
			Message: fmt.Sprintf("❌ Không có chuyến từ %s đến %s ngày %s", departure, destination, date),
		}
	}

	selected := schedules[0]
	if raw, ok := slots[slotTime]; ok {
		want := normalize.Time(raw)
		var found bool
		for _, s := range schedules {
			if s.Time == want {
				selected = s
				found = true
				break
			}
		}
		if !found {
			times := make([]string, len(schedules))
			for i, s := range schedules {
				times[i] = s.Time
			}
			return Result{
				Status:  models.StatusNeedMoreInfo,
				Message: fmt.Sprintf("Không có chuyến lúc %s. Giờ có sẵn: %s", want, strings.Join(times, ", ")),
				Options: times,
			}
		}
	}

	booking, err := e.store.Reserve(selected.ID, quantity)
	if err != nil {
		return Result{
			Status:  models.StatusFailed,
			Message: fmt.Sprintf("❌ Đặt vé thất bại: %s", bookingErrorMessage(err)),
		}
	}

	msg := fmt.Sprintf("✅ Đặt vé thành công!\nMã vé: %s\nTuyến: %s → %s\nThời gian: %s ngày %s\nSố vé: %d",
		booking.TicketCode, booking.Departure, booking.Destination, booking.Time, booking.Date, booking.Quantity)
	return Result{
		Status:   models.StatusCompleted,
		Message:  msg,
		Artifact: artifactFromBooking(booking),
	}
}

type cancelExecutor struct {
	store *inventory.Store
}

func (e *cancelExecutor) Intent() Intent { return IntentCancel }

func (e *cancelExecutor) Execute(slots map[string]string) Result {
	booking, err := e.store.Cancel(slots[slotTicketCode])
	if err != nil {
		return Result{
			Status:  models.StatusFailed,
			Message: fmt.Sprintf("❌ %s", bookingErrorMessage(err)),
		}
	}
	return Result{
		Status:   models.StatusCompleted,
		Message:  fmt.Sprintf("✅ Hủy vé %s thành công", booking.TicketCode),
		Artifact: artifactFromBooking(booking),
	}
}

type changeTimeExecutor struct {
	store *inventory.Store
}

func (e *changeTimeExecutor) Intent() Intent { return IntentChangeTime }

func (e *changeTimeExecutor) Execute(slots map[string]string) Result {
	newTime := normalize.Time(slots[slotNewTime])
	booking, err := e.store.Reschedule(slots[slotTicketCode], newTime)
	if err != nil {
		if errors.Is(err, inventory.ErrNoTripAtTime) {
			return Result{
				Status:  models.StatusFailed,
				Message: fmt.Sprintf("❌ Không có chuyến lúc %s", newTime),
			}
		}
		return Result{
			Status:  models.StatusFailed,
			Message: fmt.Sprintf("❌ %s", bookingErrorMessage(err)),
		}
	}
	return Result{
		Status:   models.StatusCompleted,
		Message:  fmt.Sprintf("✅ Đổi giờ thành công sang %s", booking.Time),
		Artifact: artifactFromBooking(booking),
	}
}

type invoiceExecutor struct {
	store *inventory.Store
}

func (e *invoiceExecutor) Intent() Intent { return IntentInvoice }

func (e *invoiceExecutor) Execute(slots map[string]string) Result {
	booking, err := e.store.Lookup(slots[slotTicketCode])
	if err != nil {
		return Result{
			Status:  models.StatusFailed,
			Message: fmt.Sprintf("❌ %s", bookingErrorMessage(err)),
		}
	}
	if booking.Status == inventory.StatusCancelled {
		return Result{
			Status:  models.StatusFailed,
			Message: "❌ Không thể xuất hóa đơn cho vé đã hủy",
		}
	}
	msg := fmt.Sprintf("📄 Hóa đơn vé %s\nTuyến: %s → %s\nThời gian: %s ngày %s\nSố vé: %d",
		booking.TicketCode, booking.Departure, booking.Destination, booking.Time, booking.Date, booking.Quantity)
	return Result{
		Status:   models.StatusCompleted,
		Message:  msg,
		Artifact: artifactFromBooking(booking),
	}
}

type complaintExecutor struct {
	store *inventory.Store
}

func (e *complaintExecutor) Intent() Intent { return IntentComplaint }

func (e *complaintExecutor) Execute(slots map[string]string) Result {
	// Lookup validates the ticket exists; the complaint itself is recorded
	// in the response and transcript, not in the inventory.
	booking, err := e.store.Lookup(slots[slotTicketCode])
	if err != nil {
		return Result{
			Status:  models.StatusFailed,
			Message: "❌ Không tìm thấy vé để khiếu nại",
		}
	}
	msg := fmt.Sprintf("📝 Đã ghi nhận khiếu nại cho vé %s\nNội dung: %s\nChúng tôi sẽ xử lý trong 24h.",
		booking.TicketCode, slots[slotComplaintContent])
	return Result{
		Status:   models.StatusCompleted,
		Message:  msg,
		Artifact: artifactFromBooking(booking),
	}
}

// bookingErrorMessage maps inventory sentinels onto user-facing Vietnamese.
func bookingErrorMessage(err error) string {
	switch {
	case errors.Is(err, inventory.ErrTicketNotFound):
		return "Không tìm thấy vé"
	case errors.Is(err, inventory.ErrTicketCancelled):
		return "Vé đã được hủy"
	case errors.Is(err, inventory.ErrNotEnoughSeats):
		return "Không đủ chỗ trống"
	case errors.Is(err, inventory.ErrScheduleNotFound):
		return "Không tìm thấy chuyến"
	default:
		return "Hệ thống đang gặp sự cố, vui lòng thử lại sau"
	}
}
