package handlers

import (
	"net/http"

	"github.com/ticketa/eventpay/internal/interfaces/rest"
)

type attendanceResponse struct {
	EventID       string `json:"event_id"`
	AttendeeCount int64  `json:"attendee_count"`
}

// EventAttendance reports how many distinct attendees an event has
// admitted. Counts are served through a short TTL cache; a freshly
// confirmed ticket may lag here for a few seconds.
func (h *Handlers) EventAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	count, err := h.counts.Get(r.Context(), eventID, h.events.AttendeeCount)
	if err != nil {
		h.logger.Error("attendance lookup failed", "event_id", eventID, "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, attendanceResponse{
		EventID:       eventID,
		AttendeeCount: count,
	})
}
