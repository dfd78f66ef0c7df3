package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet_care_notifier/internal/domain/notification"
	"pet_care_notifier/internal/domain/pet"
	"pet_care_notifier/internal/domain/reminder"
	"pet_care_notifier/internal/infra/database"
	"pet_care_notifier/internal/infra/memory"

	"github.com/go-chi/chi/v5"
)

type handlers struct {
	opts Options
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type routineTaskDTO struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	TimeLabel string `json:"time_label"`
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Status    string `json:"status"`
}

type routineDTO struct {
	Tasks       []routineTaskDTO `json:"tasks"`
	DayComplete bool             `json:"day_complete"`
}

type vaccinationDTO struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AdministeredAt time.Time  `json:"administered_at"`
	NextDueAt      *time.Time `json:"next_due_at,omitempty"`
}

type weightRecordDTO struct {
	Date     time.Time `json:"date"`
	WeightKg float64   `json:"weight_kg"`
}

type petDTO struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Species       string            `json:"species"`
	Breed         string            `json:"breed"`
	Vaccinations  []vaccinationDTO  `json:"vaccinations"`
	WeightHistory []weightRecordDTO `json:"weight_history"`
}

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r.Context())
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	list, err := h.opts.Notifications.ListRecent(r.Context(), owner)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]notificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, toNotificationDTO(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r.Context())
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	count, err := h.opts.Notifications.UnreadCount(r.Context(), owner)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *handlers) markRead(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r.Context())
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.opts.Notifications.MarkRead(r.Context(), owner, id); err != nil {
		if errors.Is(err, memory.ErrNotFound) || errors.Is(err, database.ErrNotificationNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) clearAll(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r.Context())
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	if err := h.opts.Notifications.ClearAll(r.Context(), owner); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) routine(w http.ResponseWriter, r *http.Request) {
	now := h.opts.Clock()
	tasks := make([]routineTaskDTO, 0, len(h.opts.Routine))
	for _, t := range h.opts.Routine {
		tasks = append(tasks, routineTaskDTO{
			ID:        t.ID,
			Label:     t.Label,
			TimeLabel: t.TimeLabel,
			StartHour: t.StartHour,
			EndHour:   t.EndHour,
			Status:    string(t.StatusAt(now)),
		})
	}
	writeJSON(w, http.StatusOK, routineDTO{
		Tasks:       tasks,
		DayComplete: reminder.DayComplete(h.opts.Routine, now),
	})
}

func (h *handlers) listPets(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(r.Context())
	if !ok {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	pets, err := h.opts.Pets.ListByOwner(r.Context(), owner)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	out := make([]petDTO, 0, len(pets))
	for _, p := range pets {
		out = append(out, toPetDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func toNotificationDTO(n *notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Severity:  string(n.Severity),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func toPetDTO(p *pet.Pet) petDTO {
	dto := petDTO{
		ID:            p.ID,
		Name:          p.Name,
		Species:       p.Species,
		Breed:         p.Breed,
		Vaccinations:  make([]vaccinationDTO, 0, len(p.Vaccinations)),
		WeightHistory: make([]weightRecordDTO, 0, len(p.WeightHistory)),
	}
	for _, v := range p.Vaccinations {
		dto.Vaccinations = append(dto.Vaccinations, vaccinationDTO{
			ID:             v.ID,
			Name:           v.Name,
			AdministeredAt: v.AdministeredAt,
			NextDueAt:      v.NextDueAt,
		})
	}
	for _, rec := range p.WeightHistory {
		dto.WeightHistory = append(dto.WeightHistory, weightRecordDTO{Date: rec.Date, WeightKg: rec.WeightKg})
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
