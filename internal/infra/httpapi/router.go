// Package httpapi exposes the read surface of the notifier: the per-owner
// notification list, the routine checklist and the pet registry.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"pet_care_notifier/internal/app"
	"pet_care_notifier/internal/domain/pet"
	"pet_care_notifier/internal/domain/reminder"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Notifications app.NotificationService
	Pets          pet.Repository
	Routine       []reminder.RoutineTask

	// Clock defaults to time.Now; tests inject a fixed instant.
	Clock func() time.Time
}

type ctxKey string

const ownerKey ctxKey = "owner"

// NewRouter builds the chi router. Ownership is taken from the X-Owner-ID
// header; the surrounding platform terminates real authentication upstream.
func NewRouter(opts Options) http.Handler {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Routine == nil {
		opts.Routine = reminder.DefaultRoutine
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(ownerContext)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := &handlers{opts: opts}

	r.Get("/notifications", h.listNotifications)
	r.Get("/notifications/unread_count", h.unreadCount)
	r.Post("/notifications/{id}/read", h.markRead)
	r.Delete("/notifications", h.clearAll)
	r.Get("/routine", h.routine)
	r.Get("/pets", h.listPets)

	return r
}

func ownerContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if owner := strings.TrimSpace(r.Header.Get("X-Owner-ID")); owner != "" {
			ctx := context.WithValue(r.Context(), ownerKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ownerFrom(ctx context.Context) (string, bool) {
	v := ctx.Value(ownerKey)
	if v == nil {
		return "", false
	}
	owner, ok := v.(string)
	return owner, ok
}
