package httptransport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apptable "minimorph-blackjack/internal/app/table"
	"minimorph-blackjack/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(tableSvc *apptable.Service, st *store.Store) *chi.Mux {
	roundHandlers := NewRoundHandlers(tableSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", HealthHandler(st))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/rounds", roundHandlers.Start())
		r.Get("/rounds/{round_id}", roundHandlers.Get())
		r.Post("/rounds/{round_id}/hit", roundHandlers.Hit())
		r.Post("/rounds/{round_id}/stand", roundHandlers.Stand())
		r.Post("/rounds/{round_id}/double", roundHandlers.Double())
		r.Post("/rounds/{round_id}/split", roundHandlers.Split())

		if st != nil {
			publicHandlers := NewPublicHandlers(st)
			r.Get("/public/leaderboard", publicHandlers.Leaderboard())
			r.Get("/public/profiles/{player_address}", publicHandlers.Profile())
			r.Get("/public/profiles/{player_address}/history", publicHandlers.History())
			r.Get("/public/profiles/{player_address}/settings", publicHandlers.Settings())
			r.Put("/public/profiles/{player_address}/settings", publicHandlers.SaveSettings())
		}
	})

	return r
}

// HealthHandler reports liveness. The store is an optional collaborator, so
// a deployment without one is healthy with db "disabled".
func HealthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if st == nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "disabled"})
			return
		}
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "db": "down"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "db": "up"})
	}
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
