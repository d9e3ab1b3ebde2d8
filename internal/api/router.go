// Package api assembles the HTTP surface: routing, middleware, and the
// handler wiring over the domain services.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/hacknight/server/internal/api/handlers"
	"github.com/hacknight/server/internal/api/middleware"
	"github.com/hacknight/server/internal/config"
	"github.com/hacknight/server/internal/domain/attendees"
	"github.com/hacknight/server/internal/domain/challenges"
	"github.com/hacknight/server/internal/domain/hacks"
	"github.com/hacknight/server/internal/domain/relation"
	"github.com/hacknight/server/internal/domain/teams"
	"github.com/hacknight/server/internal/domain/users"
	"github.com/hacknight/server/internal/events"
	"github.com/hacknight/server/internal/metrics"
	"github.com/hacknight/server/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies carries everything the router needs; main owns construction
// and lifecycle of each piece.
type Dependencies struct {
	Config   config.Config
	Logger   zerolog.Logger
	DB       handlers.Pinger
	Repo     storage.Repository
	Emitter  events.Emitter
	Resolver middleware.Authenticator
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	env := cfg.Environment
	logger := deps.Logger

	teamsService := teams.NewService(deps.Repo.Teams(), deps.Emitter, logger)
	hacksService := hacks.NewService(deps.Repo.Hacks(), deps.Emitter, logger)
	challengesService := challenges.NewService(deps.Repo.Challenges(), logger)
	usersService := users.NewService(deps.Repo.Users(), logger)
	attendeesService := attendees.NewService(deps.Repo.Attendees(), logger)

	hackChallenges := relation.NewEngine(deps.Repo.HackChallenges(), deps.Emitter, hacks.ChallengesRelation(), logger)
	teamEntries := relation.NewEngine(deps.Repo.TeamEntries(), deps.Emitter, teams.EntriesRelation(), logger)
	teamMembers := relation.NewEngine(deps.Repo.TeamMembers(), deps.Emitter, teams.MembersRelation(), logger)

	teamsHandler := handlers.NewTeamsHandler(teamsService, env)
	hacksHandler := handlers.NewHacksHandler(hacksService, env)
	challengesHandler := handlers.NewChallengesHandler(challengesService, env)
	usersHandler := handlers.NewUsersHandler(usersService, env)
	attendeesHandler := handlers.NewAttendeesHandler(attendeesService, env)

	challengesRel := handlers.NewRelationshipHandler(hackChallenges, "hackId", "challenges", env)
	entriesRel := handlers.NewRelationshipHandler(teamEntries, "teamId", "hacks", env)
	membersRel := handlers.NewRelationshipHandler(teamMembers, "teamId", "users", env)

	attendeeAuth := middleware.AttendeeAuth(deps.Resolver, env)
	adminAuth := middleware.AdminAuth(cfg.Auth.AdminUsername, cfg.Auth.AdminPasswordHash, env)

	mux := http.NewServeMux()
	route := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, metrics.HTTPMiddleware(pattern, handler))
	}

	route("/healthz", handlers.Healthz())
	route("/readyz", handlers.Readyz(deps.DB))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	route("/teams", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(teamsHandler.List),
		http.MethodPost: attendeeAuth(http.HandlerFunc(teamsHandler.Create)),
	}))
	route("/teams/{teamId}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(teamsHandler.Get),
		http.MethodDelete: attendeeAuth(http.HandlerFunc(teamsHandler.Delete)),
	}))
	route("/teams/{teamId}/members", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(teamsHandler.Members),
		http.MethodPost:   attendeeAuth(http.HandlerFunc(membersRel.Add)),
		http.MethodDelete: attendeeAuth(http.HandlerFunc(membersRel.Remove)),
	}))
	route("/teams/{teamId}/entries", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(teamsHandler.Entries),
		http.MethodPost:   attendeeAuth(http.HandlerFunc(entriesRel.Add)),
		http.MethodDelete: attendeeAuth(http.HandlerFunc(entriesRel.Remove)),
	}))

	route("/hacks", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(hacksHandler.List),
		http.MethodPost: attendeeAuth(http.HandlerFunc(hacksHandler.Create)),
	}))
	route("/hacks/{hackId}", methodMux(map[string]http.Handler{
		http.MethodGet:    http.HandlerFunc(hacksHandler.Get),
		http.MethodDelete: attendeeAuth(http.HandlerFunc(hacksHandler.Delete)),
	}))
	route("/hacks/{hackId}/challenges", methodMux(map[string]http.Handler{
		http.MethodPost:   attendeeAuth(http.HandlerFunc(challengesRel.Add)),
		http.MethodDelete: attendeeAuth(http.HandlerFunc(challengesRel.Remove)),
	}))

	route("/challenges", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(challengesHandler.List),
		http.MethodPost: adminAuth(http.HandlerFunc(challengesHandler.Create)),
	}))
	route("/challenges/{challengeId}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(challengesHandler.Get),
	}))

	route("/users", methodMux(map[string]http.Handler{
		http.MethodPost: attendeeAuth(http.HandlerFunc(usersHandler.Create)),
	}))
	route("/users/{userId}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(usersHandler.Get),
	}))

	route("/attendees", methodMux(map[string]http.Handler{
		http.MethodGet:  adminAuth(http.HandlerFunc(attendeesHandler.List)),
		http.MethodPost: adminAuth(http.HandlerFunc(attendeesHandler.Create)),
	}))
	route("/attendees/{attendeeId}", methodMux(map[string]http.Handler{
		http.MethodDelete: adminAuth(http.HandlerFunc(attendeesHandler.Delete)),
	}))

	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
