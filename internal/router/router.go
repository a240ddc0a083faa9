// Package router wires all HTTP routes.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netslap-dev/netslap/internal/setup"
	"github.com/netslap-dev/netslap/shared/domain"
	mw "github.com/netslap-dev/netslap/shared/middleware"
	"github.com/netslap-dev/netslap/shared/middleware/metrics"
	rl "github.com/netslap-dev/netslap/shared/middleware/ratelimiter"
)

func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.With(mw.RateLimit(rl.OncePerSecond(), mw.IdentityFromSession)).
				Post("/register", h.Register)
			auth.With(mw.RateLimit(rl.OncePerSecond(), mw.IdentityFromSession)).
				Post("/login", h.Login)
			auth.Post("/logout", h.Logout)
		})

		// Read surface, open to everyone.
		v1.Group(func(public chi.Router) {
			public.Use(authMw.OptionalAuth())
			public.Use(mw.RateLimit(rl.Rps(100), mw.IdentityFromSession))

			public.Get("/boards", h.ListBoards)
			public.Get("/boards/{board}", h.GetBoard)
			public.Get("/threads/top", h.TopThreads)
			public.Get("/threads/hot", h.ListHotThreads)
			public.Get("/threads/new", h.ListNewThreads)
			public.Get("/threads/{thread}", h.GetThread)
			public.Get("/replies/{reply}", h.GetReply)
			public.Get("/media/{location}", h.ServeMedia)
		})

		// Posting and account surface.
		v1.Group(func(user chi.Router) {
			user.Use(authMw.NeedAuth())

			user.Get("/me", h.Me)
			user.Put("/me/alias", h.SetAlias)

			user.With(mw.RateLimit(rl.OncePerMinute(), mw.IdentityFromSession)).
				Post("/boards/{board}/threads", h.CreateThread)
			user.With(mw.RateLimit(rl.OncePerSecond(), mw.IdentityFromSession)).
				Post("/threads/{thread}/replies", h.CreateReply)
			user.With(mw.RateLimit(rl.OncePerSecond(), mw.IdentityFromSession)).
				Post("/replies/{reply}/sub", h.CreateSubReply)

			user.Get("/notifications", h.ListNotifications)
			user.Post("/notifications/seen", h.MarkNotificationsSeen)

			user.Post("/requests", h.CreateRequest)
			user.Post("/requests/{request}/respond", h.RespondRequest)
			user.Get("/requests/incoming", h.ListIncomingRequests)
			user.Get("/requests/outgoing", h.ListOutgoingRequests)

			user.Post("/issues", h.CreateIssue)
		})

		// Moderation surface, gated per privilege.
		v1.Group(func(mod chi.Router) {
			mod.With(authMw.NeedPrivileges(domain.PrivCreateBoard)).
				Post("/boards", h.CreateBoard)
			mod.With(authMw.NeedPrivileges(domain.PrivDeleteBoard)).
				Delete("/boards/{board}", h.DeactivateBoard)

			mod.With(authMw.NeedPrivileges(domain.PrivDeleteThread)).
				Delete("/threads/{thread}", h.KillThread)
			mod.With(authMw.NeedPrivileges(domain.PrivDeleteThread)).
				Get("/threads/dead", h.ListDeadThreads)
			mod.With(authMw.NeedPrivileges(domain.PrivDeleteThread)).
				Get("/threads/dead/{thread}", h.GetDeadThread)

			mod.With(authMw.NeedPrivileges(domain.PrivKillReplies)).
				Delete("/replies/{reply}", h.KillReply)
			mod.With(authMw.NeedPrivileges(domain.PrivKillReplies)).
				Delete("/sub-replies/{subreply}", h.KillSubReply)

			mod.With(authMw.NeedPrivileges(domain.PrivBanUser)).
				Post("/users/{user}/ban", h.BanUser)
			mod.With(authMw.NeedPrivileges(domain.PrivBanUser)).
				Delete("/users/{user}/ban", h.UnbanUser)

			mod.With(authMw.NeedPrivileges(domain.PrivAdminIssues)).
				Get("/issues", h.ListUnsolvedIssues)
			mod.With(authMw.NeedPrivileges(domain.PrivAdminIssues)).
				Post("/issues/{issue}/solve", h.SolveIssue)
		})
	})

	return r
}
