package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hugh/bugtracker/internal/accounts"
	"github.com/hugh/bugtracker/internal/api/handlers"
	"github.com/hugh/bugtracker/internal/api/middleware"
	"github.com/hugh/bugtracker/internal/auth"
	"github.com/hugh/bugtracker/internal/bugs"
	"github.com/hugh/bugtracker/internal/teams"
	"github.com/hugh/bugtracker/internal/testutil"
)

// setupTestRouter mounts every handler the way the server does, minus
// rate limiting and CORS.
func setupTestRouter(t *testing.T, teamOpts ...teams.Option) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	bugService := bugs.NewService(tc.DB, tc.Logger)
	teamService := teams.NewService(tc.DB, bugService, tc.Logger, teamOpts...)
	authHandler := handlers.NewAuthHandler(auth.NewService(tc.DB, tc.JWTService, tc.Logger), tc.Logger)
	teamHandler := handlers.NewTeamHandler(teamService, tc.Logger)
	bugHandler := handlers.NewBugHandler(bugService, teamService, tc.Logger)
	accountHandler := handlers.NewAccountHandler(accounts.NewService(tc.DB, bugService, tc.Logger), tc.Logger)

	r := chi.NewRouter()
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Get("/me", authHandler.Me)
		r.Post("/teams/create", teamHandler.Create)
		r.Post("/teams/join", teamHandler.Join)
		r.Get("/bugs", bugHandler.List)
		r.Post("/bugs", bugHandler.Create)
		r.Get("/bugs/stats", bugHandler.Stats)
		r.Get("/bugs/team-members", teamHandler.Members)
		r.Delete("/bugs/users/{id}", accountHandler.Delete)
		r.Get("/bugs/{id}", bugHandler.Get)
		r.Put("/bugs/{id}", bugHandler.Update)
		r.Delete("/bugs/{id}", bugHandler.Delete)
	})

	return r, tc
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, method, path, body, token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
