package api

import (
	"net/http"

	"github.com/blockwork/engine/internal/api/handlers"
	mw "github.com/blockwork/engine/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
)

type Dependencies struct {
	HMACSecret         []byte
	RateLimitRPS       float64
	RateLimitBurst     int
	HealthHandler      *handlers.HealthHandler
	AuthHandler        *handlers.AuthHandler
	WorkspacesHandler  *handlers.WorkspacesHandler
	ProjectsHandler    *handlers.ProjectsHandler
	TasksHandler       *handlers.TasksHandler
	TimelineHandler    *handlers.TimelineHandler
	PropertiesHandler  *handlers.PropertiesHandler
	LinksHandler       *handlers.LinksHandler
	DefinitionsHandler *handlers.DefinitionsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	rps, burst := dep.RateLimitRPS, dep.RateLimitBurst
	if rps <= 0 {
		rps, burst = 10, 20
	}

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(rps, burst))
	r.Use(chimid.Compress(5))

	hh := dep.HealthHandler
	if hh == nil {
		hh = handlers.NewHealthHandler(nil)
	}
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", dep.AuthHandler.Register)
			ar.Post("/login", dep.AuthHandler.Login)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.HMACSecret))

			protected.Route("/workspaces", func(wr chi.Router) {
				wr.Get("/", dep.WorkspacesHandler.List)
				wr.Post("/", dep.WorkspacesHandler.Create)
				wr.Route("/{id}", func(one chi.Router) {
					one.Get("/members", dep.WorkspacesHandler.ListMembers)
					one.Post("/members", dep.WorkspacesHandler.AddMember)
					one.Delete("/members/{userID}", dep.WorkspacesHandler.RemoveMember)
					one.Get("/clients", dep.ProjectsHandler.ListClients)
					one.Post("/clients", dep.ProjectsHandler.CreateClient)
					one.Get("/projects", dep.ProjectsHandler.List)
					one.Post("/projects", dep.ProjectsHandler.Create)
					one.Get("/property-definitions", dep.DefinitionsHandler.List)
					one.Post("/property-definitions", dep.DefinitionsHandler.Create)
				})
			})

			protected.Route("/projects/{id}", func(pr chi.Router) {
				pr.Get("/", dep.ProjectsHandler.Get)
				pr.Delete("/", dep.ProjectsHandler.Delete)
				pr.Get("/tabs", dep.ProjectsHandler.ListTabs)
				pr.Post("/tabs", dep.ProjectsHandler.CreateTab)
			})

			protected.Get("/tabs/{id}/blocks", dep.ProjectsHandler.ListBlocks)
			protected.Post("/tabs/{id}/blocks", dep.ProjectsHandler.CreateBlock)

			protected.Route("/blocks/{id}", func(br chi.Router) {
				br.Delete("/", dep.ProjectsHandler.DeleteBlock)
				br.Get("/tasks", dep.TasksHandler.List)
				br.Post("/tasks", dep.TasksHandler.Create)
				br.Get("/rows", dep.TasksHandler.ListRows)
				br.Post("/rows", dep.TasksHandler.CreateRow)
				br.Get("/events", dep.TimelineHandler.ListEvents)
				br.Post("/events", dep.TimelineHandler.CreateEvent)
				br.Get("/dependencies", dep.TimelineHandler.ListDependencies)
				br.Post("/dependencies", dep.TimelineHandler.CreateDependency)
				br.Post("/schedule", dep.TimelineHandler.Schedule)
			})

			protected.Route("/tasks/{id}", func(tr chi.Router) {
				tr.Patch("/", dep.TasksHandler.Update)
				tr.Delete("/", dep.TasksHandler.Delete)
				tr.Get("/subtasks", dep.TasksHandler.ListSubtasks)
				tr.Post("/subtasks", dep.TasksHandler.CreateSubtask)
			})

			protected.Delete("/rows/{id}", dep.TasksHandler.DeleteRow)
			protected.Patch("/events/{id}", dep.TimelineHandler.UpdateEvent)
			protected.Delete("/events/{id}", dep.TimelineHandler.DeleteEvent)
			protected.Delete("/dependencies/{id}", dep.TimelineHandler.DeleteDependency)
			protected.Delete("/links/{id}", dep.LinksHandler.Delete)
			protected.Patch("/property-definitions/{id}", dep.DefinitionsHandler.Update)
			protected.Delete("/property-definitions/{id}", dep.DefinitionsHandler.Delete)

			protected.Route("/entities/{type}/{id}", func(er chi.Router) {
				er.Get("/properties", dep.PropertiesHandler.Get)
				er.Patch("/properties", dep.PropertiesHandler.Patch)
				er.Delete("/properties", dep.PropertiesHandler.Clear)
				er.Get("/properties/inherited", dep.PropertiesHandler.Inherited)
				er.Post("/tags", dep.PropertiesHandler.AddTag)
				er.Delete("/tags/{tag}", dep.PropertiesHandler.RemoveTag)
				er.Put("/inherited-display", dep.PropertiesHandler.SetVisibility)
				er.Get("/links", dep.LinksHandler.List)
				er.Post("/links", dep.LinksHandler.Create)
				er.Get("/values", dep.DefinitionsHandler.ListValues)
				er.Put("/values/{definitionID}", dep.DefinitionsHandler.SetValue)
				er.Delete("/values/{definitionID}", dep.DefinitionsHandler.ClearValue)
			})
		})
	})

	return r
}
