// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	assignmentsfeature "github.com/ezzdayhq/ezzday/internal/app/features/assignments"
	clientsfeature "github.com/ezzdayhq/ezzday/internal/app/features/clients"
	crewsfeature "github.com/ezzdayhq/ezzday/internal/app/features/crews"
	healthfeature "github.com/ezzdayhq/ezzday/internal/app/features/health"
	issuesfeature "github.com/ezzdayhq/ezzday/internal/app/features/issues"
	progressfeature "github.com/ezzdayhq/ezzday/internal/app/features/progress"
	reportsfeature "github.com/ezzdayhq/ezzday/internal/app/features/reports"
	routesfeature "github.com/ezzdayhq/ezzday/internal/app/features/routes"
	supervisorsfeature "github.com/ezzdayhq/ezzday/internal/app/features/supervisors"
	zonesfeature "github.com/ezzdayhq/ezzday/internal/app/features/zones"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE
// app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the services built in Startup
// are available here.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.EzzdayMongoClient, svc.monitor, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Operational API
	r.Route("/api", func(api chi.Router) {
		issuesHandler := issuesfeature.NewHandler(svc.issues, svc.detector, logger)
		api.Mount("/issues", issuesfeature.Routes(issuesHandler))

		assignmentsHandler := assignmentsfeature.NewHandler(svc.assignments, logger)
		api.Mount("/assignments", assignmentsfeature.Routes(assignmentsHandler))

		supervisorsHandler := supervisorsfeature.NewHandler(svc.supervisors, logger)
		api.Mount("/supervisors", supervisorsfeature.Routes(supervisorsHandler))

		crewsHandler := crewsfeature.NewHandler(svc.crews, logger)
		api.Mount("/crews", crewsfeature.Routes(crewsHandler))

		routesHandler := routesfeature.NewHandler(svc.routes, logger)
		api.Mount("/routes", routesfeature.Routes(routesHandler))

		zonesHandler := zonesfeature.NewHandler(svc.zones, logger)
		api.Mount("/zones", zonesfeature.Routes(zonesHandler))

		clientsHandler := clientsfeature.NewHandler(svc.clients, logger)
		api.Mount("/clients", clientsfeature.Routes(clientsHandler))

		reportsHandler := reportsfeature.NewHandler(svc.assignments, svc.issues, svc.reports, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler))

		progressHandler := progressfeature.NewHandler(svc.issues, svc.detector, svc.supervisors, svc.sender, logger)
		api.Mount("/progress", progressfeature.Routes(progressHandler))
	})

	return r, nil
}
