package dashboardservice

import (
	"log/slog"

	httpadapter "tally/contexts/results-collation/dashboard-service/adapters/http"
	"tally/contexts/results-collation/dashboard-service/adapters/memory"
	"tally/contexts/results-collation/dashboard-service/application/queries"
	"tally/contexts/results-collation/dashboard-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repo   ports.DashboardRepository
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dashboardUseCase := queries.DashboardUseCase{
		Repo:   deps.Repo,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Dashboard: dashboardUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repo:   store,
		Logger: logger,
	})
	module.Store = store
	return module
}
