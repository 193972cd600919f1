package incidenttracker

import (
	"log/slog"

	httpadapter "tally/contexts/field-operations/incident-tracker/adapters/http"
	"tally/contexts/field-operations/incident-tracker/adapters/memory"
	"tally/contexts/field-operations/incident-tracker/application/commands"
	"tally/contexts/field-operations/incident-tracker/application/queries"
	"tally/contexts/field-operations/incident-tracker/domain/entities"
	"tally/contexts/field-operations/incident-tracker/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Incidents ports.IncidentRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	incidentUseCase := commands.IncidentUseCase{
		Incidents: deps.Incidents,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	queryUseCase := queries.IncidentQueryUseCase{
		Incidents: deps.Incidents,
	}
	return Module{
		Handler: httpadapter.Handler{
			Incidents: incidentUseCase,
			Queries:   queryUseCase,
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Incident, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Incidents: store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
