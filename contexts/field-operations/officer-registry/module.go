package officerregistry

import (
	"log/slog"

	httpadapter "tally/contexts/field-operations/officer-registry/adapters/http"
	"tally/contexts/field-operations/officer-registry/adapters/memory"
	"tally/contexts/field-operations/officer-registry/application/commands"
	"tally/contexts/field-operations/officer-registry/application/queries"
	"tally/contexts/field-operations/officer-registry/domain/entities"
	"tally/contexts/field-operations/officer-registry/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Officers    ports.OfficerRepository
	Assignments ports.AssignmentRepository
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registryUseCase := commands.RegistryUseCase{
		Officers:    deps.Officers,
		Assignments: deps.Assignments,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	queryUseCase := queries.RegistryQueryUseCase{
		Officers:    deps.Officers,
		Assignments: deps.Assignments,
	}
	return Module{
		Handler: httpadapter.Handler{
			Registry: registryUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Officer, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Officers:    store,
		Assignments: store,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
