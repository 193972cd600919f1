package hierarchyindex

import (
	"log/slog"

	httpadapter "tally/contexts/results-collation/hierarchy-index/adapters/http"
	"tally/contexts/results-collation/hierarchy-index/adapters/memory"
	"tally/contexts/results-collation/hierarchy-index/application"
	"tally/contexts/results-collation/hierarchy-index/domain/entities"
	"tally/contexts/results-collation/hierarchy-index/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Tree    ports.TreeReader
}

type Dependencies struct {
	Tree   ports.TreeReader
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Tree:   deps.Tree,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Queries: service,
			Logger:  deps.Logger,
		},
		Tree: deps.Tree,
	}
}

func NewInMemoryModule(seed []entities.Node, logger *slog.Logger) (Module, error) {
	store, err := memory.NewStore(seed)
	if err != nil {
		return Module{}, err
	}
	return NewModule(Dependencies{
		Tree:   store,
		Logger: logger,
	}), nil
}
