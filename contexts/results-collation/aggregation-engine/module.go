package aggregationengine

import (
	"log/slog"

	httpadapter "tally/contexts/results-collation/aggregation-engine/adapters/http"
	"tally/contexts/results-collation/aggregation-engine/adapters/memory"
	"tally/contexts/results-collation/aggregation-engine/application"
	"tally/contexts/results-collation/aggregation-engine/application/workers"
	"tally/contexts/results-collation/aggregation-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Hierarchy ports.Hierarchy
	Sheets    ports.SheetSource
	Writer    ports.DerivedSheetWriter
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Hierarchy: deps.Hierarchy,
		Sheets:    deps.Sheets,
		Writer:    deps.Writer,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Hierarchy: store,
		Sheets:    store,
		Writer:    store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}

// NewRecomputeConsumer wires the feed-driven refresh worker for this module.
func (m Module) NewRecomputeConsumer(subscriber ports.EventSubscriber, group string, logger *slog.Logger) workers.RecomputeConsumer {
	return workers.RecomputeConsumer{
		Subscriber:    subscriber,
		Service:       m.Service,
		ConsumerGroup: group,
		Logger:        logger,
	}
}
