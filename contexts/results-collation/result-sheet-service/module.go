package resultsheetservice

import (
	"log/slog"

	httpadapter "tally/contexts/results-collation/result-sheet-service/adapters/http"
	"tally/contexts/results-collation/result-sheet-service/adapters/memory"
	"tally/contexts/results-collation/result-sheet-service/application/commands"
	"tally/contexts/results-collation/result-sheet-service/application/queries"
	"tally/contexts/results-collation/result-sheet-service/application/workers"
	"tally/contexts/results-collation/result-sheet-service/domain/entities"
	"tally/contexts/results-collation/result-sheet-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sheets ports.SheetRepository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	sheetUseCase := commands.SheetUseCase{
		Sheets: deps.Sheets,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	queryUseCase := queries.SheetQueryUseCase{
		Sheets: deps.Sheets,
	}
	return Module{
		Handler: httpadapter.Handler{
			Sheets:  sheetUseCase,
			Queries: queryUseCase,
			Logger:  deps.Logger,
		},
	}
}

// NewFeedRelay wires the bus-publishing worker for the persisted feed.
func NewFeedRelay(feed ports.FeedOutboxRepository, publisher ports.EventPublisher, clock ports.Clock, logger *slog.Logger) workers.FeedRelay {
	return workers.FeedRelay{
		Feed:      feed,
		Publisher: publisher,
		Clock:     clock,
		Logger:    logger,
	}
}

func NewInMemoryModule(seed []entities.Sheet, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Sheets: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
