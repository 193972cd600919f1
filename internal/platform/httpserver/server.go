package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	incidenttracker "tally/contexts/field-operations/incident-tracker"
	officerregistry "tally/contexts/field-operations/officer-registry"
	aggregationengine "tally/contexts/results-collation/aggregation-engine"
	dashboardservice "tally/contexts/results-collation/dashboard-service"
	hierarchyindex "tally/contexts/results-collation/hierarchy-index"
	resultsheetservice "tally/contexts/results-collation/result-sheet-service"
	"tally/internal/shared/capability"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tally/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	hierarchy   hierarchyindex.Module
	sheets      resultsheetservice.Module
	aggregation aggregationengine.Module
	dashboard   dashboardservice.Module
	officers    officerregistry.Module
	incidents   incidenttracker.Module
}

func New(
	hierarchy hierarchyindex.Module,
	sheets resultsheetservice.Module,
	aggregation aggregationengine.Module,
	dashboard dashboardservice.Module,
	officers officerregistry.Module,
	incidents incidenttracker.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		hierarchy:   hierarchy,
		sheets:      sheets,
		aggregation: aggregation,
		dashboard:   dashboard,
		officers:    officers,
		incidents:   incidents,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/collation/v1/hierarchy/nodes/{node_id}", s.handleGetNode)
	s.mux.HandleFunc("GET /api/collation/v1/hierarchy/nodes/{node_id}/children", s.handleListChildren)
	s.mux.HandleFunc("GET /api/collation/v1/hierarchy/levels/{level}", s.handleListByLevel)

	s.mux.HandleFunc("POST /api/collation/v1/sheets", s.handleCreateSheet)
	s.mux.HandleFunc("GET /api/collation/v1/sheets", s.handleListSheets)
	s.mux.HandleFunc("GET /api/collation/v1/sheets/{sheet_id}", s.handleGetSheet)
	s.mux.HandleFunc("PUT /api/collation/v1/sheets/{sheet_id}/entries", s.handleBulkEntries)
	s.mux.HandleFunc("PUT /api/collation/v1/sheets/{sheet_id}/totals", s.handleUpdateTotals)
	s.mux.HandleFunc("POST /api/collation/v1/sheets/{sheet_id}/submit", s.handleSubmitSheet)
	s.mux.HandleFunc("POST /api/collation/v1/sheets/{sheet_id}/verify", s.handleVerifySheet)
	s.mux.HandleFunc("POST /api/collation/v1/sheets/{sheet_id}/approve", s.handleApproveSheet)
	s.mux.HandleFunc("POST /api/collation/v1/sheets/{sheet_id}/certify", s.handleCertifySheet)
	s.mux.HandleFunc("POST /api/collation/v1/sheets/{sheet_id}/reject", s.handleRejectSheet)

	s.mux.HandleFunc("GET /api/collation/v1/aggregates/{node_id}", s.handleGetAggregate)
	s.mux.HandleFunc("POST /api/collation/v1/aggregates/{node_id}/recompute", s.handleRecomputeAggregate)

	s.mux.HandleFunc("POST /api/collation/v1/officers", s.handleRegisterOfficer)
	s.mux.HandleFunc("GET /api/collation/v1/officers", s.handleListOfficers)
	s.mux.HandleFunc("GET /api/collation/v1/officers/{officer_id}", s.handleGetOfficer)
	s.mux.HandleFunc("POST /api/collation/v1/assignments", s.handleAssignOfficer)
	s.mux.HandleFunc("GET /api/collation/v1/assignments", s.handleListAssignments)
	s.mux.HandleFunc("POST /api/collation/v1/assignments/{assignment_id}/end", s.handleEndAssignment)

	s.mux.HandleFunc("POST /api/collation/v1/incidents", s.handleReportIncident)
	s.mux.HandleFunc("GET /api/collation/v1/incidents", s.handleListIncidents)
	s.mux.HandleFunc("GET /api/collation/v1/incidents/counts", s.handleIncidentCounts)
	s.mux.HandleFunc("GET /api/collation/v1/incidents/{incident_id}", s.handleGetIncident)
	s.mux.HandleFunc("POST /api/collation/v1/incidents/{incident_id}/resolve", s.handleResolveIncident)

	s.mux.HandleFunc("GET /api/collation/v1/dashboard/summary", s.handleDashboardSummary)
	s.mux.HandleFunc("GET /api/collation/v1/dashboard/regions", s.handleDashboardRegions)
	s.mux.HandleFunc("GET /api/collation/v1/dashboard/leading", s.handleDashboardLeading)
	s.mux.HandleFunc("GET /api/collation/v1/dashboard/feed", s.handleDashboardFeed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveCaller reads the gateway-injected identity headers. The gateway
// authenticates officers and resolves their roles to capability grants;
// the engine only checks capability presence.
func resolveCaller(r *http.Request) capability.Actor {
	return capability.Actor{
		OfficerID:    strings.TrimSpace(r.Header.Get("X-Officer-Id")),
		Capabilities: capability.ParseList(r.Header.Get("X-Capabilities")),
	}
}
