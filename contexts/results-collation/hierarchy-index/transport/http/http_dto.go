package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type NodeResponse struct {
	NodeID           string `json:"node_id"`
	Name             string `json:"name"`
	Level            string `json:"level"`
	ParentID         string `json:"parent_id,omitempty"`
	RegisteredVoters int64  `json:"registered_voters"`
	LeafStations     int    `json:"leaf_stations"`
}

type NodeListResponse struct {
	Items []NodeResponse `json:"items"`
}
