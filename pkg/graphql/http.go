package graphql

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/graphql-go/graphql"
)

// GraphQLRequest represents a GraphQL HTTP request
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// GraphQLHandler handles GraphQL HTTP requests
type GraphQLHandler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewGraphQLHandler creates a new GraphQL HTTP handler with
// DefaultMaxDepth.
func NewGraphQLHandler(schema graphql.Schema, logger logging.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema:   schema,
		maxDepth: DefaultMaxDepth,
		logger:   logging.OrNop(logger).With(logging.Component("graphql")),
	}
}

// WithMaxDepth overrides the depth limit; zero disables it.
func (h *GraphQLHandler) WithMaxDepth(depth int) *GraphQLHandler {
	h.maxDepth = depth
	return h
}

// ServeHTTP handles HTTP requests for GraphQL queries
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result := Execute(r.Context(), h.schema, req, h.maxDepth)

	response := GraphQLResponse{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]GraphQLError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = GraphQLError{Message: err.Message, Path: err.Path}
		}
		h.logger.Debug("graphql request returned errors",
			logging.Count(len(result.Errors)), logging.String("first", result.Errors[0].Message))
	}
	h.logger.Debug("graphql request", logging.Operation(req.OperationName), logging.Latency(time.Since(start)))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
