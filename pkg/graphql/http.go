package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
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
}

// HandlerConfig configures a GraphQLHandler
type HandlerConfig struct {
	MaxDepth int // defaults to DefaultMaxDepth
	Logger   logging.Logger
}

// GraphQLHandler handles GraphQL HTTP requests
type GraphQLHandler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewGraphQLHandler creates a new GraphQL HTTP handler
func NewGraphQLHandler(schema graphql.Schema, config *HandlerConfig) *GraphQLHandler {
	if config == nil {
		config = &HandlerConfig{}
	}
	maxDepth := config.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GraphQLHandler{
		schema:   schema,
		maxDepth: maxDepth,
		logger:   logger.With(logging.Component("graphql")),
	}
}

// ServeHTTP handles POST requests with a JSON body
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var result *graphql.Result
	if err := ValidateQueryDepth(req.Query, h.maxDepth); err != nil {
		result = depthError(err)
	} else {
		params := graphql.Params{
			Schema:         h.schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		}
		result = graphql.Do(params)
	}

	response := GraphQLResponse{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]GraphQLError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = GraphQLError{Message: err.Message}
		}
		h.logger.Debug("query returned errors",
			logging.Int("errors", len(result.Errors)),
			logging.String("first", result.Errors[0].Message),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Warn("failed to write response", logging.Error(err))
	}
}
