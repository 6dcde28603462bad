package transport

import (
	"encoding/json"
	"net/http"

	"bookstore-api/internal/middleware"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// GraphQLRequest is the standard POST body: a query document plus
// optional variables and operation name.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// GraphQLHandler executes GraphQL requests against a compiled schema.
// GET serves a minimal HTML console for poking at the API by hand.
type GraphQLHandler struct {
	schema graphql.Schema
	logger *zap.Logger
}

// NewGraphQLHandler creates a new GraphQL HTTP handler
func NewGraphQLHandler(schema graphql.Schema, logger *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{schema: schema, logger: logger}
}

func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.serveConsole(w)
	case http.MethodPost:
		h.serveQuery(w, r)
	default:
		middleware.RespondWithError(w, http.StatusMethodNotAllowed, "only GET and POST are supported")
	}
}

func (h *GraphQLHandler) serveQuery(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logger.Debug("GraphQL request returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("error_count", len(result.Errors)),
		)
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *GraphQLHandler) serveConsole(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(consoleHTML))
}

const consoleHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Bookstore API Console</title>
  <style>
    body { font-family: monospace; margin: 2rem; }
    textarea { width: 100%; height: 14rem; }
    pre { background: #f4f4f4; padding: 1rem; overflow: auto; }
  </style>
</head>
<body>
  <h1>Bookstore API</h1>
  <p>POST GraphQL documents to this endpoint, or try one here:</p>
  <textarea id="query">{ featuredBooks(limit: 5) { title author price rating } }</textarea>
  <br><button onclick="run()">Run</button>
  <pre id="result"></pre>
  <script>
    async function run() {
      const res = await fetch('/graphql', {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ query: document.getElementById('query').value })
      });
      document.getElementById('result').textContent =
        JSON.stringify(await res.json(), null, 2);
    }
  </script>
</body>
</html>
`
