package graphqlapi

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
)

type requestBody struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves the GraphQL endpoint. The resolver reads the optional
// Session that authmw.Middleware attached to the request context; Handler
// itself carries no auth logic.
func Handler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body requestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "invalid request body"})
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			OperationName:  body.OperationName,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		// GraphQL errors (lobby domain errors included) are payload-level;
		// the HTTP status stays 200 per spec §7.
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(result)
	})
}

// PlaygroundHandler serves a static placeholder page pointing at /api when
// enabled is true; the page has no in-browser query editor. Otherwise the
// route exists but answers 404 ("enabled, but rejecting all traffic" made
// concrete as a flag rather than an absent route).
func PlaygroundHandler(enabled bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(playgroundHTML))
	})
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head><title>lobbyd — GraphQL playground</title></head>
<body>
<h1>lobbyd GraphQL playground</h1>
<p>POST queries to <code>/api</code>. This page is a static stub; wire in a
full in-browser IDE (e.g. GraphiQL) if interactive editing is needed.</p>
</body>
</html>`
