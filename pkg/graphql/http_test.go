package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, body string) (*httptest.ResponseRecorder, GraphQLResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp GraphQLResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestGraphQLHTTPHandler(t *testing.T) {
	handler := NewGraphQLHandler(newSchema(t, newBackend(t)), nil)

	body, _ := json.Marshal(GraphQLRequest{
		Query:     `query($t: String) { nodes(type: $t) { label } }`,
		Variables: map[string]any{"t": ex + "Robot"},
	})
	w, resp := post(t, handler, string(body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Empty(t, resp.Errors)
	nodes := resp.Data.(map[string]any)["nodes"].([]any)
	require.Len(t, nodes, 1)
	assert.Equal(t, "ex:Carol", nodes[0].(map[string]any)["label"])
}

func TestGraphQLHTTPHandlerErrors(t *testing.T) {
	handler := NewGraphQLHandler(newSchema(t, newBackend(t)), &HandlerConfig{MaxDepth: 2})

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w, _ = post(t, handler, "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, resp := post(t, handler, `{"query": "{ nodes { outgoing { targetNode { iri } } } }"}`)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "depth")

	_, resp = post(t, handler, `{"query": "{ nope }"}`)
	assert.NotEmpty(t, resp.Errors)
}

func TestGraphQLHTTPHandlerMutation(t *testing.T) {
	backend := newBackend(t)
	handler := NewGraphQLHandler(newSchema(t, backend), nil)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(GraphQLRequest{
		Query: `mutation { select(types: [], predicates: []) { visibleNodes } }`,
	}))
	_, resp := post(t, handler, buf.String())
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 0, backend.Snapshot().View.VisibleNodes())
}
