package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-rdfgraph/pkg/config"
	"github.com/dd0wney/cluso-rdfgraph/pkg/dataset"
	"github.com/dd0wney/cluso-rdfgraph/pkg/export"
	"github.com/dd0wney/cluso-rdfgraph/pkg/metrics"
	"github.com/dd0wney/cluso-rdfgraph/pkg/namespace"
	"github.com/dd0wney/cluso-rdfgraph/pkg/rdf/rdftest"
	"github.com/dd0wney/cluso-rdfgraph/pkg/visibility"
	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server  *Server
	dataset *dataset.Dataset
	metrics *metrics.Registry
}

func newFixture(t *testing.T, load bool) *fixture {
	t.Helper()
	reg := metrics.NewRegistry()
	ds, err := dataset.New(&dataset.Config{
		Table: namespace.NewTable(
			namespace.Binding{Prefix: "ex", Namespace: rdftest.EX},
			namespace.Binding{Prefix: "foaf", Namespace: rdftest.FOAF},
		),
		Metrics: reg,
	})
	require.NoError(t, err)
	t.Cleanup(ds.Close)
	if load {
		_, err := ds.Load(rdftest.MustStore(rdftest.AliceBob()...))
		require.NoError(t, err)
	}

	srvCfg := config.DefaultConfig().Server
	srvCfg.CORSOrigins = []string{"http://viewer.test"}
	s, err := New(ds, &Config{Server: srvCfg, Metrics: reg})
	require.NoError(t, err)
	return &fixture{server: s, dataset: ds, metrics: reg}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestViewAndCounts(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(t, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeBody[ViewResponse](t, w)
	assert.Equal(t, 2, view.Nodes)
	assert.Equal(t, 1, view.Edges)
	assert.Equal(t, 2, view.VisibleNodes)
	assert.Equal(t, 1, view.VisibleEdges)
	assert.True(t, view.Styled)
	assert.Equal(t, []string{rdftest.EX + "Person"}, view.Selection.Types)
	assert.Equal(t, []string{rdftest.FOAF + "knows"}, view.Selection.Predicates)

	w = f.do(t, http.MethodGet, "/api/counts", "")
	require.Equal(t, http.StatusOK, w.Code)
	counts := decodeBody[CountsResponse](t, w)
	require.Len(t, counts.Types, 1)
	assert.Equal(t, "ex:Person", counts.Types[0].Label)
	assert.Equal(t, 2, counts.Types[0].Count)
	assert.Equal(t, "ex:Person  [2]", counts.Types[0].Description)
	require.Len(t, counts.Predicates, 1)
	assert.Equal(t, "foaf:knows", counts.Predicates[0].Label)
}

func TestSelection(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(t, http.MethodPost, "/api/selection",
		`{"types": ["`+rdftest.EX+`Person"], "predicates": []}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeBody[ViewResponse](t, w)
	assert.Equal(t, 2, view.VisibleNodes)
	assert.Equal(t, 0, view.VisibleEdges)
	assert.Equal(t, 0, f.dataset.Snapshot().View.VisibleEdges())

	w = f.do(t, http.MethodPost, "/api/selection", `{"types": [""], "predicates": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/selection", `{"types": [], "colour": "red"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/selection", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, http.StatusBadRequest, errResp.Code)
	assert.Contains(t, errResp.Message, "invalid request body")
}

func TestElements(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(t, http.MethodGet, "/api/elements?labelled=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody[export.Document](t, w)
	assert.Len(t, doc.Nodes(), 2)
	assert.Len(t, doc.Edges(), 1)

	w = f.do(t, http.MethodGet, "/api/elements?compress=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-snappy", w.Header().Get("Content-Type"))
	raw, err := snappy.Decode(nil, w.Body.Bytes())
	require.NoError(t, err)
	var compressed export.Document
	require.NoError(t, json.Unmarshal(raw, &compressed))
	assert.Len(t, compressed.Elements, 3)

	w = f.do(t, http.MethodGet, "/api/elements?labelled=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFocus(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(t, http.MethodPost, "/api/focus", `{"seeds": ["`+rdftest.EX+`Bob"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[FocusResponse](t, w)
	assert.NotEmpty(t, resp.Session)
	// Bob's own type triple plus Alice knows Bob
	assert.Equal(t, 2, resp.Triples)
	assert.Equal(t, 2, resp.Nodes)
	assert.Equal(t, 1, resp.Edges)
	require.NotNil(t, resp.Document)
	assert.Len(t, resp.Document.Edges(), 1)

	w = f.do(t, http.MethodPost, "/api/focus", `{"seeds": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/focus", `{"seeds": [" padded"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/focus", `{"seeds": ["`+rdftest.EX+`Nobody"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeBody[FocusResponse](t, w).Nodes)
}

func TestFocusBeforeLoad(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(t, http.MethodPost, "/api/focus", `{"seeds": ["`+rdftest.EX+`Bob"]}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = f.do(t, http.MethodGet, "/api/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeBody[ViewResponse](t, w).Nodes)
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t, false)

	assert.Equal(t, http.StatusServiceUnavailable, f.do(t, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/live", "").Code)

	_, err := f.dataset.Load(rdftest.MustStore(rdftest.AliceBob()...))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", "").Code)
}

func TestGraphQLRoute(t *testing.T) {
	f := newFixture(t, true)

	w := f.do(t, http.MethodPost, "/graphql", `{"query": "{ typeCounts { label count } }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ex:Person"`)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, true)

	f.do(t, http.MethodGet, "/api/view", "")
	f.do(t, http.MethodGet, "/api/view", "")
	f.do(t, http.MethodGet, "/nowhere", "")

	w := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `rdfgraph_http_requests_total{method="GET",path="/api/view",status="200"} 2`)
	assert.Contains(t, body, `rdfgraph_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, body, "rdfgraph_uptime_seconds")
}

func TestCORS(t *testing.T) {
	f := newFixture(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/view", nil)
	req.Header.Set("Origin", "http://viewer.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	assert.Equal(t, "http://viewer.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.Header.Set("Origin", "http://elsewhere.test")
	w = httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestEventsStream(t *testing.T) {
	f := newFixture(t, true)
	ts := httptest.NewServer(f.server)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	_, err = f.dataset.Apply(visibility.SelectionEvent{Types: []string{rdftest.EX + "Person"}})
	require.NoError(t, err)

	reader := bufio.NewReader(resp.Body)
	event, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: selection\n", event)
	data, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(data, "data: "))

	var view ViewResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &view))
	assert.Equal(t, 2, view.VisibleNodes)
	assert.Equal(t, 0, view.VisibleEdges)
}
