package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Test static errors.
var (
	ErrTestPublish = errors.New("broker unavailable")
)

const (
	testSubscription  = "sub-1"
	testResourceGroup = "rg-1"
	testAccount       = "acct-1"
)

//nolint:gochecknoglobals // shared fixture
var testScope = automation.Scope{ResourceGroup: testResourceGroup, Account: testAccount}

// accountPath is the decoded request path of an entity below the test account.
func accountPath(segments ...string) string {
	path := "/subscriptions/" + testSubscription + "/resourceGroups/" + testResourceGroup +
		"/providers/Microsoft.Automation/automationAccounts/" + testAccount

	if len(segments) > 0 {
		path += "/" + strings.Join(segments, "/")
	}

	return path
}

// recordedRequest is one request seen by the fake service.
type recordedRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Headers http.Header
	Body    []byte
}

// decode unmarshals the recorded JSON body.
func (r recordedRequest) decode(t *testing.T) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &body))

	return body
}

// fakeARM is a route table standing in for the management API. Unknown
// routes answer 404 ResourceNotFound.
type fakeARM struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	prefixes map[string]http.HandlerFunc
	seen     []recordedRequest
}

func newFakeARM(t *testing.T) *fakeARM {
	t.Helper()

	fake := &fakeARM{
		t:        t,
		handlers: map[string]http.HandlerFunc{},
		prefixes: map[string]http.HandlerFunc{},
	}
	fake.server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.server.Close)

	return fake
}

func (f *fakeARM) serve(writer http.ResponseWriter, request *http.Request) {
	body, _ := io.ReadAll(request.Body)

	f.mu.Lock()
	f.seen = append(f.seen, recordedRequest{
		Method:  request.Method,
		Path:    request.URL.Path,
		Query:   request.URL.Query(),
		Headers: request.Header.Clone(),
		Body:    body,
	})
	handler, ok := f.handlers[request.Method+" "+request.URL.Path]
	if !ok {
		handler, ok = f.matchPrefix(request.Method, request.URL.Path)
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(writer, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": "ResourceNotFound", "message": "not found"},
		})

		return
	}

	handler(writer, request)
}

// handle registers handler for method and decoded path.
func (f *fakeARM) handle(method, path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers[method+" "+path] = handler
}

// handlePrefix registers handler for every path below prefix. Exact routes
// win over prefixes.
func (f *fakeARM) handlePrefix(method, prefix string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prefixes[method+" "+prefix] = handler
}

func (f *fakeARM) matchPrefix(method, path string) (http.HandlerFunc, bool) {
	for key, handler := range f.prefixes {
		if strings.HasPrefix(method+" "+path, key) {
			return handler, true
		}
	}

	return nil, false
}

// requestsUnder returns the recorded requests below prefix.
func (f *fakeARM) requestsUnder(method, prefix string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []recordedRequest

	for _, req := range f.seen {
		if req.Method == method && strings.HasPrefix(req.Path, prefix) {
			matched = append(matched, req)
		}
	}

	return matched
}

// reply registers a fixed JSON answer.
func (f *fakeARM) reply(method, path string, status int, body any) {
	f.handle(method, path, func(writer http.ResponseWriter, _ *http.Request) {
		writeJSON(writer, status, body)
	})
}

// createOnPut serves path as absent until a PUT arrives, then GET answers wire.
func (f *fakeARM) createOnPut(path string, wire any) {
	var (
		mu      sync.Mutex
		created bool
	)

	f.handle(http.MethodPut, path, func(writer http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		created = true
		mu.Unlock()

		writeJSON(writer, http.StatusCreated, wire)
	})

	f.handle(http.MethodGet, path, func(writer http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		exists := created
		mu.Unlock()

		if !exists {
			writeJSON(writer, http.StatusNotFound, map[string]any{
				"error": map[string]any{"code": "ResourceNotFound", "message": "not found"},
			})

			return
		}

		writeJSON(writer, http.StatusOK, wire)
	})
}

// deleteOnDelete serves wire at path until a DELETE arrives. After that GET
// answers 404 and a repeated DELETE answers 204, as the service does.
func (f *fakeARM) deleteOnDelete(path string, wire any) {
	var (
		mu      sync.Mutex
		deleted bool
	)

	f.handle(http.MethodDelete, path, func(writer http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		gone := deleted
		deleted = true
		mu.Unlock()

		if gone {
			writeJSON(writer, http.StatusNoContent, nil)

			return
		}

		writeJSON(writer, http.StatusOK, nil)
	})

	f.handle(http.MethodGet, path, func(writer http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		gone := deleted
		mu.Unlock()

		if gone {
			writeJSON(writer, http.StatusNotFound, map[string]any{
				"error": map[string]any{"code": "ResourceNotFound", "message": "not found"},
			})

			return
		}

		writeJSON(writer, http.StatusOK, wire)
	})
}

// requests returns the recorded requests matching method and path.
func (f *fakeARM) requests(method, path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []recordedRequest

	for _, req := range f.seen {
		if req.Method == method && req.Path == path {
			matched = append(matched, req)
		}
	}

	return matched
}

// all returns every recorded request in arrival order.
func (f *fakeARM) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]recordedRequest(nil), f.seen...)
}

// client builds a facade client against the fake service.
func (f *fakeARM) client(publisher automation.EventPublisher) *Client {
	f.t.Helper()

	client, err := New(context.Background(), &automation.Config{
		Endpoint:       f.server.URL,
		SubscriptionID: testSubscription,
		AccessToken:    "test-token",
		Publisher:      publisher,
	})
	require.NoError(f.t, err)

	return client
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	if body == nil {
		writer.WriteHeader(status)

		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

// recordingPublisher captures mutation events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []automation.MutationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event automation.MutationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *recordingPublisher) recorded() []automation.MutationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]automation.MutationEvent(nil), p.events...)
}

// testLogger captures log lines for assertions.
type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lines = append(l.lines, level+": "+msg)
}

func (l *testLogger) Debug(msg string, _ map[string]interface{}) { l.add("debug", msg) }
func (l *testLogger) Info(msg string, _ map[string]interface{})  { l.add("info", msg) }
func (l *testLogger) Warn(msg string, _ map[string]interface{})  { l.add("warn", msg) }
func (l *testLogger) Error(msg string, _ map[string]interface{}) { l.add("error", msg) }

func (l *testLogger) recorded() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.lines...)
}

// publishedRunbook is the wire shape of a published runbook declaring params.
func publishedRunbook(name string, params map[string]any) map[string]any {
	return map[string]any{
		"name":     name,
		"location": "westeurope",
		"properties": map[string]any{
			"runbookType": "PowerShell",
			"state":       "Published",
			"parameters":  params,
		},
	}
}
