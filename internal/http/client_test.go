package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	azhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

func staticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/subscriptions/sub/resourceGroups/rg1", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Equal(t, constants.DefaultAPIVersion, request.URL.Query().Get("api-version"))
			assert.NotEmpty(t, request.Header.Get(constants.HeaderClientRequestID))

			_ = json.NewEncoder(writer).Encode(map[string]string{"name": "rg1", "location": "eastus"})
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, staticToken("test-token"))

		resp, err := client.Do(context.Background(), &azhttp.Request{
			Method: "GET",
			Path:   "/subscriptions/sub/resourceGroups/rg1",
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.NotEmpty(t, resp.RequestID)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "rg1", result["name"])
		assert.Equal(t, "eastus", result["location"])
	})

	t.Run("request with query parameters keeps explicit api-version", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "2015-10-31", request.URL.Query().Get("api-version"))
			assert.Equal(t, "properties/runbook/name eq 'rb1'", request.URL.Query().Get("$filter"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &azhttp.Request{
			Method: "GET",
			Path:   "/webhooks",
			Query: url.Values{
				"api-version": []string{"2015-10-31"},
				"$filter":     []string{"properties/runbook/name eq 'rb1'"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "PUT", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "acct1", body["name"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Put(context.Background(), "/accounts/acct1", map[string]string{"name": "acct1"})
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("request with raw body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, constants.RunbookContentType, request.Header.Get("Content-Type"))

			data, _ := io.ReadAll(request.Body)
			assert.Equal(t, "Write-Output 'hi'", string(data))

			writer.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &azhttp.Request{
			Method:      "PUT",
			Path:        "/runbooks/rb1/draft/content",
			RawBody:     []byte("Write-Output 'hi'"),
			ContentType: constants.RunbookContentType,
		})
		require.NoError(t, err)
		assert.Equal(t, 202, resp.StatusCode)
	})

	t.Run("error response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusNotFound)

			_ = json.NewEncoder(writer).Encode(map[string]any{
				"error": map[string]string{
					"code":    "ResourceNotFound",
					"message": "The Resource 'rb1' was not found.",
				},
			})
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/runbooks/rb1", nil)
		require.Error(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		respErr := &automation.ResponseError{}
		ok := errors.As(err, &respErr)
		require.True(t, ok)
		assert.Equal(t, "ResourceNotFound", respErr.Code)
		assert.Equal(t, "The Resource 'rb1' was not found.", respErr.Message)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Do(context.Background(), &azhttp.Request{
			Method:  "GET",
			Path:    "/test",
			Headers: map[string]string{"X-Custom-Header": "custom-value"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		logger := &MockLogger{}
		client := azhttp.NewClient(server.URL, nil, azhttp.WithLogger(logger), azhttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)

		assert.Len(t, logger.logs, 2)
		assert.Equal(t, "HTTP Request", logger.logs[0]["msg"])
		assert.Equal(t, "HTTP Response", logger.logs[1]["msg"])
	})

	t.Run("token source failure", func(t *testing.T) {
		t.Parallel()

		client := azhttp.NewClient("https://management.example.com", failingTokenSource{})

		_, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting access token")
	})
}

type failingTokenSource struct{}

var errTokenUnavailable = errors.New("token unavailable")

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errTokenUnavailable
}

func TestClient_NextLinks(t *testing.T) {
	t.Parallel()

	t.Run("absolute next link is used verbatim", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/runbooks", request.URL.Path)
			assert.Equal(t, "abc", request.URL.Query().Get("$skiptoken"))
			assert.Equal(t, "2019-06-01", request.URL.Query().Get("api-version"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		_, err := client.Get(context.Background(), server.URL+"/runbooks?api-version=2019-06-01&$skiptoken=abc", nil)
		require.NoError(t, err)
	})

	t.Run("next link on another host is rejected", func(t *testing.T) {
		t.Parallel()

		client := azhttp.NewClient("https://management.azure.com", staticToken("secret"))

		_, err := client.Get(context.Background(), "https://attacker.example.com/runbooks", nil)
		require.ErrorIs(t, err, constants.ErrForeignNextLink)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*azhttp.Client, context.Context) (*azhttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *azhttp.Client, ctx context.Context) (*azhttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *azhttp.Client, ctx context.Context) (*azhttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *azhttp.Client, ctx context.Context) (*azhttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *azhttp.Client, ctx context.Context) (*azhttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *azhttp.Client, ctx context.Context) (*azhttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := azhttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_RetryLogic(t *testing.T) {
	t.Parallel()

	t.Run("does not retry by default", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})

	t.Run("retries on 5xx errors when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 3 {
				writer.WriteHeader(http.StatusInternalServerError)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil, azhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(3), attempts.Load())
	})

	t.Run("retries on rate limiting when enabled", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if attempts.Add(1) < 2 {
				writer.WriteHeader(http.StatusTooManyRequests)
			} else {
				writer.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil, azhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, int32(2), attempts.Load())
	})

	t.Run("does not retry on client errors", func(t *testing.T) {
		t.Parallel()

		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := azhttp.NewClient(server.URL, nil, azhttp.WithRetryConfig(3, 10*time.Millisecond, 100*time.Millisecond))

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())
	})
}

func TestClient_RateLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := azhttp.NewClient(server.URL, nil, azhttp.WithRateLimit(1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/test", nil)
	require.NoError(t, err)

	_, err = client.Get(ctx, "/test", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestRequestSettings(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		ids []string
	)

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		mu.Lock()
		ids = append(ids, request.Header.Get(constants.HeaderClientRequestID))
		mu.Unlock()
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := azhttp.NewClient(server.URL, nil)

	first := client.BeginOperation(context.Background(), "first")
	_, err := client.Get(first.Context(), "/a", nil)
	require.NoError(t, err)

	nested := client.BeginOperation(first.Context(), "nested")
	assert.Equal(t, first.RequestID(), nested.RequestID())
	_, err = client.Get(nested.Context(), "/b", nil)
	require.NoError(t, err)
	nested.Close()
	first.Close()

	second := client.BeginOperation(context.Background(), "second")
	_, err = client.Get(second.Context(), "/c", nil)
	require.NoError(t, err)
	second.Close()

	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[2])
	assert.Equal(t, first.RequestID(), ids[0])
}
