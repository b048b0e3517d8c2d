package forward

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient returns a Client with a small budget so failure tests stay fast.
func testClient() *Client {
	return NewClientWith(200*time.Millisecond, 3, 10*time.Millisecond)
}

// addrOf strips the scheme from an httptest server URL, since Client speaks
// to bare host:port peer addresses.
func addrOf(ts *httptest.Server) string {
	return strings.TrimPrefix(ts.URL, "http://")
}

// TestGetDefinitiveSuccess verifies that a 200 from the owner is returned
// immediately, without consuming extra attempts.
func TestGetDefinitiveSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/mykey", r.URL.Path)
		w.Write([]byte(`{"mykey": 42}`))
	}))
	defer ts.Close()

	status, body, err := testClient().Get(context.Background(), addrOf(ts), "mykey")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"mykey": 42}`, string(body))
	assert.Equal(t, int32(1), calls.Load())
}

// TestGetDefinitiveNotFound verifies that a 4xx is treated as a definitive
// answer: returned to the caller, never retried.
func TestGetDefinitiveNotFound(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "key not found", http.StatusNotFound)
	}))
	defer ts.Close()

	status, _, err := testClient().Get(context.Background(), addrOf(ts), "missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, int32(1), calls.Load())
}

// TestServerErrorRetriedToExhaustion verifies that 5xx responses are
// transient: the full attempt budget is consumed and the call fails with
// ErrRetriesExhausted.
func TestServerErrorRetriedToExhaustion(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, _, err := testClient().Get(context.Background(), addrOf(ts), "anykey")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted), "want ErrRetriesExhausted, got %v", err)
	assert.Equal(t, int32(3), calls.Load())
}

// TestServerErrorThenSuccess verifies that a transient failure followed by a
// definitive answer succeeds within the budget.
func TestServerErrorThenSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"k": "v"}`))
	}))
	defer ts.Close()

	status, body, err := testClient().Get(context.Background(), addrOf(ts), "k")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"k": "v"}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
}

// TestTransportErrorRetriedToExhaustion verifies that an unreachable owner
// (connection refused) consumes the budget and fails with
// ErrRetriesExhausted.
func TestTransportErrorRetriedToExhaustion(t *testing.T) {
	// Grab an address nothing is listening on
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := addrOf(ts)
	ts.Close()

	start := time.Now()
	_, _, err := testClient().Get(context.Background(), dead, "anykey")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted), "want ErrRetriesExhausted, got %v", err)

	// Connection refused fails fast; the loop should not take anywhere near
	// attempts * timeout
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestSetForwardsBodyAndContentType verifies the write path sends the raw
// JSON object to POST / with the JSON content type.
func TestSetForwardsBodyAndContentType(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/", r.URL.Path)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))

		buf, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, string(buf))

		w.Write([]byte(`{"a": 1}`))
	}))
	defer ts.Close()

	status, _, err := testClient().Set(context.Background(), addrOf(ts), []byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

// TestDeleteForwards verifies the delete path hits DELETE /{key} and relays
// the count body.
func TestDeleteForwards(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/victim", r.URL.Path)
		w.Write([]byte("1"))
	}))
	defer ts.Close()

	status, body, err := testClient().Delete(context.Background(), addrOf(ts), "victim")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "1", string(body))
}

// TestContextCancellationAbortsRetryLoop verifies that a cancelled context
// stops the loop between attempts instead of sleeping through the budget.
func TestContextCancellationAbortsRetryLoop(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClientWith(200*time.Millisecond, 100, 50*time.Millisecond)

	go func() {
		time.Sleep(75 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, _, err := client.Get(ctx, addrOf(ts), "anykey")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "want context.Canceled, got %v", err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
