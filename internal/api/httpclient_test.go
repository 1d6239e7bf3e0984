package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dusk-indust/diffdetector/internal/diff"
	"github.com/dusk-indust/diffdetector/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc))

	id := uuid.NewString()
	require.NoError(t, client.SetLeft(ctx, id, []byte(alphabet)))
	require.NoError(t, client.SetRight(ctx, id, []byte("ABCDXFGHIJKLMNOPQRSTUVW")))

	outcome, ok, err := client.Compare(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, diff.OfRuns([]diff.Run{{Offset: 4, Length: 1}}), outcome)

	require.NoError(t, client.Delete(ctx, id))

	_, ok, err = client.Compare(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_OnlyLeftProvided(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc))

	id := uuid.NewString()
	require.NoError(t, client.SetLeft(ctx, id, []byte(alphabet)))

	_, ok, err := client.Compare(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_OnlyRightProvided(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc))

	id := uuid.NewString()
	require.NoError(t, client.SetRight(ctx, id, []byte(alphabet)))

	_, ok, err := client.Compare(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClient_CompareBytes(t *testing.T) {
	tests := []struct {
		name  string
		left  []byte
		right []byte
		want  diff.Outcome
	}{
		{name: "equal", left: []byte(alphabet), right: []byte(alphabet), want: diff.OfRuns(nil)},
		{name: "different lengths", left: []byte(alphabet), right: []byte("XXXX"), want: diff.DifferentLengths()},
		{
			name:  "diffs",
			left:  []byte(alphabet),
			right: []byte("ABCDXXXHIJXLMXXXXXSTUXX"),
			want: diff.OfRuns([]diff.Run{
				{Offset: 4, Length: 3},
				{Offset: 10, Length: 1},
				{Offset: 13, Length: 5},
				{Offset: 21, Length: 2},
			}),
		},
		{name: "nil and empty", left: nil, right: []byte{}, want: diff.OfRuns(nil)},
	}

	svc, left, right := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.CompareBytes(context.Background(), tt.left, tt.right)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, 0, left.Len(), "one-shot comparison must clean up")
			assert.Equal(t, 0, right.Len(), "one-shot comparison must clean up")
		})
	}
}

func TestHTTPClient_Health(t *testing.T) {
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc) + "/")

	assert.NoError(t, client.Health(context.Background()))
}

func TestHTTPClient_EscapesIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc))

	id := "id with spaces"
	require.NoError(t, client.SetLeft(ctx, id, []byte("x")))
	require.NoError(t, client.SetRight(ctx, id, []byte("y")))

	outcome, ok, err := client.Compare(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []diff.Run{{Offset: 0, Length: 1}}, outcome.Runs)

	cmp, err := svc.Compare(ctx, id)
	require.NoError(t, err)
	assert.True(t, cmp.Found(), "server must see the unescaped id")
}

func TestHTTPClient_ServerErrorBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, CodeInternal, "boom")
	}))
	t.Cleanup(srv.Close)
	client := NewHTTPClient(srv.URL)

	err := client.SetLeft(context.Background(), "id", []byte("x"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, CodeInternal, apiErr.Code)
	assert.Equal(t, "boom", apiErr.Message)
	assert.Contains(t, err.Error(), "set left")

	_, _, err = client.Compare(context.Background(), "id")
	require.True(t, errors.As(err, &apiErr))

	_, err = client.CompareBytes(context.Background(), []byte("a"), []byte("b"))
	require.True(t, errors.As(err, &apiErr))
}

func TestHTTPClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	err := NewHTTPClient(srv.URL).Delete(context.Background(), "id")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Empty(t, apiErr.Code)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, _, err := client.Compare(context.Background(), "id")
	require.Error(t, err)
}

func TestHTTPClient_WithHTTPClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	client := NewHTTPClient("http://example.invalid", WithHTTPClient(hc))
	assert.Same(t, hc, client.http)
}

func TestHTTPClient_RejectsUnaddressableIDs(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)
	client := NewHTTPClient(srv.URL)
	ctx := context.Background()

	for _, id := range []string{"", ".", ".."} {
		t.Run("id "+id, func(t *testing.T) {
			assert.ErrorIs(t, client.SetLeft(ctx, id, []byte("x")), service.ErrInvalidID)
			assert.ErrorIs(t, client.SetRight(ctx, id, []byte("x")), service.ErrInvalidID)
			assert.ErrorIs(t, client.Delete(ctx, id), service.ErrInvalidID)

			_, ok, err := client.Compare(ctx, id)
			assert.ErrorIs(t, err, service.ErrInvalidID)
			assert.False(t, ok)
		})
	}
	assert.Zero(t, hits.Load(), "no request may be sent for an invalid id")
}

func TestHTTPClient_UnroutedNotFoundIsError(t *testing.T) {
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, svc) + "/nope")

	_, ok, err := client.Compare(context.Background(), "abc")
	assert.False(t, ok)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Empty(t, apiErr.Code)
}

// failingDelete is a detector whose removals always fail.
type failingDelete struct {
	*service.Service
}

func (failingDelete) Delete(context.Context, string) error {
	return errors.New("remove failed")
}

func TestHTTPClient_CompareBytesReportsCleanupFailure(t *testing.T) {
	svc, _, _ := newMemService(t)
	client := NewHTTPClient(startTestServer(t, failingDelete{svc}))

	outcome, err := client.CompareBytes(context.Background(), []byte("AB"), []byte("AC"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cleanup")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, []diff.Run{{Offset: 1, Length: 1}}, outcome.Runs)
}
