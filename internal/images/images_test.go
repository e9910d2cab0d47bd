package images

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func newFetcher(client *http.Client, retries int) *Fetcher {
	return New(client, time.Second, retries, 0)
}

func TestFetch_ValidImage(t *testing.T) {
	want := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(want)
	}))
	defer srv.Close()

	got, err := newFetcher(srv.Client(), 3).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFetch_ExactlyMaxRetriesAttempts(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newFetcher(srv.Client(), 3).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestFetch_RecoversWithinRetryBudget(t *testing.T) {
	var attempts atomic.Int32
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write(img)
	}))
	defer srv.Close()

	got, err := newFetcher(srv.Client(), 3).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, img, got)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestFetch_RejectsNonImageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	}))
	defer srv.Close()

	_, err := newFetcher(srv.Client(), 2).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid image")
}

func TestFetch_HonorsRetryDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	delay := 50 * time.Millisecond
	f := New(srv.Client(), time.Second, 3, delay)

	start := time.Now()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 2*delay, "two inter-attempt delays for three attempts")
}

func TestFetch_StopsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.Client(), time.Second, 3, time.Second).Fetch(ctx, srv.URL)
	require.Error(t, err)
}
