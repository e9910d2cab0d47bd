package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sakurp633/Vk2TG-Repost/internal/config"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) *VKSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := NewVK(srv.Client(), config.Source{
		Credential: "token",
		OwnerID:    -123,
		APIVersion: "5.131",
	}, time.Second)
	s.endpoint = srv.URL
	return s
}

func TestFetch_ParsesWallResponse(t *testing.T) {
	const body = `{
		"response": {
			"items": [
				{
					"id": 7,
					"owner_id": -123,
					"date": 1700000000,
					"text": "first",
					"likes": {"count": 3},
					"attachments": [
						{
							"type": "photo",
							"photo": {"sizes": [{"type": "x", "url": "https://img/a.jpg", "width": 604, "height": 340}]}
						}
					]
				},
				{"id": 8, "date": 1700000100, "text": "second"}
			]
		}
	}`

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "-123", q.Get("owner_id"))
		assert.Equal(t, "10", q.Get("count"))
		assert.Equal(t, "token", q.Get("access_token"))
		assert.Equal(t, "5.131", q.Get("v"))
		assert.Equal(t, "VK2TG/2.0", r.Header.Get("User-Agent"))

		w.Write([]byte(body))
	})

	posts, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, int64(1700000000), posts[0].Date)
	assert.Equal(t, "first", posts[0].Text)
	require.NotNil(t, posts[0].Likes)
	assert.Equal(t, 3, posts[0].Likes.Count)
	require.Len(t, posts[0].Attachments, 1)
	assert.Equal(t, "photo", posts[0].Attachments[0].Type)

	assert.Equal(t, "second", posts[1].Text)
	assert.Nil(t, posts[1].Likes)
}

func TestFetch_APIError(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"error_code": 5, "error_msg": "User authorization failed"}}`))
	})

	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User authorization failed")
}

func TestFetch_MalformedBody(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := s.Fetch(context.Background())
	require.Error(t, err)
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetch_EmptyWindow(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"items": []}}`))
	})

	posts, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}
