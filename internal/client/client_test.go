package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studyhub/internal/app/models/dto"
)

func TestClientListAndMutations(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Method+" "+r.URL.Path)
		mu.Unlock()
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(dto.NotificationListResponse{
				Notifications: []dto.NotificationResponse{{ID: 2, Title: "b"}, {ID: 1, Title: "a", Read: true}},
				UnreadCount:   1,
			})
			return
		}
		_, _ = fmt.Fprint(w, `{"message":"ok"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx := context.Background()

	feed, err := c.ListNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, 1, feed.UnreadCount)

	require.NoError(t, c.MarkRead(ctx, 2))
	require.NoError(t, c.MarkAllRead(ctx))
	require.NoError(t, c.Archive(ctx, 1))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"GET /api/v1/notifications",
		"PATCH /api/v1/notifications/2/read",
		"PATCH /api/v1/notifications/mark-all-read",
		"DELETE /api/v1/notifications/1",
	}, seen)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantAuth bool
	}{
		{"missing credential", http.StatusUnauthorized, true},
		{"invalid credential", http.StatusForbidden, true},
		{"server fault", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(dto.NewErrorResponse(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "nope")))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "tok").ListNotifications(context.Background())
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.Equal(t, tt.wantAuth, IsAuthError(err))
			assert.Equal(t, tt.wantAuth, IsAuthError(fmt.Errorf("wrapped: %w", err)))
		})
	}
}

func TestClientLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req dto.LoginRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "ada@example.com", req.Email)
			_ = json.NewEncoder(w).Encode(dto.NewSuccessResponse(dto.AuthResponse{
				Token: dto.TokenResponse{AccessToken: "fresh", TokenType: "Bearer", ExpiresIn: 3600},
			}, "Login successful"))
		case "/api/v1/notifications":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = fmt.Fprint(w, `{"notifications":[],"unreadCount":0}`)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.Login(context.Background(), "ada@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "fresh", c.Token())

	feed, err := c.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Notifications)
}
