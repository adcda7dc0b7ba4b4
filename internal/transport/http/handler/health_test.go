package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealth_Ping(t *testing.T) {
	h := NewHealthHandler(nil)
	w := httptest.NewRecorder()
	h.Ping(w, newRequest(http.MethodGet, "/", "", nil, map[string]string{"action": "ping"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestHealth_Ready(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})
	w := httptest.NewRecorder()
	h.Ping(w, newRequest(http.MethodGet, "/", "", nil, map[string]string{"action": "ready"}))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_NotReady(t *testing.T) {
	h := NewHealthHandler(map[string]HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})
	w := httptest.NewRecorder()
	h.Ping(w, newRequest(http.MethodGet, "/", "", nil, map[string]string{"action": "ready"}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

func TestHealth_UnknownAction(t *testing.T) {
	h := NewHealthHandler(nil)
	w := httptest.NewRecorder()
	h.Ping(w, newRequest(http.MethodGet, "/", "", nil, map[string]string{"action": "dance"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
