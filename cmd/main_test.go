package main

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/city-directory/internal/config"
	"github.com/ukydev/city-directory/internal/events"
	"github.com/ukydev/city-directory/internal/geocode"
)

func TestNewServer(t *testing.T) {
	cfg := config.Default()
	cfg.HTTPAddr = ":9090"
	router := mux.NewRouter()

	srv := newServer(cfg, router)

	assert.Equal(t, ":9090", srv.Addr)
	assert.Equal(t, cfg.ReadTimeout, srv.ReadTimeout)
	assert.Equal(t, cfg.WriteTimeout, srv.WriteTimeout)
	assert.Equal(t, cfg.IdleTimeout, srv.IdleTimeout)
	assert.Same(t, router, srv.Handler)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: mux.NewRouter()}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "127.0.0.1:-1"}
	err := serve(context.Background(), srv, time.Second)
	assert.Error(t, err)
}

func TestNewGeocoder(t *testing.T) {
	t.Run("without redis", func(t *testing.T) {
		cfg := config.Default()
		g, closeFn := newGeocoder(cfg)
		defer closeFn()
		assert.IsType(t, &geocode.NominatimClient{}, g)
	})

	t.Run("with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.RedisAddr = mr.Addr()
		g, closeFn := newGeocoder(cfg)
		defer closeFn()
		assert.IsType(t, &geocode.RedisCache{}, g)
	})
}

func TestNewBus_WithoutBroker(t *testing.T) {
	cfg := config.Default()
	bus := newBus(cfg, "test")
	defer bus.Close()

	_, ok := bus.(*events.LocalBus)
	require.True(t, ok)
}

func TestNewInstanceID(t *testing.T) {
	a := newInstanceID("city-directory")
	b := newInstanceID("city-directory")

	assert.True(t, strings.HasPrefix(a, "city-directory-"))
	assert.NotEqual(t, a, b)
	assert.Len(t, newInstanceID(""), 8)
}
