package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"musichub/internal/command"
	"musichub/internal/microservices/http-api/handler"
	"musichub/internal/player"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRPCRouter(t *testing.T) (*gin.Engine, *player.StaticRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := player.NewStaticRegistry()
	registry.Add(player.NewDemoPlayer("living_room", "Living Room", nil))
	dispatcher := command.NewDispatcher(registry, nil)

	router := gin.New()
	handler.NewJSONRPCHandler(dispatcher, nil).RegisterRoutes(router)
	return router, registry
}

func rpc(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/jsonrpc.js", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestJSONRPCSuccess(t *testing.T) {
	router, registry := newRPCRouter(t)

	w := rpc(router, `{"id":1,"method":"slim.request","params":["living_room",["play"]]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())

	p, err := registry.Get(context.Background(), "living_room")
	require.NoError(t, err)
	assert.Equal(t, "playing", p.Info().State)
}

func TestJSONRPCVolumePhrase(t *testing.T) {
	router, registry := newRPCRouter(t)

	w := rpc(router, `{"id":1,"method":"slim.request","params":["living_room",["mixer","volume","70"]]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())

	p, err := registry.Get(context.Background(), "living_room")
	require.NoError(t, err)
	assert.Equal(t, 70, p.Info().Volume)
}

func TestJSONRPCUnsupportedPhrase(t *testing.T) {
	router, _ := newRPCRouter(t)

	w := rpc(router, `{"id":1,"method":"slim.request","params":["living_room",["display","brightness","4"]]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "command not supported", w.Body.String())
}

func TestJSONRPCUnknownPlayer(t *testing.T) {
	router, _ := newRPCRouter(t)

	w := rpc(router, `{"id":1,"method":"slim.request","params":["ghost",["play"]]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "unknown player", w.Body.String())
}

func TestJSONRPCInvalidBody(t *testing.T) {
	router, _ := newRPCRouter(t)

	for _, body := range []string{
		"not json",
		`{"id":1,"method":"slim.request","params":[]}`,
		`{"id":1,"method":"slim.request","params":[42,["play"]]}`,
		`{"id":1,"method":"slim.request","params":["living_room","play"]}`,
	} {
		w := rpc(router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
	}
}

func TestJSONRPCAcceptsGET(t *testing.T) {
	router, _ := newRPCRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jsonrpc.js",
		strings.NewReader(`{"id":1,"method":"slim.request","params":["living_room",["stop"]]}`))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", w.Body.String())
}
