package control

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/pact-foundation/pact-mockserver/pkg/config"
	"github.com/pact-foundation/pact-mockserver/pkg/control/api"
	"github.com/pact-foundation/pact-mockserver/pkg/manager"
	"github.com/pact-foundation/pact-mockserver/pkg/pact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePactDoc = `{
	"consumer": {"name": "consumer"},
	"provider": {"name": "widget-service"},
	"interactions": [
		{"description": "X", "request": {"method": "GET", "path": "/x"}, "response": {"status": 200}}
	]
}`

func newTestServer(t *testing.T, opts ...Option) (*Server, *manager.ServerManager) {
	t.Helper()
	mgr := manager.New()
	t.Cleanup(mgr.ShutdownAll)
	srv := NewServer(mgr, 0, opts...)
	return srv, mgr
}

func TestHandleCreateStartsInstance(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(samplePactDoc))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp api.CreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.MockServerID)
	assert.NotZero(t, resp.Port)
}

func TestHandleCreateRejectsInvalidPact(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleListAndStatus(t *testing.T) {
	srv, mgr := newTestServer(t)
	id, port, err := mgr.Create(parseSamplePact(t), 0, config.DefaultInstanceConfig())
	require.NoError(t, err)

	listReq := httptest.NewRequest(http.MethodGet, "/", nil)
	listRec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)
	var entries []api.InstanceListEntry
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, port, entries[0].Port)
	assert.Equal(t, "pending", entries[0].VerificationState)

	statusReq := httptest.NewRequest(http.MethodGet, "/mockserver/"+id, nil)
	statusRec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(statusRec, statusReq)
	require.Equal(t, http.StatusOK, statusRec.Code)
	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &status))
	assert.Equal(t, "widget-service", status.Provider)
}

func TestHandleStatusUnknownID(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/mockserver/nonexistent", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVerifyUnmatchedReturns422(t *testing.T) {
	srv, mgr := newTestServer(t)
	id, _, err := mgr.Create(parseSamplePact(t), 0, config.DefaultInstanceConfig())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/mockserver/"+id+"/verify", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp api.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Matched)
}

func TestHandleVerifyMatchedReturns200(t *testing.T) {
	srv, mgr := newTestServer(t)
	id, port, err := mgr.Create(parseSamplePact(t), 0, config.DefaultInstanceConfig())
	require.NoError(t, err)

	inst, ok := mgr.LookupByID(id)
	require.True(t, ok)
	resp, err := http.Get("http://127.0.0.1:" + strconv.Itoa(port) + "/x")
	require.NoError(t, err)
	resp.Body.Close()
	require.True(t, inst.Matched())

	req := httptest.NewRequest(http.MethodPost, "/mockserver/"+id+"/verify", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	srv, mgr := newTestServer(t)
	id, _, err := mgr.Create(parseSamplePact(t), 0, config.DefaultInstanceConfig())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/mockserver/"+id, nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req2 := httptest.NewRequest(http.MethodDelete, "/mockserver/"+id, nil)
	rec2 := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec2, req2)
	assert.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestHandleShutdownRejectsWrongToken(t *testing.T) {
	called := false
	srv, _ := newTestServer(t, WithServerKey("secret"), WithShutdownMaster(func() { called = true }))

	req := httptest.NewRequest(http.MethodPost, "/shutdown?token=wrong", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestHandleShutdownAcceptsCorrectToken(t *testing.T) {
	done := make(chan struct{})
	srv, _ := newTestServer(t, WithServerKey("secret"), WithShutdownMaster(func() { close(done) }))

	req := httptest.NewRequest(http.MethodPost, "/shutdown?token=secret", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	<-done
}

func parseSamplePact(t *testing.T) *pact.Pact {
	t.Helper()
	p, err := pact.Parse([]byte(samplePactDoc))
	require.NoError(t, err)
	return p
}
