package prometheus

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prysmaticlabs/lean/runtime"
	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
	"github.com/sirupsen/logrus"
)

type mockService struct {
	status error
}

func (_ *mockService) Start() {}

func (_ *mockService) Stop() error {
	return nil
}

func (m *mockService) Status() error {
	return m.status
}

type failingService struct {
	mockService
}

func TestLifecycle(t *testing.T) {
	prometheusService := NewService("127.0.0.1:0", nil)
	prometheusService.Start()

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", prometheusService.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, len(body) > 0)

	require.NoError(t, prometheusService.Stop())
}

func TestHealthz(t *testing.T) {
	registry := runtime.NewServiceRegistry()
	s := NewService("", registry)
	require.NoError(t, registry.RegisterService(&mockService{}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	s.healthzHandler(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.StringContains(t, "*prometheus.mockService: OK", rr.Body.String())

	require.NoError(t, registry.RegisterService(&failingService{mockService{status: errors.New("something really bad")}}))
	rr = httptest.NewRecorder()
	s.healthzHandler(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.StringContains(t, "*prometheus.failingService: ERROR, something really bad", rr.Body.String())

	req.Header.Set("Accept", "application/json")
	rr = httptest.NewRecorder()
	s.healthzHandler(rr, req)
	assert.Equal(t, true, strings.Contains(rr.Body.String(), `"error":"something really bad"`))
}

func TestLogrusCollector(t *testing.T) {
	hook := NewLogrusCollector()
	entry := logrus.NewEntry(logrus.New()).WithField("prefix", "forkchoice")
	entry.Level = logrus.WarnLevel
	require.NoError(t, hook.Fire(entry))

	entry = logrus.NewEntry(logrus.New()).WithField("prefix", 3)
	entry.Level = logrus.InfoLevel
	require.ErrorContains(t, "prefix is not a string", hook.Fire(entry))
	assert.Equal(t, 3, len(hook.Levels()))
}
