package runtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/prysmaticlabs/lean/testing/assert"
	"github.com/prysmaticlabs/lean/testing/require"
)

type mockService struct {
	status  error
	stopErr error
	stopped *[]string
	name    string
	started sync.WaitGroup
}

func (m *mockService) Start() {
	m.started.Done()
}

func (m *mockService) Stop() error {
	if m.stopped != nil {
		*m.stopped = append(*m.stopped, m.name)
	}
	return m.stopErr
}

func (m *mockService) Status() error {
	return m.status
}

type secondMockService struct {
	mockService
}

func TestRegisterService_Twice(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	require.Equal(t, 1, len(registry.serviceTypes))
	assert.ErrorIs(t, registry.RegisterService(m), ErrServiceExists)
}

func TestRegisterService_Different(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")
	require.NoError(t, registry.RegisterService(s), "Failed to register second service")

	require.DeepEqual(t, []string{"*runtime.mockService", "*runtime.secondMockService"}, registry.Names())
}

func TestFetchService_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	assert.ErrorContains(t, "input must be of pointer type", registry.FetchService(struct{}{}))

	var s *secondMockService
	assert.ErrorIs(t, registry.FetchService(&s), ErrUnknownService)

	var m2 *mockService
	require.NoError(t, registry.FetchService(&m2), "Failed to fetch service")
	require.Equal(t, m, m2)
}

func TestServiceStatus_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := &mockService{}
	require.NoError(t, registry.RegisterService(m))
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(s))

	m.status = errors.New("store not initialized")

	statuses := registry.Statuses()
	assert.ErrorContains(t, "store not initialized", statuses["*runtime.mockService"])
	assert.NoError(t, statuses["*runtime.secondMockService"])
}

func TestStartAll_StopAllReverseOrder(t *testing.T) {
	registry := NewServiceRegistry()
	var stopped []string

	m := &mockService{name: "first", stopped: &stopped, stopErr: errors.New("busy")}
	s := &secondMockService{mockService{name: "second", stopped: &stopped}}
	m.started.Add(1)
	s.started.Add(1)
	require.NoError(t, registry.RegisterService(m))
	require.NoError(t, registry.RegisterService(s))

	registry.StartAll()
	m.started.Wait()
	s.started.Wait()

	registry.StopAll()
	require.DeepEqual(t, []string{"second", "first"}, stopped)
}
