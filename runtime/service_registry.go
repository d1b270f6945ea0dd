// Package runtime holds the lifecycle plumbing shared by every long-running
// component of a node.
package runtime

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "registry")

var (
	// ErrServiceExists is returned when a second service of the same type is registered.
	ErrServiceExists = errors.New("service already exists")
	// ErrUnknownService is returned when fetching a type that was never registered.
	ErrUnknownService = errors.New("unknown service")
	errNotPointer     = errors.New("input must be of pointer type, received value type instead")
)

// Service is a component with a managed lifecycle.
type Service interface {
	// Start spawns any goroutines required by the service.
	Start()
	// Stop terminates all goroutines belonging to the service,
	// blocking until they are all terminated.
	Stop() error
	// Status returns error if the service is not considered healthy.
	Status() error
}

// ServiceRegistry starts, stops and reports on services in registration
// order. Services are keyed by their concrete type so that dependents can
// fetch the exact instance that was registered.
type ServiceRegistry struct {
	services     map[reflect.Type]Service
	serviceTypes []reflect.Type
}

// NewServiceRegistry returns an empty registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
	}
}

// StartAll starts each service on its own goroutine, in registration order.
func (s *ServiceRegistry) StartAll() {
	log.WithField("services", s.Names()).Debug("Starting services")
	for _, kind := range s.serviceTypes {
		go s.services[kind].Start()
	}
}

// StopAll stops every service in reverse registration order. Failures are
// logged and do not prevent the remaining services from stopping.
func (s *ServiceRegistry) StopAll() {
	for i := len(s.serviceTypes) - 1; i >= 0; i-- {
		kind := s.serviceTypes[i]
		if err := s.services[kind].Stop(); err != nil {
			log.WithError(err).WithField("service", kind.String()).Error("Could not stop service")
			continue
		}
		log.WithField("service", kind.String()).Debug("Stopped service")
	}
}

// Statuses reports Status() for each registered service keyed by type name.
func (s *ServiceRegistry) Statuses() map[string]error {
	m := make(map[string]error, len(s.serviceTypes))
	for _, kind := range s.serviceTypes {
		m[kind.String()] = s.services[kind].Status()
	}
	return m
}

// Names lists registered service types in registration order.
func (s *ServiceRegistry) Names() []string {
	names := make([]string, len(s.serviceTypes))
	for i, kind := range s.serviceTypes {
		names[i] = kind.String()
	}
	return names
}

// RegisterService adds a service. Only one service per concrete type is allowed.
func (s *ServiceRegistry) RegisterService(service Service) error {
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		return errors.Wrapf(ErrServiceExists, "%v", kind)
	}
	s.services[kind] = service
	s.serviceTypes = append(s.serviceTypes, kind)
	return nil
}

// FetchService sets the value behind the given pointer to the registered
// service of the pointed-to type.
func (s *ServiceRegistry) FetchService(service interface{}) error {
	if reflect.TypeOf(service).Kind() != reflect.Ptr {
		return errors.Wrapf(errNotPointer, "%T", service)
	}
	element := reflect.ValueOf(service).Elem()
	if running, ok := s.services[element.Type()]; ok {
		element.Set(reflect.ValueOf(running))
		return nil
	}
	return errors.Wrapf(ErrUnknownService, "%T", service)
}
