// Package prometheus defines a service which is used for metrics collection
// and health of a node.
package prometheus

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prysmaticlabs/lean/runtime"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "prometheus")

// Service provides Prometheus metrics via the /metrics route. This route will
// show all the metrics registered with the Prometheus DefaultRegisterer.
type Service struct {
	server      *http.Server
	listener    net.Listener
	svcRegistry *runtime.ServiceRegistry
	failStatus  error
}

// Handler represents a path and handler func to serve on the same port as /metrics, /healthz, /goroutinez, etc.
type Handler struct {
	Path    string
	Handler func(http.ResponseWriter, *http.Request)
}

// NewService sets up a new instance for a given address host:port.
// An empty host will match with any IP so an address like ":2121" is perfectly acceptable.
func NewService(addr string, svcRegistry *runtime.ServiceRegistry, additionalHandlers ...Handler) *Service {
	s := &Service{svcRegistry: svcRegistry}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		MaxRequestsInFlight: 5,
	}))
	router.HandleFunc("/healthz", s.healthzHandler)
	router.HandleFunc("/goroutinez", s.goroutinezHandler)

	// Register additional handlers.
	for _, h := range additionalHandlers {
		router.HandleFunc(h.Path, h.Handler)
	}

	s.server = &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: time.Second}

	return s
}

func (s *Service) healthzHandler(w http.ResponseWriter, r *http.Request) {
	var report healthReport
	for name, err := range s.svcRegistry.Statuses() {
		st := serviceStatus{Name: name, Status: err == nil}
		if err != nil {
			st.Err = err.Error()
		}
		report.Services = append(report.Services, st)
	}
	sort.Slice(report.Services, func(i, j int) bool {
		return report.Services[i].Name < report.Services[j].Name
	})
	if err := report.writeTo(w, r); err != nil {
		log.WithError(err).Error("Could not write health report")
	}
}

func (_ *Service) goroutinezHandler(w http.ResponseWriter, _ *http.Request) {
	stack := debug.Stack()
	if _, err := w.Write(stack); err != nil {
		log.WithError(err).Error("Failed to write goroutines stack")
	}
	if err := pprof.Lookup("goroutine").WriteTo(w, 2); err != nil {
		log.WithError(err).Error("Failed to write pprof goroutines")
	}
}

// Start the prometheus service.
func (s *Service) Start() {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		log.WithError(err).WithField("address", s.server.Addr).Warn("Could not listen; cannot start prometheus service")
		s.failStatus = err
		return
	}
	s.listener = lis
	go func() {
		log.WithField("address", lis.Addr().String()).Debug("Starting prometheus service")
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Could not listen to host:port")
			s.failStatus = err
		}
	}()
}

// Addr returns the address the service listens on, once started.
func (s *Service) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Stop the service gracefully.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status checks for any service failure conditions.
func (s *Service) Status() error {
	if s.svcRegistry == nil {
		return nil
	}
	if s.failStatus != nil {
		return s.failStatus
	}
	return nil
}
