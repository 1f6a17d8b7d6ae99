// Package prometheus serves this node's registered prometheus/client_golang
// metrics over HTTP. Grounded on the teacher's shared/prometheus.Service,
// trimmed of its pprof/goroutinez debug routes since this repository has no
// shared/debug package to back them.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/prylabs-zero/beacon-core/runtime"
)

var log = logrus.WithField("prefix", "prometheus")

// Service serves every metric registered against the default prometheus
// registry at /metrics, plus a /healthz that reports the rest of the
// registry's Status() results.
type Service struct {
	server     *http.Server
	registry   *runtime.ServiceRegistry
	failStatus error
}

// New sets up a Service listening at addr. An empty host matches any
// interface, so ":8080" is a perfectly acceptable addr.
func New(addr string, registry *runtime.ServiceRegistry) *Service {
	s := &Service{registry: registry}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthz)
	s.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: time.Second}
	return s
}

func (s *Service) healthz(w http.ResponseWriter, _ *http.Request) {
	hasError := false
	for kind, err := range s.registry.Statuses() {
		if err == nil {
			continue
		}
		hasError = true
		_, _ = w.Write([]byte(kind.String() + ": ERROR " + err.Error() + "\n"))
	}
	if hasError {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Start satisfies runtime.Service.
func (s *Service) Start() {
	log.WithField("addr", s.server.Addr).Info("starting metrics service")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("metrics service failed")
			s.failStatus = err
		}
	}()
}

// Stop gracefully shuts down the metrics HTTP server.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status reports the most recent listen failure, if any.
func (s *Service) Status() error {
	return s.failStatus
}
