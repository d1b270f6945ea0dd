// Package tracing sets up opencensus span sampling and exports sampled spans
// to a jaeger collector.
package tracing

import (
	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/lean/runtime/version"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "tracing")

// ErrEmptyName is returned when tracing is enabled without a process name.
var ErrEmptyName = errors.New("tracing process name cannot be empty")

// Setup applies the global sampler. With tracing disabled nothing is sampled
// and no exporter is registered.
func Setup(name, endpoint string, sampleFraction float64, enable bool) error {
	if !enable {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.NeverSample()})
		return nil
	}
	if name == "" {
		return ErrEmptyName
	}
	if sampleFraction < 0 || sampleFraction > 1 {
		return errors.Errorf("trace sample fraction %f is outside [0, 1]", sampleFraction)
	}

	log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"fraction": sampleFraction,
	}).Info("Starting jaeger span exporter")
	exporter, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: endpoint,
		Process: jaeger.Process{
			ServiceName: name,
			Tags: []jaeger.Tag{
				jaeger.StringTag("version", version.Version()),
			},
		},
		OnError: func(err error) {
			log.WithError(err).Debug("Could not export span")
		},
	})
	if err != nil {
		return errors.Wrap(err, "could not create jaeger exporter")
	}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(sampleFraction)})
	trace.RegisterExporter(exporter)
	return nil
}
