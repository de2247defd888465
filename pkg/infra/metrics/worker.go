package metrics

import (
	"context"
	"sync/atomic"

	"github.com/RakshakAI/ScamShield/pkg/domain/telemetry"
	"github.com/RakshakAI/ScamShield/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
)

// Worker takes classification events off the request path. Prometheus
// registration and exporter dispatch both run on the worker pool so a slow
// kafka broker can never stall a verdict.
type Worker interface {
	Shutdown()
	StartWorkers(n int)
	Record(evt *telemetry.ClassificationEvent)
}

type worker struct {
	logger    *logrus.Logger
	exporters []telemetry.Exporter
	taskChan  chan func()
	ctx       context.Context
	cancel    context.CancelFunc
	closed    atomic.Bool
}

func NewWorker(logger *logrus.Logger, exporters []telemetry.Exporter) Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &worker{
		logger:    logger,
		exporters: exporters,
		taskChan:  make(chan func(), 1000),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (m *worker) StartWorkers(n int) {
	for i := 0; i < n; i++ {
		go func() {
			for {
				select {
				case task, ok := <-m.taskChan:
					if !ok {
						return
					}
					task()
				case <-m.ctx.Done():
					return
				}
			}
		}()
	}
}

func (m *worker) Shutdown() {
	if m.closed.Swap(true) {
		return
	}
	m.logger.Info("shutting down telemetry workers")
	m.cancel()
	close(m.taskChan)
	for _, exporter := range m.exporters {
		exporter.Close()
	}
	m.logger.Info("telemetry workers stopped")
}

func (m *worker) Record(evt *telemetry.ClassificationEvent) {
	m.enqueueTask(func() {
		m.recordPrometheus(evt)
	}, evt.RequestID)

	if len(m.exporters) == 0 {
		return
	}
	m.enqueueTask(func() {
		m.dispatchToExporters(evt)
	}, evt.RequestID)
}

func (m *worker) recordPrometheus(evt *telemetry.ClassificationEvent) {
	prometheus.Verdicts.WithLabelValues(evt.Severity).Inc()
	if prometheus.Config.EnableLatency {
		prometheus.ClassifyLatency.WithLabelValues(evt.Method).Observe(evt.ProcessingTimeMs)
	}
}

func (m *worker) dispatchToExporters(evt *telemetry.ClassificationEvent) {
	var failed []string
	for _, exporter := range m.exporters {
		if err := exporter.Handle(context.Background(), evt); err != nil {
			m.logger.WithFields(logrus.Fields{
				"request_id": evt.RequestID,
				"exporter":   exporter.Name(),
			}).WithError(err).Error("exporter failed")
			failed = append(failed, exporter.Name())
		}
	}
	if len(failed) > 0 {
		m.logger.WithField("failed_exporters", failed).
			Warnf("%d exporters failed to handle classification event", len(failed))
	}
}

func (m *worker) enqueueTask(task func(), requestID string) {
	if m.closed.Load() {
		return
	}
	select {
	case m.taskChan <- task:
	default:
		m.logger.WithField("request_id", requestID).
			Warn("taskChan is full, dropping telemetry task")
	}
}
