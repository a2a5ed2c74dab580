// Package metrics records pipeline activity as Prometheus series.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "code_review"

// Recorder is the metrics sink used by the pipeline, the dispatcher and the webhook handler.
type Recorder interface {
	ObserveWebhook(eventType, outcome string)
	ObserveJob(status, executor string, d time.Duration)
	ObserveChannel(channelType string, success bool, d time.Duration)
	SetQueueDepth(n int)
	ObserveSweep(removed int, bytes int64)
}

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	webhooksTotal   *prometheus.CounterVec
	jobsTotal       *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	channelsTotal   *prometheus.CounterVec
	channelDuration *prometheus.HistogramVec
	queueDepth      prometheus.Gauge
	sweptDirs       prometheus.Counter
	sweptBytes      prometheus.Counter
}

// NewPrometheusRecorder registers the collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	f := promauto.With(reg)
	return &PrometheusRecorder{
		webhooksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_total",
			Help:      "Inbound webhook deliveries by event type and outcome",
		}, []string{"event_type", "outcome"}),
		jobsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Review jobs finished by terminal status and executor",
		}, []string{"status", "executor"}),
		jobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of review jobs from start to terminal status",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"status", "executor"}),
		channelsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel type and result",
		}, []string{"channel", "success"}),
		channelDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_duration_seconds",
			Help:      "Latency of one notification delivery",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Jobs waiting for a worker",
		}),
		sweptDirs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workspace_swept_total",
			Help:      "Stale working copies removed",
		}),
		sweptBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workspace_swept_bytes_total",
			Help:      "Disk space reclaimed by working copy sweeps",
		}),
	}
}

func (p *PrometheusRecorder) ObserveWebhook(eventType, outcome string) {
	if eventType == "" {
		eventType = "unknown"
	}
	p.webhooksTotal.WithLabelValues(eventType, outcome).Inc()
}

func (p *PrometheusRecorder) ObserveJob(status, executor string, d time.Duration) {
	p.jobsTotal.WithLabelValues(status, executor).Inc()
	p.jobDuration.WithLabelValues(status, executor).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveChannel(channelType string, success bool, d time.Duration) {
	p.channelsTotal.WithLabelValues(channelType, strconv.FormatBool(success)).Inc()
	p.channelDuration.WithLabelValues(channelType).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetQueueDepth(n int) {
	p.queueDepth.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveSweep(removed int, bytes int64) {
	p.sweptDirs.Add(float64(removed))
	p.sweptBytes.Add(float64(bytes))
}

type nop struct{}

// NewNop returns a Recorder that drops everything.
func NewNop() Recorder { return nop{} }

func (nop) ObserveWebhook(string, string)              {}
func (nop) ObserveJob(string, string, time.Duration)   {}
func (nop) ObserveChannel(string, bool, time.Duration) {}
func (nop) SetQueueDepth(int)                          {}
func (nop) ObserveSweep(int, int64)                    {}
