package metrics

import (
	"gdtv/internal/app/iptv"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gdtv"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	ScheduleFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_fetches_total",
		Help:      "Number of program list requests by result.",
	}, []string{"result"})

	Runs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Number of generation runs by result.",
	}, []string{"result"})

	Channels = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channels",
		Help:      "Number of channels written to the playlists by the last successful run.",
	})

	LastRunSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_run_success_timestamp_seconds",
		Help:      "Unix time of the last successful run.",
	})
)

// ObserveSuccess 记录一次成功的生成
func ObserveSuccess(channels int, stats iptv.FetchStats, finishedAt time.Time) {
	Runs.WithLabelValues(ResultSuccess).Inc()
	Channels.Set(float64(channels))
	ScheduleFetches.WithLabelValues(ResultSuccess).Add(float64(stats.Succeeded))
	ScheduleFetches.WithLabelValues(ResultFailure).Add(float64(stats.Failed))
	LastRunSuccess.Set(float64(finishedAt.Unix()))
}

// ObserveFailure 记录一次失败的生成
func ObserveFailure() {
	Runs.WithLabelValues(ResultFailure).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
