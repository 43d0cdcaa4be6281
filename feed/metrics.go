package feed

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records feed activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	updates      *prometheus.CounterVec
	decodeErrors prometheus.Counter
	reconnects   prometheus.Counter
	refreshes    *prometheus.CounterVec
	stations     prometheus.Gauge
	available    prometheus.Gauge
	connected    prometheus.Gauge
}

// NewMetrics registers the feed collectors on reg. If reg is nil, the default
// registerer is used. Collectors that are already registered are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	var err error
	m := &Metrics{}
	if m.updates, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plusfind_feed_updates_total",
		Help: "Real-time updates received, by type",
	}, []string{"type"})); err != nil {
		return nil, err
	}
	if m.decodeErrors, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plusfind_feed_decode_errors_total",
		Help: "Feed messages that could not be decoded",
	})); err != nil {
		return nil, err
	}
	if m.reconnects, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "plusfind_feed_reconnects_total",
		Help: "Feed connection attempts that ended in backoff",
	})); err != nil {
		return nil, err
	}
	if m.refreshes, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plusfind_station_refreshes_total",
		Help: "Scheduled station collection refreshes, by result",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if m.stations, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plusfind_snapshot_stations",
		Help: "Stations in the latest snapshot",
	})); err != nil {
		return nil, err
	}
	if m.available, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plusfind_snapshot_available_stations",
		Help: "Stations with at least one available connector in the latest snapshot",
	})); err != nil {
		return nil, err
	}
	if m.connected, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "plusfind_feed_connected",
		Help: "1 while the feed connection is established",
	})); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeUpdate(t UpdateType) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) observeDecodeError() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) observeReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

func (m *Metrics) observeRefresh(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
}

func (m *Metrics) observeSnapshot(s Snapshot) {
	if m == nil {
		return
	}
	m.stations.Set(float64(len(s.Stations)))
	m.available.Set(float64(s.AvailableStations()))
}

func (m *Metrics) setConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connected.Set(1)
	} else {
		m.connected.Set(0)
	}
}

// ServeMetrics exposes gatherer on addr under /metrics until ctx is canceled.
func ServeMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("metrics server shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving metrics on %s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
