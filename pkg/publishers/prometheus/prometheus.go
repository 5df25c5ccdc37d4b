package prometheus

import (
	"fmt"
	"net/http"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Prometheus republishes container records as gauges on a /metrics
// endpoint. Unknown values clear their series instead of exporting a
// fabricated zero, so absence stays observable downstream.
type Prometheus struct {
	listen string

	cpu    *prometheus.GaugeVec
	memMiB *prometheus.GaugeVec
	memPct *prometheus.GaugeVec
	netIn  *prometheus.GaugeVec
	netOut *prometheus.GaugeVec
	pids   *prometheus.GaugeVec
	status *prometheus.GaugeVec
	health *prometheus.GaugeVec

	prev map[string]container.Record
}

// Init binds the listen address from the config, registers the gauges and
// starts the exposition listener.
func (p *Prometheus) Init(c *config.Config) error {
	p.listen = c.Publishers.Prometheus.Listen

	if err := checkMissingVars(p); err != nil {
		return err
	}

	p.register(prometheus.DefaultRegisterer)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(p.listen, mux); err != nil {
			logrus.Errorf("prometheus listener on %s failed: %s", p.listen, err)
		}
	}()

	return nil
}

func (p *Prometheus) register(reg prometheus.Registerer) {
	labels := []string{"container", "id"}
	factory := promauto.With(reg)

	p.cpu = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_cpu_percent",
		Help: "Combined user+system CPU usage of the container.",
	}, labels)
	p.memMiB = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_memory_resident_mib",
		Help: "Resident memory of the container in MiB.",
	}, labels)
	p.memPct = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_memory_percent",
		Help: "Memory utilization of the container against its limit.",
	}, labels)
	p.netIn = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_network_in_kbps",
		Help: "Inbound network throughput in kilobits per second.",
	}, labels)
	p.netOut = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_network_out_kbps",
		Help: "Outbound network throughput in kilobits per second.",
	}, labels)
	p.pids = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_pids",
		Help: "Number of processes inside the container.",
	}, labels)
	p.status = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_status",
		Help: "Container status as a labeled flag, 1 on the current state.",
	}, []string{"container", "id", "status"})
	p.health = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "netdata_docker_container_health",
		Help: "Container health as a labeled flag, 1 on the current state.",
	}, []string{"container", "id", "health"})

	p.prev = map[string]container.Record{}
}

// Publish reconciles the gauge series against the new record set.
func (p *Prometheus) Publish(records []container.Record) error {
	current := make(map[string]container.Record, len(records))
	for _, rec := range records {
		current[rec.Key()] = rec
	}

	// Drop every series belonging to containers that vanished.
	for key, rec := range p.prev {
		if _, ok := current[key]; ok {
			continue
		}
		match := prometheus.Labels{"container": rec.DisplayName, "id": rec.Identifier}
		for _, vec := range p.vecs() {
			vec.DeletePartialMatch(match)
		}
	}

	for _, rec := range records {
		setOrClear(p.cpu, rec, rec.CPUPercent)
		setOrClear(p.memMiB, rec, rec.MemoryResidentMiB)
		setOrClear(p.memPct, rec, rec.MemoryPercent)
		setOrClear(p.netIn, rec, rec.NetworkInKbps)
		setOrClear(p.netOut, rec, rec.NetworkOutKbps)
		setOrClear(p.pids, rec, countMetric(rec.PIDCount))

		match := prometheus.Labels{"container": rec.DisplayName, "id": rec.Identifier}
		p.status.DeletePartialMatch(match)
		p.status.WithLabelValues(rec.DisplayName, rec.Identifier, rec.Status).Set(1)
		p.health.DeletePartialMatch(match)
		p.health.WithLabelValues(rec.DisplayName, rec.Identifier, rec.Health).Set(1)
	}

	p.prev = current
	return nil
}

func (p *Prometheus) vecs() []*prometheus.GaugeVec {
	return []*prometheus.GaugeVec{
		p.cpu, p.memMiB, p.memPct, p.netIn, p.netOut, p.pids, p.status, p.health,
	}
}

func setOrClear(vec *prometheus.GaugeVec, rec container.Record, m container.Metric) {
	if m.Known {
		vec.WithLabelValues(rec.DisplayName, rec.Identifier).Set(m.Value)
		return
	}
	vec.DeleteLabelValues(rec.DisplayName, rec.Identifier)
}

func countMetric(c container.Count) container.Metric {
	return container.Metric{Value: float64(c.Value), Known: c.Known}
}

func checkMissingVars(p *Prometheus) error {
	if p.listen == "" {
		return fmt.Errorf("prometheus listen address not set")
	}
	return nil
}
