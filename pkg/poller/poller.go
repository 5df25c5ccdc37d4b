package poller

import (
	"context"
	"errors"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/extractor"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/publishers"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/state"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/stores"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netdata_docker_cycles_total",
		Help: "Poll cycles attempted.",
	})
	cycleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "netdata_docker_cycle_errors_total",
		Help: "Poll cycles that failed to reach netdata.",
	})
	up = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netdata_docker_up",
		Help: "1 when the last fetch from netdata succeeded.",
	})
	cycleDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netdata_docker_cycle_duration_seconds",
		Help: "Wall time of the last poll cycle.",
	})
)

const pruneEvery = 6 * time.Hour

// TickerFactory abstracts the cycle clock so interval behavior is testable
// without wall-clock waits.
type TickerFactory func(d time.Duration) (<-chan time.Time, func())

func defaultTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

type poller struct {
	fetcher    netdata.Fetcher
	state      *state.SharedMutable
	publishers []publishers.Publisher
	store      stores.Store
	interval   time.Duration
	retention  time.Duration
	newTicker  TickerFactory

	last      []container.Record
	lastPrune time.Time
}

type builder struct {
	fetcher    netdata.Fetcher
	state      *state.SharedMutable
	publishers []publishers.Publisher
	store      stores.Store
	interval   time.Duration
	retention  time.Duration
	newTicker  TickerFactory
}

func New() *builder {
	return &builder{}
}

func (b *builder) Fetcher(f netdata.Fetcher) *builder {
	b.fetcher = f
	return b
}

func (b *builder) State(s *state.SharedMutable) *builder {
	b.state = s
	return b
}

func (b *builder) Publishers(pubs ...publishers.Publisher) *builder {
	b.publishers = pubs
	return b
}

func (b *builder) Store(s stores.Store) *builder {
	b.store = s
	return b
}

func (b *builder) Interval(d time.Duration) *builder {
	b.interval = d
	return b
}

func (b *builder) Retention(d time.Duration) *builder {
	b.retention = d
	return b
}

func (b *builder) TickerFactory(f TickerFactory) *builder {
	b.newTicker = f
	return b
}

func (b *builder) Build() *poller {
	p := &poller{
		fetcher:    b.fetcher,
		state:      b.state,
		publishers: b.publishers,
		store:      b.store,
		interval:   b.interval,
		retention:  b.retention,
		newTicker:  b.newTicker,
	}
	if p.store == nil {
		p.store = &stores.Default{}
	}
	if p.newTicker == nil {
		p.newTicker = defaultTicker
	}
	return p
}

// Run polls on the configured interval until the context is canceled. The
// first cycle fires immediately. Cycles never overlap: the next tick is
// consumed only after the previous cycle returned.
func (p *poller) Run(ctx context.Context) {
	tick, stop := p.newTicker(p.interval)
	defer stop()

	p.Cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			p.Cycle(ctx)
		}
	}
}

// Cycle performs one fetch-extract-publish pass. Transport failures keep
// the previous records visible; an unparsable payload counts as an empty
// scrape.
func (p *poller) Cycle(ctx context.Context) {
	start := time.Now()
	cyclesTotal.Inc()

	payload, err := p.fetcher.Fetch(ctx)

	var records []container.Record
	var decodeErr *netdata.DecodeError
	switch {
	case err == nil:
		records = extractor.Extract(payload)
	case errors.As(err, &decodeErr):
		logrus.Warnf("Discarding unparsable payload: %s", err)
	default:
		cycleErrorsTotal.Inc()
		up.Set(0)
		logrus.Warnf("Netdata unreachable, keeping %d record(s) from previous cycle: %s", len(p.last), err)
		return
	}
	up.Set(1)

	p.reconcile(records)
	p.last = records

	for _, pub := range p.publishers {
		if err := pub.Publish(records); err != nil {
			p.state.Error(err)
		}
	}

	if err := p.store.Save(ctx, start, records); err != nil {
		p.state.Error(err)
	}
	if p.retention > 0 && time.Since(p.lastPrune) >= pruneEvery {
		if err := p.store.Prune(ctx, start.Add(-p.retention)); err != nil {
			p.state.Error(err)
		}
		p.lastPrune = start
	}

	cycleDuration.Set(time.Since(start).Seconds())
}

// Last returns the records of the most recent successful cycle.
func (p *poller) Last() []container.Record {
	return p.last
}

func (p *poller) reconcile(records []container.Record) {
	current := make(map[string]struct{}, len(records))
	for _, rec := range records {
		current[rec.Key()] = struct{}{}
		p.state.Upsert(rec)
	}
	for _, key := range p.state.Keys() {
		if _, ok := current[key]; !ok {
			p.state.Delete(key)
		}
	}
}
