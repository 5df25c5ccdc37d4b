package poller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/state"
	"github.com/stretchr/testify/assert"
)

type fakeFetcher struct {
	mutex    sync.Mutex
	payloads []netdata.Payload
	errs     []error
	calls    int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (netdata.Payload, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.payloads) {
		i = len(f.payloads) - 1
	}
	return f.payloads[i], f.errs[i]
}

func (f *fakeFetcher) callCount() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

type capturingPublisher struct {
	batches [][]container.Record
}

func (c *capturingPublisher) Init(cfg *config.Config) error {
	return nil
}

func (c *capturingPublisher) Publish(records []container.Record) error {
	c.batches = append(c.batches, records)
	return nil
}

func runningContainer(name string) netdata.Payload {
	key := fmt.Sprintf("docker_local.container_%s_state", name)
	return netdata.Payload{
		key: {Dimensions: map[string]netdata.Dimension{
			"running": {Name: "running", Value: 1.0},
		}},
	}
}

func newTestState() *state.SharedMutable {
	s := state.New("test")
	errCh := make(chan error, 16)
	s.SetErrChannel(errCh)
	return s
}

func Test_CyclePublishesRecords(t *testing.T) {
	f := &fakeFetcher{
		payloads: []netdata.Payload{runningContainer("web")},
		errs:     []error{nil},
	}
	pub := &capturingPublisher{}
	s := newTestState()

	p := New().Fetcher(f).State(s).Publishers(pub).Interval(time.Second).Build()
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)

	assert.Len(t, pub.batches, 1)
	assert.Len(t, pub.batches[0], 1)
	assert.Equal(t, "web", pub.batches[0][0].DisplayName)

	rec, ok := s.Get("web")
	assert.True(t, ok)
	assert.Equal(t, "running", rec.Status)
}

func Test_CycleTransportFailureRetainsRecords(t *testing.T) {
	f := &fakeFetcher{
		payloads: []netdata.Payload{runningContainer("web"), nil},
		errs:     []error{nil, fmt.Errorf("connection refused")},
	}
	pub := &capturingPublisher{}
	s := newTestState()

	p := New().Fetcher(f).State(s).Publishers(pub).Interval(time.Second).Build()
	p.Cycle(context.Background())
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)

	// the failed cycle publishes nothing and keeps the previous records
	assert.Len(t, pub.batches, 1)
	assert.Len(t, p.Last(), 1)

	rec, ok := s.Get("web")
	assert.True(t, ok)
	assert.Equal(t, "running", rec.Status)
}

func Test_CycleDecodeFailureEmptiesState(t *testing.T) {
	f := &fakeFetcher{
		payloads: []netdata.Payload{runningContainer("web"), nil},
		errs:     []error{nil, &netdata.DecodeError{Err: fmt.Errorf("bad json")}},
	}
	pub := &capturingPublisher{}
	s := newTestState()

	p := New().Fetcher(f).State(s).Publishers(pub).Interval(time.Second).Build()
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)

	// an unparsable payload counts as zero containers
	assert.Len(t, pub.batches, 2)
	assert.Empty(t, pub.batches[1])
	assert.Equal(t, 0, s.Len())
}

func Test_CycleReconcilesVanishedContainers(t *testing.T) {
	f := &fakeFetcher{
		payloads: []netdata.Payload{runningContainer("web"), runningContainer("db")},
		errs:     []error{nil, nil},
	}
	s := newTestState()

	p := New().Fetcher(f).State(s).Interval(time.Second).Build()
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)
	p.Cycle(context.Background())
	time.Sleep(1 * time.Millisecond)

	_, ok := s.Get("web")
	assert.False(t, ok)
	_, ok = s.Get("db")
	assert.True(t, ok)
}

func Test_RunFollowsTicker(t *testing.T) {
	f := &fakeFetcher{
		payloads: []netdata.Payload{runningContainer("web")},
		errs:     []error{nil},
	}
	s := newTestState()

	tick := make(chan time.Time)
	stopped := false
	factory := func(d time.Duration) (<-chan time.Time, func()) {
		assert.Equal(t, 30*time.Second, d)
		return tick, func() { stopped = true }
	}

	p := New().Fetcher(f).State(s).Interval(30 * time.Second).TickerFactory(factory).Build()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// first cycle fires immediately, then once per tick
	tick <- time.Now()
	tick <- time.Now()
	cancel()
	<-done

	assert.True(t, stopped)
	assert.Equal(t, 3, f.callCount())
}
