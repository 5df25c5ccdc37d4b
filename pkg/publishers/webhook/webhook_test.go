package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mutex    sync.Mutex
	messages []string
}

func (r *recorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		var msg WebhookMessage
		_ = json.Unmarshal(body, &msg)

		r.mutex.Lock()
		r.messages = append(r.messages, msg.Text)
		r.mutex.Unlock()
	}
}

func (r *recorder) all() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string{}, r.messages...)
}

func newWebhook(t *testing.T, url string) *Webhook {
	cfg := &config.Config{}
	cfg.Publishers.Webhook.Url = url
	cfg.Cluster = "homelab"

	w := &Webhook{}
	assert.Nil(t, w.Init(cfg))
	return w
}

func record(name, status, health string) container.Record {
	r := container.NewRecord(name, "")
	r.Status = status
	r.Health = health
	return r
}

func Test_InitRequiresUrl(t *testing.T) {
	w := &Webhook{}
	err := w.Init(&config.Config{})
	assert.NotNil(t, err)
	assert.Equal(t, "Webhook URL not set", err.Error())
}

func Test_PublishSteadyStateIsQuiet(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	w := newWebhook(t, srv.URL)
	batch := []container.Record{record("web", "running", "healthy")}

	// first cycle primes the baseline, repeats change nothing
	assert.Nil(t, w.Publish(batch))
	assert.Nil(t, w.Publish(batch))
	assert.Nil(t, w.Publish(batch))

	assert.Empty(t, rec.all())
}

func Test_PublishStatusTransitionFiresOnce(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	w := newWebhook(t, srv.URL)
	assert.Nil(t, w.Publish([]container.Record{record("web", "running", "healthy")}))
	assert.Nil(t, w.Publish([]container.Record{record("web", "exited", "healthy")}))
	assert.Nil(t, w.Publish([]container.Record{record("web", "exited", "healthy")}))

	messages := rec.all()
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "status-changed")
	assert.Contains(t, messages[0], "running -> exited")
	assert.Contains(t, messages[0], "homelab/web")
}

func Test_PublishDiscoveryAndRemoval(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	w := newWebhook(t, srv.URL)
	assert.Nil(t, w.Publish([]container.Record{record("web", "running", "healthy")}))
	assert.Nil(t, w.Publish([]container.Record{
		record("web", "running", "healthy"),
		record("db", "running", "none"),
	}))
	assert.Nil(t, w.Publish([]container.Record{record("db", "running", "none")}))

	messages := rec.all()
	assert.Len(t, messages, 2)
	assert.Contains(t, messages[0], "discovered")
	assert.Contains(t, messages[0], "db")
	assert.Contains(t, messages[1], "removed")
	assert.Contains(t, messages[1], "web")
}

func Test_PublishHealthTransition(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler())
	defer srv.Close()

	w := newWebhook(t, srv.URL)
	assert.Nil(t, w.Publish([]container.Record{record("web", "running", "healthy")}))
	assert.Nil(t, w.Publish([]container.Record{record("web", "running", "unhealthy")}))

	messages := rec.all()
	assert.Len(t, messages, 1)
	assert.Contains(t, messages[0], "health-changed")
	assert.Contains(t, messages[0], "healthy -> unhealthy")
}
