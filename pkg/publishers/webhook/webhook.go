package webhook

import (
	"fmt"
	"net/http"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/event"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Webhook posts a message whenever a container appears, disappears or
// changes status or health. Steady-state cycles produce no traffic.
type Webhook struct {
	url     string
	cluster string
	client  *http.Client
	prev    map[string]container.Record
	primed  bool
}

type WebhookMessage struct {
	Text string `json:"text"`
}

// Init creates the webhook configuration
func (w *Webhook) Init(c *config.Config) error {
	w.url = c.Publishers.Webhook.Url
	w.cluster = c.Cluster
	w.client = &http.Client{}
	w.prev = map[string]container.Record{}

	return checkMissingVars(w)
}

func (w *Webhook) Publish(records []container.Record) error {
	current := make(map[string]container.Record, len(records))
	for _, rec := range records {
		current[rec.Key()] = rec
	}

	// The first cycle establishes the baseline without announcing every
	// container already running when the agent started.
	if !w.primed {
		w.prev = current
		w.primed = true
		return nil
	}

	for _, rec := range records {
		old, seen := w.prev[rec.Key()]
		switch {
		case !seen:
			w.send(event.Event{
				Cluster:    w.cluster,
				Container:  rec.DisplayName,
				Identifier: rec.Identifier,
				Reason:     event.ReasonDiscovered,
				To:         rec.Status,
			})
		default:
			if old.Status != rec.Status {
				w.send(event.Event{
					Cluster:    w.cluster,
					Container:  rec.DisplayName,
					Identifier: rec.Identifier,
					Reason:     event.ReasonStatusChanged,
					From:       old.Status,
					To:         rec.Status,
				})
			}
			if old.Health != rec.Health {
				w.send(event.Event{
					Cluster:    w.cluster,
					Container:  rec.DisplayName,
					Identifier: rec.Identifier,
					Reason:     event.ReasonHealthChanged,
					From:       old.Health,
					To:         rec.Health,
				})
			}
		}
	}

	for key, old := range w.prev {
		if _, ok := current[key]; !ok {
			w.send(event.Event{
				Cluster:    w.cluster,
				Container:  old.DisplayName,
				Identifier: old.Identifier,
				Reason:     event.ReasonRemoved,
			})
		}
	}

	w.prev = current
	return nil
}

func (w *Webhook) send(e event.Event) {
	msg := &WebhookMessage{Text: e.Message()}
	if err := utils.Send(msg, http.MethodPost, w.url, w.client); err != nil {
		logrus.Errorf("%s\n", err)
		return
	}

	logrus.Printf("Message sent: %s", msg.Text)
}

func checkMissingVars(w *Webhook) error {
	if w.url == "" {
		return fmt.Errorf("Webhook URL not set")
	}

	return nil
}
