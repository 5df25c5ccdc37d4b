package main

import (
	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/publishers"
	promo "github.com/lukegackle/Netdata-Docker-Integration/pkg/publishers/prometheus"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/publishers/webhook"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/stores"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/stores/postgres"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/stores/sqlite"
	"github.com/pkg/errors"
)

// InitPublishers builds the publisher fan-out from the config. A publisher
// is enabled by the presence of its config block.
func InitPublishers(cfg *config.Config) ([]publishers.Publisher, error) {
	var pubs []publishers.Publisher

	if cfg.Publishers.Prometheus.Listen != "" {
		p := &promo.Prometheus{}
		if err := p.Init(cfg); err != nil {
			return nil, errors.Wrap(err, "initializing prometheus publisher")
		}
		pubs = append(pubs, p)
	}

	if cfg.Publishers.Webhook.Url != "" {
		w := &webhook.Webhook{}
		if err := w.Init(cfg); err != nil {
			return nil, errors.Wrap(err, "initializing webhook publisher")
		}
		pubs = append(pubs, w)
	}

	return pubs, nil
}

// InitStore builds the configured history store, defaulting to a no-op.
func InitStore(cfg *config.Config) (stores.Store, error) {
	var store stores.Store

	switch cfg.History.Store {

	case "sqlite":
		store = &sqlite.SQLite{}

	case "postgres":
		store = &postgres.Postgres{}

	case "":
		return &stores.Default{}, nil

	default:
		return nil, errors.Errorf("unknown history store %q", cfg.History.Store)
	}

	if err := store.Init(cfg); err != nil {
		return nil, errors.Wrapf(err, "initializing %s history store", cfg.History.Store)
	}
	return store, nil
}
