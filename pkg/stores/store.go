package stores

import (
	"context"
	"time"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/container"
)

// Store persists per-cycle container records so history outlives the
// process. Unknown numeric fields are stored as NULL, never zero.
type Store interface {
	Init(c *config.Config) error
	Save(ctx context.Context, ts time.Time, records []container.Record) error
	Prune(ctx context.Context, olderThan time.Time) error
	Close() error
}

type Default struct{}

func (d *Default) Init(c *config.Config) error {
	return nil
}

func (d *Default) Save(ctx context.Context, ts time.Time, records []container.Record) error {
	return nil
}

func (d *Default) Prune(ctx context.Context, olderThan time.Time) error {
	return nil
}

func (d *Default) Close() error {
	return nil
}
