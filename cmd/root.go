package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/poller"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/state"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "netdata-docker",
		Short: "Poll a netdata server and publish Docker container metrics",
		Long: `
netdata-docker polls a netdata server's allmetrics endpoint,
extracts per-container Docker metrics and republishes them to
the configured publishers and history store.
		`,
		RunE: RootCmd,
		Args: cobra.NoArgs,
	}
}

func RootCmd(cmd *cobra.Command, args []string) error {
	logrus.Println("Loading config...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Netdata.Url == "" {
		return fmt.Errorf("netdata url not set")
	}

	logrus.Println("Initializing shared mutable state...")
	s := state.New(cfg.Cluster)

	errCh := make(chan error)
	s.SetErrChannel(errCh)
	go utils.HandleErrorStream(errCh)

	logrus.Println("Initializing publishers and history store...")
	pubs, err := InitPublishers(cfg)
	if err != nil {
		return err
	}
	store, err := InitStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client := netdata.NewClient(cfg.Netdata.Url, cfg.Netdata.Format, cfg.Timeout())

	p := poller.New().
		Fetcher(client).
		State(s).
		Publishers(pubs...).
		Store(store).
		Interval(cfg.ScanInterval()).
		Retention(cfg.Retention()).
		Build()

	logrus.Printf("Polling %s every %s", cfg.Netdata.Url, cfg.ScanInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGTERM)
	signal.Notify(sigterm, syscall.SIGINT)
	<-sigterm

	return nil
}
