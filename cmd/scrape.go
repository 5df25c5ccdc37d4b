package main

import (
	"context"
	"fmt"

	"github.com/lukegackle/Netdata-Docker-Integration/pkg/extractor"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/netdata"
	"github.com/lukegackle/Netdata-Docker-Integration/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch one payload and print the discovered containers",
		Long: `
Fetch a single allmetrics payload from the configured netdata server and print one line per discovered container.
	`,
		RunE: ScrapeCmd,
	}
}

func ScrapeCmd(cmd *cobra.Command, args []string) error {
	// warn for too many arguments
	if len(args) > 0 {
		logrus.Warn("Unexpected argument(s) to command \"scrape\". Expected 0 arguments.")
		return fmt.Errorf("%s", "Too many arguments")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Netdata.Url == "" {
		return fmt.Errorf("netdata url not set")
	}

	client := netdata.NewClient(cfg.Netdata.Url, cfg.Netdata.Format, cfg.Timeout())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	payload, err := client.Fetch(ctx)
	if err != nil {
		return err
	}

	records := extractor.Extract(payload)
	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(),
			"%s id=%s status=%s health=%s cpu_pct=%s mem_mib=%s mem_pct=%s net_in_kbps=%s net_out_kbps=%s pids=%s\n",
			rec.DisplayName, rec.Identifier, rec.Status, rec.Health,
			utils.FormatMetric(rec.CPUPercent),
			utils.FormatMetric(rec.MemoryResidentMiB),
			utils.FormatMetric(rec.MemoryPercent),
			utils.FormatMetric(rec.NetworkInKbps),
			utils.FormatMetric(rec.NetworkOutKbps),
			utils.FormatCount(rec.PIDCount))
	}

	return nil
}
