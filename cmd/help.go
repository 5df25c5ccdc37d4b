package main

import (
	"github.com/spf13/cobra"
)

func NewHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "help",
		Hidden: true,
		Short:  "netdata-docker publishes Docker container metrics from a netdata server",
		Long: `
Find more information at https://github.com/lukegackle/Netdata-Docker-Integration

Commands:
scrape	Fetch one payload and print the discovered containers
	`,
	}
}
