package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lukegackle/Netdata-Docker-Integration/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const agentConfigFile = ".netdata-docker.yaml"

var configPath string

// Execute assembles the command tree and runs it
func Execute() {
	root := NewRootCmd()
	root.PersistentFlags().StringVar(&configPath, "path", "", "path to the agent config file")
	root.AddCommand(NewScrapeCmd())
	root.AddCommand(NewHelpCmd())

	// Disable Help subcommand
	root.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	if err := root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	viper.SetConfigName(agentConfigFile)
	viper.AddConfigPath("$HOME")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
		if configPath == "" {
			configPath = viper.ConfigFileUsed()
		}
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, agentConfigFile)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &config.Config{}
	if err := cfg.Load(file); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	Execute()
}
