package config

import (
	"io"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultScanIntervalSeconds = 30
	DefaultTimeoutSeconds      = 15
	DefaultRetentionDays       = 14
)

type Config struct {
	Cluster    string     `yaml:"cluster"`
	Netdata    netdata    `yaml:"netdata"`
	Publishers publishers `yaml:"publishers"`
	History    history    `yaml:"history"`
}

type netdata struct {
	Url                 string `yaml:"url"`
	Format              string `yaml:"format"`
	ScanIntervalSeconds int    `yaml:"scanIntervalSeconds"`
	TimeoutSeconds      int    `yaml:"timeoutSeconds"`
}

type publishers struct {
	Prometheus prometheus `yaml:"prometheus"`
	Webhook    webhook    `yaml:"webhook"`
}

type prometheus struct {
	Listen string `yaml:"listen"`
}

type webhook struct {
	Url string `yaml:"url"`
}

type history struct {
	Store         string   `yaml:"store"`
	Path          string   `yaml:"path"`
	Postgres      postgres `yaml:"postgres"`
	RetentionDays int      `yaml:"retentionDays"`
}

type postgres struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

func (c *Config) Load(file io.Reader) error {
	stream, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(stream, c); err != nil {
		return err
	}
	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Netdata.Format == "" {
		c.Netdata.Format = "json"
	}
	if c.Netdata.ScanIntervalSeconds <= 0 {
		c.Netdata.ScanIntervalSeconds = DefaultScanIntervalSeconds
	}
	if c.Netdata.TimeoutSeconds <= 0 {
		c.Netdata.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = DefaultRetentionDays
	}
}

// ScanInterval returns the poll cadence.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Netdata.ScanIntervalSeconds) * time.Second
}

// Timeout returns the per-fetch HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Netdata.TimeoutSeconds) * time.Second
}

// Retention returns how much history the stores keep.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}
