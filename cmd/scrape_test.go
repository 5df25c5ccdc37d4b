package main

import (
	"bytes"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewScrapeCmd(t *testing.T) {
	success := "netdata url not set"
	help := "\nFetch a single allmetrics payload from the configured netdata server and print one line per discovered container.\n\nUsage:\n  scrape [flags]\n\nFlags:\n  -h, --help   help for scrape\n"
	failure := "Usage:\n  scrape [flags]\n\nFlags:\n  -h, --help   help for scrape\n\n"

	home, err := os.UserHomeDir()
	if err != nil {
		t.Errorf("Failed getting home dir: %s", err)
	}
	mockConfigPath := path.Join(home, ".netdata-docker.yaml")
	_, err = os.Create(mockConfigPath)
	if err != nil {
		t.Errorf("Failed creating mock config: %s", err)
	}
	defer os.Remove(mockConfigPath)

	var tcs = []struct {
		name     string
		args     []string
		succeeds bool
		output   string
	}{
		{"should succeed with no args", []string{}, true, success},
		{"should succeed with -h arg", []string{"-h"}, true, help},
		{"should succeed with --help arg", []string{"--help"}, true, help},
		{"should fail with non-help arg", []string{"test"}, false, failure},
	}

	for _, tt := range tcs {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := NewScrapeCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(buf)
			err := cmd.Execute()

			if err != nil && tt.succeeds {
				assert.Equal(t, tt.output, err.Error())
			} else {
				assert.Equal(t, tt.output, buf.String())
			}
		})
	}
}

func Test_NewScrapeCmdNoConfig(t *testing.T) {
	var tcs = []struct {
		name string
		args []string
	}{
		{"should fail without a config file", []string{}},
	}

	for _, tt := range tcs {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			cmd := NewScrapeCmd()
			cmd.SetArgs(tt.args)
			cmd.SetOut(buf)
			err := cmd.Execute()

			assert.NotNil(t, err)
			assert.Contains(t, err.Error(), "no such file or directory")
		})
	}
}
