package main

import (
	"bytes"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewRootCmd(t *testing.T) {
	// success is the runtime error once the empty mock config loads
	success := "netdata url not set"
	help := "\nnetdata-docker polls a netdata server's allmetrics endpoint,\nextracts per-container Docker metrics and republishes them to\nthe configured publishers and history store.\n\nUsage:\n  netdata-docker [flags]\n\nFlags:\n  -h, --help   help for netdata-docker\n"
	failure := "Usage:\n  netdata-docker [flags]\n\nFlags:\n  -h, --help   help for netdata-docker\n\n"

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
			cmd := NewRootCmd()
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
