package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/sentilo/sentilo-samples/pkg/api"
	"github.com/sentilo/sentilo-samples/pkg/samples"
	"github.com/sentilo/sentilo-samples/pkg/serializer"
)

const testProperties = `rest.client.identityKey=tok1
rest.client.provider=prov1
rest.client.component=comp1
rest.client.sensor=sens1
rest.client.sensor.dataType=TEXT
`

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()

	assert.Equal(t, name, root.Name)
	assert.NotNil(t, root.Before)

	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, "command %s has no action", c.Name)
	}
	assert.ElementsMatch(t, []string{"serve", "run"}, names)

	for _, flagName := range []string{"debug", "log-json"} {
		assert.True(t, hasFlag(root.Flags, flagName), "missing flag %q", flagName)
	}
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cli.Command
		flags []string
	}{
		{serveCmd(), []string{"config", "host", "address", "port"}},
		{runCmd(), []string{"config", "host", "output", "format"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name, func(t *testing.T) {
			for _, flagName := range tt.flags {
				assert.True(t, hasFlag(tt.cmd.Flags, flagName), "missing flag %q", flagName)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    serializer.Format
		wantErr bool
	}{
		{"default", nil, serializer.FormatYAML, false},
		{"json", []string{"--format", "json"}, serializer.FormatJSON, false},
		{"table", []string{"--format", "table"}, serializer.FormatTable, false},
		{"unknown", []string{"--format", "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got serializer.Format
			var gotErr error
			cmd := &cli.Command{
				Name:  "test",
				Flags: []cli.Flag{&cli.StringFlag{Name: "format", Value: string(serializer.FormatYAML)}},
				Action: func(_ context.Context, cmd *cli.Command) error {
					got, gotErr = parseOutputFormat(cmd)
					return nil
				},
			}

			require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, tt.args...)))
			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			assert.NoError(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunCmd(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantSuccess bool
	}{
		{"success", http.StatusOK, "", false, true},
		{"unauthorized", http.StatusUnauthorized, "unauthorized", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platformSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != http.StatusOK {
					w.WriteHeader(tt.status)
					_, _ = io.WriteString(w, tt.body)
					return
				}
				if r.Method == http.MethodGet {
					_, _ = io.WriteString(w, `{"providers":[{"provider":"prov1","sensors":[{"sensor":"sens1"}]}]}`)
				}
			}))
			defer platformSrv.Close()

			dir := t.TempDir()
			cfgPath := filepath.Join(dir, "samples.properties")
			outPath := filepath.Join(dir, "outcome.json")
			require.NoError(t, os.WriteFile(cfgPath, []byte(testProperties), 0o600))

			err := newRootCmd().Run(context.Background(), []string{
				name, "run",
				"--config", cfgPath,
				"--host", platformSrv.URL,
				"--format", "json",
				"--output", outPath,
			})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			data, err := os.ReadFile(outPath)
			require.NoError(t, err)

			var out samples.Outcome
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, tt.wantSuccess, out.Success)
			assert.Equal(t, "tok1", out.IdentityKey)
			assert.Equal(t, "sens1", out.SensorID)
			if tt.wantSuccess {
				assert.Equal(t, samples.SuccessMessage, out.SuccessMsg)
			} else {
				assert.Contains(t, out.ErrorMsg, tt.body)
			}
		})
	}
}

func TestRunCmd_UnknownFormat(t *testing.T) {
	err := newRootCmd().Run(context.Background(), []string{name, "run", "--format", "xml"})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestCommandLister(t *testing.T) {
	commandLister(context.Background(), nil)

	var buf bytes.Buffer
	rootCmd := &cli.Command{
		Name:   "root",
		Writer: &buf,
		Commands: []*cli.Command{
			{Name: "visible1", Hidden: false},
			{Name: "hidden", Hidden: true},
			{Name: "visible2", Hidden: false},
		},
	}
	commandLister(context.Background(), rootCmd)

	assert.Equal(t, "visible1\nvisible2\n", buf.String())
}

func hasFlag(flags []cli.Flag, name string) bool {
	for _, f := range flags {
		if f == nil {
			continue
		}
		for _, n := range f.Names() {
			if n == name {
				return true
			}
		}
	}
	return false
}

func TestAPIOptions_CarriesLoggingFlags(t *testing.T) {
	var got api.Options
	cmd := &cli.Command{
		Name: "test",
		Flags: []cli.Flag{
			configFlag(),
			hostFlag(),
			&cli.BoolFlag{Name: "debug"},
			&cli.BoolFlag{Name: "log-json"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			got = apiOptions(cmd)
			return nil
		},
	}

	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--log-json", "--config", "a.properties"}))
	assert.True(t, got.LogJSON)
	assert.False(t, got.Debug)
	assert.Equal(t, "a.properties", got.ConfigPath)
}
