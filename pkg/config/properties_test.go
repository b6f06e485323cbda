package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProperties = `# Sentilo sample
rest.client.identityKey=tok1
rest.client.provider = prov1
rest.client.component: comp1
! legacy comment
rest.client.sensor=sens1
rest.client.sensor.dataType=TEXT
rest.client.host=http://platform:8081/
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseProperties(t *testing.T) {
	values, err := parseProperties(strings.NewReader(sampleProperties))
	require.NoError(t, err)

	assert.Equal(t, "tok1", values[KeyIdentityKey])
	assert.Equal(t, "prov1", values[KeyProvider])
	assert.Equal(t, "comp1", values[KeyComponent])
	assert.Equal(t, "sens1", values[KeySensor])
	assert.Equal(t, "http://platform:8081/", values[KeyHost])
	assert.Len(t, values, 6)
}

func TestParseProperties_ValueContainingSeparator(t *testing.T) {
	values, err := parseProperties(strings.NewReader("rest.client.sensor.location=41.38:2.17\nflag\n"))
	require.NoError(t, err)

	assert.Equal(t, "41.38:2.17", values[KeySensorLocation])
	v, ok := values["flag"]
	assert.True(t, ok)
	assert.Empty(t, v)
}

func TestParseProperties_JavaSyntax(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		want  string
	}{
		{"whitespace separator", "rest.client.sensor status\n", KeySensor, "status"},
		{"line continuation", "rest.client.component.location=41.38 \\\n  2.17\n", KeyComponentLocation, "41.38 2.17"},
		{"unicode escape", "rest.client.provider=prov\\u00e9\n", KeyProvider, "prov\u00e9"},
		{"placeholder kept", "rest.client.sensor=${SENSOR}\n", KeySensor, "${SENSOR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := parseProperties(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, map[string]string{tt.key: tt.want}, values)
		})
	}
}

func TestLoad_PropertiesFile(t *testing.T) {
	path := writeFile(t, "samples.properties", sampleProperties)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok1", p.Get(KeyIdentityKey))
	assert.Equal(t, "", p.Get(KeySensorType))
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "samples.yaml", `rest.client.identityKey: tok1
rest.client.provider: prov1
rest.client.timeout: 5s
rest.client.component.location: "41.38 2.17"
rest.client.sensor.type: 42
rest.client.sensor.location:
`)

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tok1", p.Get(KeyIdentityKey))
	assert.Equal(t, "41.38 2.17", p.Get(KeyComponentLocation))
	assert.Equal(t, "42", p.Get(KeySensorType))
	assert.Contains(t, p.Keys(), KeySensorLocation)
	assert.Empty(t, p.Get(KeySensorLocation))
}

func TestLoad_YAMLNestedRejected(t *testing.T) {
	path := writeFile(t, "samples.yml", "rest:\n  client: x\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nested values are not supported")
}

func TestLoad_EmptyYAML(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "", p.Get(KeyProvider))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.properties"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open properties file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "samples.properties", sampleProperties)
	t.Setenv("SENTILO_REST_CLIENT_SENSOR", "from-env")
	t.Setenv("SENTILO_REST_CLIENT_SENSOR_DATATYPE", "NUMBER")

	p, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", p.Get(KeySensor))
	assert.Equal(t, "NUMBER", p.Get(KeySensorDataType))
}

func TestLoad_EmptyPathUsesEnvOnly(t *testing.T) {
	t.Setenv("SENTILO_REST_CLIENT_PROVIDER", "prov-env")

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prov-env", p.Get(KeyProvider))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SENTILO_REST_CLIENT_IDENTITYKEY", EnvName(KeyIdentityKey))
	assert.Equal(t, "SENTILO_REST_CLIENT_COMPONENT_LOCATION", EnvName(KeyComponentLocation))
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"rest.client.identitykey", KeyIdentityKey},
		{"rest.client.sensr", KeySensor},
		{"rest.client.provder", KeyProvider},
		{"completely.unrelated.key", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.key))
		})
	}
}

func TestProperties_Immutable(t *testing.T) {
	src := map[string]string{KeySensor: "a"}
	p := NewProperties(src)
	src[KeySensor] = "b"

	assert.Equal(t, "a", p.Get(KeySensor))
	assert.Equal(t, []string{KeySensor}, p.Keys())
	assert.Equal(t, 1, p.Len())
}

func TestNewSamples(t *testing.T) {
	p := NewProperties(map[string]string{
		KeyIdentityKey:       "tok1",
		KeyProvider:          "prov1",
		KeyComponent:         "comp1",
		KeySensor:            "sens1",
		KeyComponentType:     "generic",
		KeyComponentLocation: "41.38 2.17",
		KeySensorType:        "status",
		KeySensorDataType:    "TEXT",
		KeySensorLocation:    "41.38 2.17",
		KeyTimeout:           "2s",
	})

	s, err := NewSamples(p)
	require.NoError(t, err)

	assert.Equal(t, "tok1", s.IdentityKey)
	assert.Equal(t, "prov1", s.Provider)
	assert.Equal(t, "comp1", s.Component)
	assert.Equal(t, "sens1", s.Sensor)
	assert.Equal(t, "generic", s.ComponentType)
	assert.Equal(t, "status", s.SensorType)
	assert.Equal(t, "TEXT", s.SensorDataType)
	assert.Equal(t, DefaultHost, s.Host)
	assert.Equal(t, 2*time.Second, s.Timeout)
}

func TestNewSamples_MissingValuesPassThrough(t *testing.T) {
	s, err := NewSamples(NewProperties(nil))
	require.NoError(t, err)

	assert.Empty(t, s.IdentityKey)
	assert.Empty(t, s.Sensor)
	assert.Equal(t, DefaultTimeout, s.Timeout)
}

func TestNewSamples_InvalidTimeout(t *testing.T) {
	for _, v := range []string{"soon", "-1s", "0s"} {
		t.Run(v, func(t *testing.T) {
			_, err := NewSamples(NewProperties(map[string]string{KeyTimeout: v}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), KeyTimeout)
		})
	}
}
