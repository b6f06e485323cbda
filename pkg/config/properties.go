// Package config loads the read-only properties consumed by the samples runner.
//
// Properties are a flat string-to-string mapping read once at startup from a
// Java-style .properties file or a flat YAML document, then overridden from the
// environment. Values are never validated for presence: a missing key reads as
// the empty string.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Property keys understood by the samples runner.
const (
	KeyIdentityKey       = "rest.client.identityKey"
	KeyProvider          = "rest.client.provider"
	KeyComponent         = "rest.client.component"
	KeySensor            = "rest.client.sensor"
	KeyComponentType     = "rest.client.component.type"
	KeyComponentLocation = "rest.client.component.location"
	KeySensorType        = "rest.client.sensor.type"
	KeySensorDataType    = "rest.client.sensor.dataType"
	KeySensorLocation    = "rest.client.sensor.location"
	KeyHost              = "rest.client.host"
	KeyTimeout           = "rest.client.timeout"
)

// EnvPrefix prefixes environment overrides, e.g. rest.client.sensor is
// overridden by SENTILO_REST_CLIENT_SENSOR.
const EnvPrefix = "SENTILO_"

// KnownKeys lists every key the module reads.
var KnownKeys = []string{
	KeyIdentityKey,
	KeyProvider,
	KeyComponent,
	KeySensor,
	KeyComponentType,
	KeyComponentLocation,
	KeySensorType,
	KeySensorDataType,
	KeySensorLocation,
	KeyHost,
	KeyTimeout,
}

// maxSuggestionDistance bounds the edit distance for "did you mean" hints.
const maxSuggestionDistance = 3

// Properties is an immutable set of configuration values.
type Properties struct {
	values map[string]string
}

// NewProperties copies values into a new Properties.
func NewProperties(values map[string]string) Properties {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Properties{values: cp}
}

// Get returns the value for key or "" when unset.
func (p Properties) Get(key string) string {
	return p.values[key]
}

// Keys returns the set keys in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of set keys.
func (p Properties) Len() int {
	return len(p.values)
}

// Load reads properties from path and applies environment overrides.
// Files ending in .yaml or .yml are parsed as flat YAML maps, anything else
// as key=value properties. An empty path yields environment values only.
func Load(path string) (Properties, error) {
	values := map[string]string{}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Properties{}, fmt.Errorf("failed to open properties file %s: %w", path, err)
		}
		defer f.Close()

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			values, err = parseYAML(f)
		default:
			values, err = parseProperties(f)
		}
		if err != nil {
			return Properties{}, fmt.Errorf("failed to parse properties file %s: %w", path, err)
		}
	}

	applyEnv(values, os.LookupEnv)

	p := NewProperties(values)
	warnUnknownKeys(p)

	slog.Debug("loaded properties", "path", path, "keys", p.Len())

	return p, nil
}

// parseProperties reads a Java .properties document: =, : or whitespace
// separators, # and ! comments, backslash line continuations and \uXXXX
// escapes. ${...} references are kept literally.
func parseProperties(r io.Reader) (map[string]string, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes(buf)
	if err != nil {
		return nil, err
	}
	return p.Map(), nil
}

func parseYAML(r io.Reader) (map[string]string, error) {
	raw := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch tv := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = tv
		case map[string]any, []any:
			return nil, fmt.Errorf("key %q: nested values are not supported, use dotted keys", k)
		default:
			values[k] = fmt.Sprint(tv)
		}
	}
	return values, nil
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return EnvPrefix + strings.ToUpper(r.Replace(key))
}

func applyEnv(values map[string]string, lookup func(string) (string, bool)) {
	for _, key := range KnownKeys {
		if v, ok := lookup(EnvName(key)); ok {
			values[key] = v
		}
	}
}

func warnUnknownKeys(p Properties) {
	for _, key := range p.Keys() {
		if isKnownKey(key) {
			continue
		}
		if s := Suggest(key); s != "" {
			slog.Warn("unknown property", "key", key, "suggestion", s)
			continue
		}
		slog.Debug("unknown property", "key", key)
	}
}

func isKnownKey(key string) bool {
	for _, k := range KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Suggest returns the known key closest to key, or "" when none is close enough.
func Suggest(key string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, k := range KnownKeys {
		d := levenshtein.ComputeDistance(strings.ToLower(key), strings.ToLower(k))
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist > maxSuggestionDistance {
		return ""
	}
	return best
}
