package platform

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the platform's observation timestamp format (dd/MM/yyyyTHH:mm:ss, UTC).
const TimestampLayout = "02/01/2006T15:04:05"

// CatalogComponent describes a component (e.g. a device) owning sensors.
type CatalogComponent struct {
	Component     string `json:"component" yaml:"component"`
	ComponentType string `json:"componentType,omitempty" yaml:"componentType,omitempty"`
	Location      string `json:"location,omitempty" yaml:"location,omitempty"`
}

// CatalogSensor describes a sensor registered under a provider and component.
type CatalogSensor struct {
	Sensor    string `json:"sensor" yaml:"sensor"`
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Component string `json:"component,omitempty" yaml:"component,omitempty"`
	Type      string `json:"type,omitempty" yaml:"type,omitempty"`
	DataType  string `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
}

// AuthorizedProvider is a provider the caller may read, with its known sensors.
type AuthorizedProvider struct {
	Provider   string          `json:"provider" yaml:"provider"`
	Permission string          `json:"permission,omitempty" yaml:"permission,omitempty"`
	Sensors    []CatalogSensor `json:"sensors,omitempty" yaml:"sensors,omitempty"`
}

// CatalogInputMessage addresses catalog queries and registrations.
type CatalogInputMessage struct {
	IdentityToken string             `json:"-" yaml:"-"`
	ProviderID    string             `json:"-" yaml:"-"`
	Components    []CatalogComponent `json:"components,omitempty" yaml:"components,omitempty"`
	Sensors       []CatalogSensor    `json:"sensors,omitempty" yaml:"sensors,omitempty"`
}

// CatalogOutputMessage is the catalog query response.
type CatalogOutputMessage struct {
	Providers []AuthorizedProvider `json:"providers" yaml:"providers"`
}

// Observation is a single timestamped value.
type Observation struct {
	Value     string    `yaml:"value"`
	Timestamp time.Time `yaml:"timestamp"`
}

type observationJSON struct {
	Value     string `json:"value"`
	Timestamp string `json:"timestamp,omitempty"`
}

// MarshalJSON encodes the timestamp using TimestampLayout in UTC.
func (o Observation) MarshalJSON() ([]byte, error) {
	j := observationJSON{Value: o.Value}
	if !o.Timestamp.IsZero() {
		j.Timestamp = o.Timestamp.UTC().Format(TimestampLayout)
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an observation encoded by MarshalJSON.
func (o *Observation) UnmarshalJSON(data []byte) error {
	var j observationJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	o.Value = j.Value
	o.Timestamp = time.Time{}
	if j.Timestamp != "" {
		ts, err := time.ParseInLocation(TimestampLayout, j.Timestamp, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid observation timestamp %q: %w", j.Timestamp, err)
		}
		o.Timestamp = ts
	}
	return nil
}

// SensorObservations groups observations for one sensor.
type SensorObservations struct {
	Sensor       string        `json:"-" yaml:"sensor"`
	Observations []Observation `json:"observations" yaml:"observations"`
}

// DataInputMessage addresses an observation submission.
type DataInputMessage struct {
	IdentityToken      string
	ProviderID         string
	SensorID           string
	SensorObservations SensorObservations
}
