package samples

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	sserrors "github.com/sentilo/sentilo-samples/pkg/errors"
	"github.com/sentilo/sentilo-samples/pkg/platform"
)

// SuccessMessage is reported when the observation was published.
const SuccessMessage = "Observations sended successfully"

// Outcome is the result of one sample execution.
type Outcome struct {
	IdentityKey  string    `json:"restClientIdentityKey" yaml:"restClientIdentityKey"`
	ProviderID   string    `json:"providerId" yaml:"providerId"`
	ComponentID  string    `json:"componentId" yaml:"componentId"`
	SensorID     string    `json:"sensorId" yaml:"sensorId"`
	Observations string    `json:"observations" yaml:"observations"`
	Success      bool      `json:"success" yaml:"success"`
	SuccessMsg   string    `json:"successMsg,omitempty" yaml:"successMsg,omitempty"`
	ErrorMsg     string    `json:"errorMsg,omitempty" yaml:"errorMsg,omitempty"`
	ErrorCode    string    `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// Message returns the success message or the formatted error.
func (o *Outcome) Message() string {
	if o.Success {
		return o.SuccessMsg
	}
	return o.ErrorMsg
}

func (r *Runner) newOutcome(observations string, err error, ts time.Time) *Outcome {
	o := &Outcome{
		IdentityKey:  r.cfg.IdentityKey,
		ProviderID:   r.cfg.Provider,
		ComponentID:  r.cfg.Component,
		SensorID:     r.cfg.Sensor,
		Observations: observations,
		Timestamp:    ts,
	}

	if err != nil {
		o.ErrorMsg = formatErrorText(platform.Message(err), r.lineBreak)
		o.ErrorCode = string(sserrors.CodeOf(err))
		return o
	}

	o.Success = true
	o.SuccessMsg = SuccessMessage
	return o
}

// formatErrorText pretty prints text when it is a JSON document. Otherwise it
// returns text followed by the parse error, separated by sep when text is not
// empty.
func formatErrorText(text, sep string) string {
	pretty, err := prettyJSON(text)
	if err == nil {
		return pretty
	}

	slog.Error("error parsing JSON", "error", err)
	if text == "" {
		return err.Error()
	}
	return text + sep + err.Error()
}

// prettyJSON re-indents a single JSON document, keeping its key order and
// characters as sent.
func prettyJSON(text string) (string, error) {
	dec := json.NewDecoder(strings.NewReader(text))

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return "", err
	}
	if dec.More() {
		return "", errors.New("unexpected data after JSON document")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
