package env

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// StartParams are the workflow parameters passed to every started
// instance, parsed from the DOLPHIN_STARTPARAMS environment variable.
// The value must be a JSON object of strings.
type StartParams map[string]string

// Decode implements envconfig.Decoder.
func (p *StartParams) Decode(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*p = nil
		return nil
	}

	var params map[string]string
	if err := json.Unmarshal([]byte(value), &params); err != nil {
		return errors.Wrap(err, "decode start params")
	}

	*p = params
	return nil
}

// Merge returns a copy of p overlaid with overrides.
func (p StartParams) Merge(overrides map[string]string) map[string]string {
	if len(p) == 0 && len(overrides) == 0 {
		return nil
	}
	merged := make(map[string]string, len(p)+len(overrides))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
