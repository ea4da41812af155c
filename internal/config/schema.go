package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of SiegeConfig, for editor completion of
// user config files.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(&SiegeConfig{})
	if schema == nil {
		return nil, fmt.Errorf("config: reflect siege schema")
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("config: encode schema: %w", err)
	}
	return append(out, '\n'), nil
}
