package cli

import (
	"encoding/json"
	"os"

	"github.com/brewpub/brew-publisher-go/entities"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// publishRequestSchema validates publish-request files before a run starts,
// so a malformed file is rejected with a precise reason instead of surfacing
// later as a remote API rejection.
const publishRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["artifact_path", "name", "version", "owner", "source_repo", "tap_repo", "kind"],
  "properties": {
    "artifact_path": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "homepage": {"type": "string"},
    "owner": {"type": "string", "minLength": 1},
    "source_repo": {"type": "string", "minLength": 1},
    "tap_repo": {"type": "string", "minLength": 1},
    "kind": {"type": "string", "enum": ["formula", "cask"]}
  },
  "additionalProperties": false
}`

// LoadRequestFile reads and validates a JSON publish-request file.
func LoadRequestFile(path string) (*entities.PublishRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading request file '%s'", path)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(publishRequestSchema), gojsonschema.NewBytesLoader(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed validating request file '%s'", path)
	}
	if !result.Valid() {
		var details string
		for _, description := range result.Errors() {
			details += "\n  - " + description.String()
		}
		return nil, errors.Errorf("invalid request file '%s':%s", path, details)
	}
	request := new(entities.PublishRequest)
	if err := json.Unmarshal(content, request); err != nil {
		return nil, errors.Wrapf(err, "failed parsing request file '%s'", path)
	}
	return request, nil
}
