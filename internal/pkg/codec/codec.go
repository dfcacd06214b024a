// Package codec encodes peer and webhook bodies as JSON or YAML.
package codec

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"

	"parcel-dispatch/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

const (
	MIMEJSON = "application/json"
	MIMEYAML = "application/x-yaml"
)

// Codec converts values to and from one wire format.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) ContentType() string                { return MIMEJSON }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) Name() string                       { return "yaml" }
func (yamlCodec) ContentType() string                { return MIMEYAML }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

var (
	JSON Codec = jsonCodec{}
	YAML Codec = yamlCodec{}
)

// ByName resolves "json" or "yaml"; empty selects JSON.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return nil, errs.NewValueIsInvalidErrorWithCause("codec", fmt.Errorf("unknown codec %q", name))
	}
}

// ForContentType picks the codec for a Content-Type or Accept value. The
// boolean is false when the media type is not a supported one.
func ForContentType(header string) (Codec, bool) {
	for _, part := range strings.Split(header, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case MIMEJSON:
			return JSON, true
		case MIMEYAML, "application/yaml", "text/yaml", "text/x-yaml":
			return YAML, true
		}
	}
	return JSON, false
}
