package response

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"mockagent/internal/config"
)

// materializeStatic renders a response body variant without any
// templating: text becomes its UTF-8 bytes, JSON its compact encoding,
// base64 its decoded bytes, and file its on-disk contents.
func materializeStatic(body *config.ResponseBody) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	switch body.Type {
	case "text":
		s, _ := body.Content.(string)
		return []byte(s), nil
	case "json":
		return json.Marshal(body.Content)
	case "base64":
		s, _ := body.Content.(string)
		return base64.StdEncoding.DecodeString(s)
	case "file":
		return os.ReadFile(body.Path)
	default:
		return nil, fmt.Errorf("unknown body variant %q", body.Type)
	}
}
