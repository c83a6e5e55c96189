package template

import "strings"

// RenderJSON recursively renders a decoded JSON document: strings that
// contain "{{" are rendered as templates and keep their string type;
// other scalars pass through unchanged; arrays and objects recurse
// structurally. A document with no "{{" anywhere is therefore returned
// unchanged (so template:true has no effect on an already-static body).
func RenderJSON(doc any, ctx *Context) (any, error) {
	switch v := doc.(type) {
	case string:
		if !strings.Contains(v, "{{") {
			return v, nil
		}
		return Render(v, ctx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			rendered, err := RenderJSON(val, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			rendered, err := RenderJSON(val, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return v, nil
	}
}
