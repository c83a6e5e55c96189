package template

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeLayout = "2006-01-02T15:04:05.000Z"

var helperNames = map[string]bool{
	"json":    true,
	"uuid":    true,
	"now":     true,
	"random":  true,
	"default": true,
	"upper":   true,
	"lower":   true,
}

// arg is one argument token to a helper call: either a quoted string
// literal or a field reference resolved against the context.
type arg struct {
	literal string
	isLit   bool
}

func (a arg) resolve(ctx *Context) any {
	if a.isLit {
		return a.literal
	}
	v, ok := resolveField(ctx, a.literal)
	if !ok {
		return nil
	}
	return v
}

func (a arg) resolveString(ctx *Context) string {
	return stringify(a.resolve(ctx))
}

// callHelper dispatches a parsed helper invocation and returns its
// rendered string output.
func callHelper(ctx *Context, name string, args []arg) (string, error) {
	switch name {
	case "json":
		if len(args) == 0 {
			return "", nil
		}
		return helperJSON(args[0].resolveString(ctx)), nil
	case "uuid":
		return uuid.New().String(), nil
	case "now":
		layout := defaultTimeLayout
		if len(args) > 0 {
			layout = translateStrftime(args[0].resolveString(ctx))
		}
		return time.Now().UTC().Format(layout), nil
	case "random":
		min, max := 0, 100
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0].resolveString(ctx)); err == nil {
				min = v
			}
		}
		if len(args) > 1 {
			if v, err := strconv.Atoi(args[1].resolveString(ctx)); err == nil {
				max = v
			}
		}
		if max < min {
			min, max = max, min
		}
		return strconv.Itoa(min + rand.Intn(max-min+1)), nil
	case "default":
		if len(args) < 2 {
			return "", fmt.Errorf("default helper requires 2 arguments")
		}
		value := args[0].resolve(ctx)
		if isNullOrEmpty(value) {
			return args[1].resolveString(ctx), nil
		}
		return stringify(value), nil
	case "upper":
		if len(args) == 0 {
			return "", nil
		}
		return strings.ToUpper(args[0].resolveString(ctx)), nil
	case "lower":
		if len(args) == 0 {
			return "", nil
		}
		return strings.ToLower(args[0].resolveString(ctx)), nil
	default:
		return "", fmt.Errorf("unknown helper %q", name)
	}
}

// strftimeSpecs maps strftime conversion specifiers to the equivalent
// token in Go's reference-time layout, so a `now` format string
// carried over from a strftime-based config (e.g. "%Y-%m-%dT%H:%M:%S")
// renders a timestamp instead of passing through literally.
var strftimeSpecs = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'e': "_2",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'z': "-0700",
	'Z': "MST",
	'a': "Mon",
	'A': "Monday",
	'b': "Jan",
	'B': "January",
	'j': "002",
	'%': "%",
}

// translateStrftime rewrites a strftime-style format string (including
// the "%.3f"/"%.6f"/"%.9f" fractional-second extension chrono uses)
// into a Go reference-time layout. Unknown specifiers pass through
// unchanged so a format string that happens to already be a Go layout
// still renders something reasonable.
func translateStrftime(format string) string {
	var out strings.Builder
	i := 0
	for i < len(format) {
		if format[i] != '%' || i+1 >= len(format) {
			out.WriteByte(format[i])
			i++
			continue
		}
		if format[i+1] == '.' && i+3 < len(format) && format[i+3] == 'f' && format[i+2] >= '0' && format[i+2] <= '9' {
			out.WriteByte('.')
			out.WriteString(strings.Repeat("0", int(format[i+2]-'0')))
			i += 4
			continue
		}
		if layout, ok := strftimeSpecs[format[i+1]]; ok {
			out.WriteString(layout)
			i += 2
			continue
		}
		out.WriteByte(format[i])
		i++
	}
	return out.String()
}

// helperJSON pretty-prints s if it parses as JSON, otherwise returns
// it unchanged.
func helperJSON(s string) string {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}
