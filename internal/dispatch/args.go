package dispatch

import (
	"maps"

	"github.com/Cyclone1070/toolgate/internal/tool"
	"github.com/mitchellh/mapstructure"
)

// pathArg is an argument that names a filesystem location.
type pathArg struct {
	key string
	// optional path args default to the project root when absent.
	optional bool
}

type resolver interface {
	Resolve(raw string) (string, error)
}

// resolvePaths runs every path-bearing argument through the guard and
// returns a copy of args with canonical absolute paths substituted.
func resolvePaths(guard resolver, name tool.Name, args map[string]any, paths []pathArg) (map[string]any, error) {
	out := maps.Clone(args)
	if out == nil {
		out = map[string]any{}
	}
	for _, p := range paths {
		raw, present := out[p.key]
		if !present || raw == nil {
			if !p.optional {
				return nil, &ArgumentError{Tool: name, Key: p.key, Cause: ErrMissingArgument}
			}
			raw = "."
		}
		s, ok := raw.(string)
		if !ok {
			return nil, &ArgumentError{Tool: name, Key: p.key, Cause: ErrNotAString}
		}
		if s == "" && p.optional {
			s = "."
		}
		resolved, err := guard.Resolve(s)
		if err != nil {
			return nil, err
		}
		out[p.key] = resolved
	}
	return out, nil
}

// decodeArgs fills a typed request from call arguments. Input is weakly typed
// so JSON numbers and strings like "true" land in int and bool fields.
func decodeArgs(name tool.Name, args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return &ArgumentError{Tool: name, Cause: err}
	}
	return nil
}
