package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// load is a [kong.ConfigurationLoader] that reads YAML (or JSON) config
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(load, "/path/to/config.yaml")
//
// Keys name flags without their leading dashes. Nested mappings are joined
// with "-", so the following are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values.
func load(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, err
	}

	c := config{}
	c.flatten("", doc)

	return c, nil
}

// config implements [kong.Resolver] for flattened config documents.
type config map[string]any

func (c config) flatten(prefix string, doc map[string]any) {
	for key, value := range doc {
		name := strings.ReplaceAll(strings.ToLower(key), "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(name, nested)

			continue
		}

		c[name] = scalar(value)
	}
}

// scalar converts decoded numbers to strings, which kong parses with the
// flag's own mapper.
func scalar(value any) any {
	switch v := value.(type) {
	case string, bool, nil:
		return v

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
