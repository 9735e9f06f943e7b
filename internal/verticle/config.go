package verticle

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Config is the free-form attribute block attached to a verticle in the
// startup file, already evaluated to cty values by the loader.
type Config map[string]cty.Value

// String reads a string attribute, falling back to def when absent.
func (c Config) String(name, def string) (string, error) {
	val, ok := c[name]
	if !ok {
		return def, nil
	}
	var out string
	if err := decode(name, val, cty.String, &out); err != nil {
		return "", err
	}
	return out, nil
}

// Int reads a whole-number attribute, falling back to def when absent.
func (c Config) Int(name string, def int) (int, error) {
	val, ok := c[name]
	if !ok {
		return def, nil
	}
	var out int
	if err := decode(name, val, cty.Number, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// Bool reads a boolean attribute, falling back to def when absent.
func (c Config) Bool(name string, def bool) (bool, error) {
	val, ok := c[name]
	if !ok {
		return def, nil
	}
	var out bool
	if err := decode(name, val, cty.Bool, &out); err != nil {
		return false, err
	}
	return out, nil
}

func decode(name string, val cty.Value, want cty.Type, target any) error {
	converted, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("config attribute %q: %w", name, err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("config attribute %q: %w", name, err)
	}
	return nil
}
