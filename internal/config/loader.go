package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile overlays the TOML file at path onto c. Settings absent from
// the file keep their current values. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.decode(path, bytes.NewReader(data))
}

// LoadReader overlays TOML read from r onto c.
func (c *Config) LoadReader(r io.Reader) error {
	return c.decode("<reader>", r)
}

func (c *Config) decode(source string, r io.Reader) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Source: source, Detail: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			pe.Detail = serr.String()
		}
		return pe
	}
	return nil
}

// Marshal encodes c as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
