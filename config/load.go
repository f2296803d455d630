package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-tunnel/common"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pelletier/go-toml/v2"
)

const traceKey = "oxy.config"

func tracer() tracing.Trace {
	return tracing.Select(traceKey)
}

//go:embed presets.toml
var presetsTOML []byte

type presetFile struct {
	Scenes []Scene `toml:"scenes"`
}

// Parse decodes a single scene from TOML, applies defaults and validates it.
// Unknown keys are rejected. A scene with an extends key starts from that preset.
//
// Parameters:
//   - data: the TOML document
//
// Returns:
//   - Scene: the validated scene
//   - error: a ConfigurationError for malformed, unknown or invalid keys
func Parse(data []byte) (Scene, error) {
	var head struct {
		Extends string `toml:"extends"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return Scene{}, decodeError("scene", err)
	}

	var s Scene
	if head.Extends != "" {
		base, err := rawPreset(head.Extends)
		if err != nil {
			return Scene{}, err
		}
		s = base
	}
	if err := decodeStrict(data, &s); err != nil {
		return Scene{}, decodeError("scene", err)
	}

	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	tracer().Debugf("scene %q parsed: %d x %d, %d points", s.Name, s.Segments, s.Detail, len(s.Points))
	return s, nil
}

// Load reads and parses a scene file.
//
// Parameters:
//   - file: path to the TOML file
//
// Returns:
//   - Scene: the validated scene
//   - error: the read error, or a ConfigurationError from Parse
func Load(file string) (Scene, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return Scene{}, fmt.Errorf("load scene %s: %w", file, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Scene{}, fmt.Errorf("load scene %s: %w", file, err)
	}
	return s, nil
}

// Presets returns every embedded preset, defaulted and validated, sorted by name.
//
// Returns:
//   - []Scene: the presets
//   - error: a ConfigurationError if an embedded preset is invalid
func Presets() ([]Scene, error) {
	raw, err := rawPresets()
	if err != nil {
		return nil, err
	}
	out := make([]Scene, 0, len(raw))
	for _, s := range raw {
		s.ApplyDefaults()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("preset %s: %w", s.Name, err)
		}
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Scene) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// Preset returns the embedded preset with the given name.
//
// Parameters:
//   - name: the preset name, e.g. "cubic"
//
// Returns:
//   - Scene: the defaulted and validated preset
//   - error: a ConfigurationError when no preset has that name
func Preset(name string) (Scene, error) {
	s, err := rawPreset(name)
	if err != nil {
		return Scene{}, err
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return Scene{}, fmt.Errorf("preset %s: %w", name, err)
	}
	return s, nil
}

func rawPresets() ([]Scene, error) {
	var f presetFile
	if err := decodeStrict(presetsTOML, &f); err != nil {
		return nil, decodeError("presets", err)
	}
	return f.Scenes, nil
}

func rawPreset(name string) (Scene, error) {
	raw, err := rawPresets()
	if err != nil {
		return Scene{}, err
	}
	for _, s := range raw {
		if s.Name == name {
			return s, nil
		}
	}
	return Scene{}, common.NewConfigurationError("preset", name, "no such preset")
}

func decodeStrict(data []byte, v any) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeError turns a go-toml error into a ConfigurationError that points at the offending key.
func decodeError(field string, err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) && len(strict.Errors) > 0 {
		key := strings.Join(strict.Errors[0].Key(), ".")
		return common.NewConfigurationError(key, nil, "unknown key")
	}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return common.NewConfigurationError(field, fmt.Sprintf("line %d column %d", row, col), derr.Error())
	}
	return common.NewConfigurationError(field, nil, err.Error())
}
