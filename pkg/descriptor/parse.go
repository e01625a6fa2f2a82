package descriptor

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// BaseName is the descriptor file name without extension.
const BaseName = ".category"

// FileNames lists the descriptor file names in lookup order.
var FileNames = []string{
	BaseName + ".json",
	BaseName + ".toml",
	BaseName + ".yaml",
	BaseName + ".yml",
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unsupported descriptor format %q", filepath.Ext(path)).
		WithDetail("path", path)
}

// Parse decodes and validates descriptor data.
func Parse(data []byte, format Format) (*Descriptor, error) {
	raw, err := unmarshal(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorParse, "cannot parse %s descriptor", format)
	}

	d, err := decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "descriptor has an unexpected shape")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads, decodes and validates the descriptor at path.
func Load(fsys filesystem.FS, path string) (*Descriptor, error) {
	logger := logging.GetLogger("descriptor").With().Str("path", path).Logger()

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		code := errors.ErrDescriptorLoad
		if filesystem.IsNotExist(err) {
			code = errors.ErrNotFound
		}
		return nil, errors.Wrap(err, code, "cannot read descriptor").WithDetail("path", path)
	}

	raw, err := unmarshal(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDescriptorParse, "cannot parse %s descriptor", format).WithDetail("path", path)
	}
	d, err := decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrDescriptorParse, "descriptor has an unexpected shape").WithDetail("path", path)
	}
	d.Path = path
	if err := d.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("category", d.Name()).
		Int("files", len(d.Files)).
		Int("directories", len(d.Directories)).
		Int("install", len(d.Category.Install)).
		Msg("Descriptor loaded")
	return d, nil
}

func unmarshal(data []byte, format Format) (map[string]interface{}, error) {
	raw := make(map[string]interface{})
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func decode(raw map[string]interface{}) (*Descriptor, error) {
	var d Descriptor
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &d,
		WeaklyTypedInput: true,
		ErrorUnused:      false,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return &d, nil
}
