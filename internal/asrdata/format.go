package asrdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is the closed set of subtitle formats the tool knows about.
type Format string

const (
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
	FormatTXT  Format = "txt"
	FormatLRC  Format = "lrc"
	FormatJSON Format = "json"
	FormatASS  Format = "ass"
)

type (
	DecodeFunc func(text string, opts ...Option) (*Track, error)
	EncodeFunc func(t *Track) (string, error)
)

var decoders = map[Format]DecodeFunc{
	FormatSRT: ParseSRT,
	FormatVTT: ParseVTT,
}

var encoders = map[Format]EncodeFunc{
	FormatSRT:  func(t *Track) (string, error) { return t.ToSRT(), nil },
	FormatVTT:  func(t *Track) (string, error) { return t.ToVTT(), nil },
	FormatTXT:  func(t *Track) (string, error) { return t.ToTXT(), nil },
	FormatLRC:  func(t *Track) (string, error) { return t.ToLRC(), nil },
	FormatJSON: (*Track).ToJSON,
	FormatASS:  (*Track).ToASS,
}

// ParseFormat accepts a format name or extension in any case ("SRT", ".vtt").
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatSRT, FormatVTT, FormatTXT, FormatLRC, FormatJSON, FormatASS:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks the format from the file extension. ".ssa" is treated
// as ASS.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".ssa" {
		return FormatASS, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

func (f Format) Extension() string {
	return "." + string(f)
}

func (f Format) CanDecode() bool {
	_, ok := decoders[f]
	return ok
}

func (f Format) CanEncode() bool {
	_, ok := encoders[f]
	return ok
}

// DecodableFormats lists the formats Decode accepts, in a stable order.
func DecodableFormats() []Format {
	return []Format{FormatSRT, FormatVTT}
}

// EncodableFormats lists the formats Encode recognizes, in a stable order.
func EncodableFormats() []Format {
	return []Format{FormatSRT, FormatVTT, FormatTXT, FormatLRC, FormatJSON, FormatASS}
}

func Decode(format Format, text string, opts ...Option) (*Track, error) {
	decode, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: cannot read %q", ErrUnsupportedFormat, format)
	}
	return decode(text, opts...)
}

func Encode(t *Track, format Format) (string, error) {
	encode, ok := encoders[format]
	if !ok {
		return "", fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, format)
	}
	return encode(t)
}

// Load reads a subtitle file and decodes it according to its extension.
func Load(path string, opts ...Option) (*Track, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	if !format.CanDecode() {
		return nil, "", fmt.Errorf("%w: cannot read %s", ErrUnsupportedFormat, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read subtitle file: %w", err)
	}

	track, err := Decode(format, string(data), opts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return track, format, nil
}

// Save encodes t and writes it to path, creating parent directories.
func Save(t *Track, format Format, path string) error {
	content, err := Encode(t, format)
	if err != nil {
		return err
	}
	return writeFile(path, content)
}

// OutputPath replaces the extension of input with the one for format.
func OutputPath(input string, format Format) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + format.Extension()
}
