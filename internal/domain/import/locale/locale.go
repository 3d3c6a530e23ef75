// Package locale holds the user-facing strings produced by statement parsing.
// Tables are YAML documents keyed by message name; placeholders are written
// as {name} and substituted at render time.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Key names a message.
type Key string

const (
	UnsupportedFormat  Key = "unsupported_format"
	UnsupportedExcel   Key = "unsupported_excel"
	MissingCapability  Key = "missing_capability"
	DecodeFailure      Key = "decode_failure"
	EmptyCSV           Key = "empty_csv"
	EmptyExcel         Key = "empty_excel"
	EmptyPDF           Key = "empty_pdf"
	ReadErrorCSV       Key = "read_error_csv"
	ReadErrorExcel     Key = "read_error_excel"
	ReadErrorPDF       Key = "read_error_pdf"
	TruncationMarker   Key = "truncation_marker"
	DefaultDescription Key = "default_description"
	SheetSeparator     Key = "sheet_separator"
)

// Keys lists every message a complete table must define.
var Keys = []Key{
	UnsupportedFormat, UnsupportedExcel, MissingCapability, DecodeFailure,
	EmptyCSV, EmptyExcel, EmptyPDF,
	ReadErrorCSV, ReadErrorExcel, ReadErrorPDF,
	TruncationMarker, DefaultDescription, SheetSeparator,
}

// DefaultName is the locale used when none is configured.
const DefaultName = "mn"

//go:embed locales/*.yaml
var bundled embed.FS

var (
	ErrUnknownLocale = errors.New("unknown locale")
	ErrIncomplete    = errors.New("locale table is missing messages")
)

// Table is an immutable set of messages for one language.
type Table struct {
	name     string
	messages map[Key]string
}

// Load returns the bundled table for name.
func Load(name string) (*Table, error) {
	data, err := bundled.ReadFile("locales/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, name)
	}
	messages, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("bundled locale %q: %w", name, err)
	}
	t := &Table{name: name, messages: messages}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadWithOverride loads the bundled table for name and replaces any
// messages defined in the YAML file at path. An empty path is ignored.
func LoadWithOverride(name, path string) (*Table, error) {
	t, err := Load(name)
	if err != nil || path == "" {
		return t, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale override: %w", err)
	}
	override, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing locale override %s: %w", path, err)
	}
	for k, v := range override {
		t.messages[k] = v
	}
	return t, nil
}

// MustLoad is Load that panics on error. Intended for bundled names.
func MustLoad(name string) *Table {
	t, err := Load(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the bundled Mongolian table.
func Default() *Table {
	return MustLoad(DefaultName)
}

// Available lists the bundled locale names.
func Available() []string {
	entries, err := bundled.ReadDir("locales")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Name returns the locale name the table was loaded as.
func (t *Table) Name() string {
	return t.name
}

// Text renders a message. args are placeholder name/value pairs:
//
//	t.Text(locale.ReadErrorCSV, "error", err.Error())
//
// An unknown key renders as the key itself.
func (t *Table) Text(key Key, args ...string) string {
	msg, ok := t.messages[key]
	if !ok {
		return string(key)
	}
	if len(args) < 2 {
		return msg
	}

	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		pairs = append(pairs, "{"+args[i]+"}", args[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func (t *Table) validate() error {
	var missing []string
	for _, k := range Keys {
		if _, ok := t.messages[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s: %s", ErrIncomplete, t.name, strings.Join(missing, ", "))
	}
	return nil
}

func decode(data []byte) (map[Key]string, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[Key]string, len(raw))
	for k, v := range raw {
		out[Key(k)] = v
	}
	return out, nil
}
