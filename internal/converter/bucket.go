package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ginjaninja78/langcsv/internal/types"
)

// Bucket accumulates every output representation of one language.
//
// The JSON sink is an insertion-ordered map; the other four sinks are text
// built line by line. A bucket is finalized once, after the last row.
type Bucket struct {
	language string

	keys   []string
	values map[string]string

	strings strings.Builder
	yml     strings.Builder
	xml     strings.Builder
	liquid  strings.Builder

	finalized bool
}

func newBucket(language string) *Bucket {
	b := &Bucket{
		language: language,
		values:   make(map[string]string),
	}
	b.yml.WriteString(language + ":\n")
	b.xml.WriteString("<resources>\n")
	return b
}

// add appends one translation. value has already been through fallback and
// sentinel filtering but not through quote unescaping.
func (b *Bucket) add(key, value string) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = EscapeQuotes(value, false)

	escaped := EscapeQuotes(value, true)
	fmt.Fprintf(&b.strings, "\"%s\" = \"%s\";\n", key, escaped)
	fmt.Fprintf(&b.yml, "  %s: \"%s\"\n", key, escaped)
	fmt.Fprintf(&b.xml, "    <string name=\"%s\">%s</string>\n", key, value)
	fmt.Fprintf(&b.liquid, "{%% assign %s = \"%s\" %%}\n", key, escaped)
}

// finalize closes the XML document. Calling it again is a no-op.
func (b *Bucket) finalize() {
	if b.finalized {
		return
	}
	b.xml.WriteString("</resources>\n")
	b.finalized = true
}

// Language returns the language code of the bucket.
func (b *Bucket) Language() string { return b.language }

// Keys returns the translation keys in first-seen order.
func (b *Bucket) Keys() []string {
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Value returns the JSON sink value for key.
func (b *Bucket) Value(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Values returns a copy of the JSON sink.
func (b *Bucket) Values() map[string]string {
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// StringsFile returns the Apple Localizable.strings text.
func (b *Bucket) StringsFile() string { return b.strings.String() }

// YAML returns the YAML text.
func (b *Bucket) YAML() string { return b.yml.String() }

// XML returns the Android strings.xml text.
func (b *Bucket) XML() string { return b.xml.String() }

// Liquid returns the Liquid assign text.
func (b *Bucket) Liquid() string { return b.liquid.String() }

// JSON renders the JSON sink pretty-printed with two-space indentation,
// keeping keys in insertion order. An empty sink renders as "{}".
func (b *Bucket) JSON() ([]byte, error) {
	if len(b.keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range b.keys {
		k, err := marshalString(key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", key, err)
		}
		v, err := marshalString(b.values[key])
		if err != nil {
			return nil, fmt.Errorf("failed to encode value of %q: %w", key, err)
		}

		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		if i < len(b.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Render returns the file content for format.
func (b *Bucket) Render(format types.Format) ([]byte, error) {
	switch format {
	case types.FormatJSON:
		return b.JSON()
	case types.FormatStrings:
		return []byte(b.StringsFile()), nil
	case types.FormatYAML:
		return []byte(b.YAML()), nil
	case types.FormatXML:
		return []byte(b.XML()), nil
	case types.FormatLiquid:
		return []byte(b.Liquid()), nil
	}
	return nil, fmt.Errorf("converter: unsupported format %q", format)
}

// marshalString encodes s as a JSON string without HTML escaping, so that
// "<b>" stays readable in the generated files.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
