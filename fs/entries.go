// Package fs provides file-based storage for trained answers.
package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/mira"
)

// DecodeEntries reads a single JSON object mapping questions to answers.
// Returns EMALFORMED if the input is not such an object.
func DecodeEntries(r io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(r)

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, mira.Errorf(mira.EMALFORMED, "empty document")
		}
		return nil, mira.Errorf(mira.EMALFORMED, "invalid json: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, mira.Errorf(mira.EMALFORMED, "unexpected data after top-level object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, mira.Errorf(mira.EMALFORMED, "top-level value must be an object")
	}

	entries := make(map[string]string, len(obj))
	for key, value := range obj {
		s, ok := value.(string)
		if !ok {
			return nil, mira.Errorf(mira.EMALFORMED, "answer for %q must be a string", key)
		}
		entries[key] = s
	}
	return entries, nil
}

// EncodeEntries serializes entries as an indented JSON object with sorted
// keys and unescaped unicode.
func EncodeEntries(entries map[string]string) ([]byte, error) {
	if entries == nil {
		entries = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadEntries decodes the entries file at path.
// Returns EMALFORMED, prefixed with the path, if the file cannot be parsed.
func ReadEntries(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := DecodeEntries(f)
	if err != nil {
		return nil, mira.Errorf(mira.ErrorCode(err), "%s: %s", path, mira.ErrorMessage(err))
	}
	return entries, nil
}
