package schedule

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Domain prefix for schedule content hashing. The version suffix enables
// future algorithm migration without colliding with old hashes.
const hashDomain = "slate/schedule/v1"

// MarshalCanonical produces RFC 8785-style canonical JSON for a schedule:
// object keys sorted by UTF-16 code units, strings NFC normalized, no
// HTML escaping, integers only. Two schedules with equal content always
// produce identical bytes, so the output is safe to hash and to compare
// bit-for-bit in tests.
func MarshalCanonical(s *Schedule) ([]byte, error) {
	return marshalValue(canonicalMap(s))
}

// Hash returns the hex SHA-256 of the schedule's canonical form, with
// domain separation. Used by the store for change detection and by tests
// asserting that a rejected operation left the schedule untouched.
func Hash(s *Schedule) (string, error) {
	data, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("schedule hash: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(hashDomain))
	h.Write([]byte{0x00}) // null separator prevents domain/data ambiguity
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// canonicalMap flattens a schedule to plain maps/slices/ints/strings.
// Entries and tracks are emitted in a normalized order (tracks by order
// then id, entries by id) so that permutations of the backing slices do
// not change the hash.
func canonicalMap(s *Schedule) map[string]any {
	tracks := make([]any, 0, len(s.Tracks))
	for _, t := range s.TracksInOrder() {
		tracks = append(tracks, map[string]any{
			"id":    t.ID,
			"name":  t.Name,
			"order": t.Order,
		})
	}

	entries := make([]Entry, len(s.Entries))
	copy(entries, s.Entries)
	slices.SortFunc(entries, func(a, b Entry) int {
		return bytes.Compare([]byte(a.ID), []byte(b.ID))
	})

	entryList := make([]any, 0, len(entries))
	for _, e := range entries {
		m := map[string]any{
			"id":       e.ID,
			"kind":     string(e.Kind),
			"track_id": e.TrackID,
			"start":    int(e.Start),
			"duration": e.Duration,
			"order":    e.Order,
			"locked":   e.Locked,
		}
		if e.AnchorTrackID != "" {
			m["anchor_track_id"] = e.AnchorTrackID
		}
		if len(e.Payload) > 0 {
			p := make(map[string]any, len(e.Payload))
			for k, v := range e.Payload {
				p[k] = v
			}
			m["payload"] = p
		}
		entryList = append(entryList, m)
	}

	return map[string]any{
		"tracks":  tracks,
		"entries": entryList,
		"settings": map[string]any{
			"cascade_enabled": s.Settings.CascadeEnabled,
			"show_durations":  s.Settings.ShowDurations,
		},
	}
}

func marshalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalValue(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		return marshalObject(val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

func marshalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// RFC 8785 requires UTF-16 code unit ordering, not UTF-8 byte order.
	slices.SortFunc(keys, compareUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalString emits a canonical JSON string: NFC normalized, with HTML
// escaping disabled (<, >, & pass through).
func marshalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	// json.Encoder appends a trailing newline.
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out, nil
}

// compareUTF16 compares strings by UTF-16 code units per RFC 8785.
func compareUTF16(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			if ua[i] < ub[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(ua) < len(ub):
		return -1
	case len(ua) > len(ub):
		return 1
	default:
		return 0
	}
}
