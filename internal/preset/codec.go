package preset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"audiomerge/internal/tracks"
)

const (
	keyLabel       = "Audio Track"
	keyEnabled     = "Enabled"
	keyVolume      = "Volume"
	keySourceIndex = "Source Index"
)

type record struct {
	Label       string `json:"Audio Track"`
	Enabled     string `json:"Enabled"`
	Volume      int    `json:"Volume"`
	SourceIndex *int   `json:"Source Index,omitempty"`
}

// Encode renders tracks in preset form. All tracks are written, enabled or not.
func Encode(list []tracks.Track) ([]byte, error) {
	records := make([]record, len(list))
	for i, t := range list {
		rec := record{Label: t.Label, Enabled: encodeEnabled(t.Enabled), Volume: t.Volume}
		if t.SourceIndex != i {
			idx := t.SourceIndex
			rec.SourceIndex = &idx
		}
		records[i] = rec
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("%w: encode: %v", ErrWrite, err)
	}
	return buf.Bytes(), nil
}

// Decode parses preset content into tracks in file order.
func Decode(data []byte) ([]tracks.Track, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: content is not a list of tracks", ErrDecode)
	}

	list := make([]tracks.Track, 0, len(raw))
	for i, fields := range raw {
		if fields == nil {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrDecode, i)
		}
		t, err := decodeRecord(i, fields)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}

func decodeRecord(i int, fields map[string]json.RawMessage) (tracks.Track, error) {
	rawLabel, ok := fields[keyLabel]
	if !ok {
		return tracks.Track{}, missingField(i, keyLabel)
	}
	var label string
	if err := json.Unmarshal(rawLabel, &label); err != nil {
		return tracks.Track{}, fmt.Errorf("%w: record %d: %q must be a string", ErrDecode, i, keyLabel)
	}

	rawEnabled, ok := fields[keyEnabled]
	if !ok {
		return tracks.Track{}, missingField(i, keyEnabled)
	}

	rawVolume, ok := fields[keyVolume]
	if !ok {
		return tracks.Track{}, missingField(i, keyVolume)
	}
	volume, err := decodeInt(rawVolume)
	if err != nil {
		return tracks.Track{}, fmt.Errorf("%w: record %d: %q: %v", ErrDecode, i, keyVolume, err)
	}

	sourceIndex := i
	if rawIndex, ok := fields[keySourceIndex]; ok {
		sourceIndex, err = decodeInt(rawIndex)
		if err != nil || sourceIndex < 0 {
			return tracks.Track{}, fmt.Errorf("%w: record %d: %q must be a non-negative number", ErrDecode, i, keySourceIndex)
		}
	}

	return tracks.Track{
		Label:       label,
		Enabled:     decodeEnabled(rawEnabled),
		Volume:      volume,
		SourceIndex: sourceIndex,
	}, nil
}

func missingField(i int, key string) error {
	return fmt.Errorf("%w: record %d: missing %q", ErrDecode, i, key)
}

// decodeEnabled accepts only digit strings with a nonzero value. Non-string
// JSON values, empty strings, signs, spaces and other text are all disabled.
func decodeEnabled(raw json.RawMessage) bool {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	if value == "" {
		return false
	}
	nonzero := false
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			return false
		}
		if c != '0' {
			nonzero = true
		}
	}
	return nonzero
}

func encodeEnabled(enabled bool) string {
	if enabled {
		return "1"
	}
	return "0"
}

// decodeInt reads a JSON number, truncating fractional values toward zero.
func decodeInt(raw json.RawMessage) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, err
	}
	num, ok := value.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number")
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		return n, nil
	}
	f, err := num.Float64()
	if err != nil {
		return 0, err
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("value %s out of range", num)
	}
	return int(f), nil
}
