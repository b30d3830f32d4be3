package filtergraph

import (
	"fmt"
	"strconv"
	"strings"

	"audiomerge/internal/services"
	"audiomerge/internal/tracks"
)

const (
	outputLabel   = "aout"
	outputChannel = "2"
	audioSyncMode = "1"
)

// ErrInvalidSource reports a negative or repeated source stream index.
var ErrInvalidSource = fmt.Errorf("%w: invalid audio source index", services.ErrValidation)

// Encoder holds the video re-encode settings.
type Encoder struct {
	VideoCodec  string
	CRF         int
	SpeedPreset string
}

// DefaultEncoder returns the constant-quality x264 settings used when none
// are configured.
func DefaultEncoder() Encoder {
	return Encoder{VideoCodec: "libx264", CRF: 21, SpeedPreset: "fast"}
}

func (e Encoder) withDefaults() Encoder {
	def := DefaultEncoder()
	if e == (Encoder{}) {
		return def
	}
	if strings.TrimSpace(e.VideoCodec) == "" {
		e.VideoCodec = def.VideoCodec
	}
	if strings.TrimSpace(e.SpeedPreset) == "" {
		e.SpeedPreset = def.SpeedPreset
	}
	return e
}

// Options carries everything besides the snapshot that ends up on the
// command line.
type Options struct {
	InputPath  string
	OutputPath string
	// StartTime is passed to -ss verbatim. Blank means no seek.
	StartTime string
	Encoder   Encoder
}

// Invocation is a compiled ffmpeg command without the binary.
type Invocation struct {
	Args        []string
	OutputPath  string
	FilterGraph string
	Title       string
}

// Compile builds the ffmpeg invocation for snapshot.
func Compile(snapshot tracks.Snapshot, opts Options) (Invocation, error) {
	if len(snapshot) == 0 {
		return Invocation{}, tracks.ErrEmptySelection
	}
	if err := checkSources(snapshot); err != nil {
		return Invocation{}, err
	}

	graph := Graph(snapshot)
	title := strings.Join(snapshot.Labels(), ", ")
	enc := opts.Encoder.withDefaults()

	args := make([]string, 0, 24)
	if start := strings.TrimSpace(opts.StartTime); start != "" {
		args = append(args, "-ss", start)
	}
	args = append(args,
		"-i", opts.InputPath,
		"-filter_complex", graph,
		"-map", "0:v",
		"-map", "["+outputLabel+"]",
		"-c:v", enc.VideoCodec,
		"-crf", strconv.Itoa(enc.CRF),
		"-preset", enc.SpeedPreset,
		"-ac", outputChannel,
		"-metadata:s:a:0", "title="+title,
		"-async", audioSyncMode,
		opts.OutputPath,
	)

	return Invocation{
		Args:        args,
		OutputPath:  opts.OutputPath,
		FilterGraph: graph,
		Title:       title,
	}, nil
}

// Graph renders the filter_complex expression. The snapshot must be non-empty
// and carry distinct source indexes; Compile checks both.
func Graph(snapshot tracks.Snapshot) string {
	var b strings.Builder
	for i, sel := range snapshot {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "[0:a:%d]volume=%s[a%d]", sel.SourceIndex, GainFactor(sel.Volume), sel.SourceIndex)
	}
	b.WriteByte(';')
	for _, sel := range snapshot {
		fmt.Fprintf(&b, "[a%d]", sel.SourceIndex)
	}
	fmt.Fprintf(&b, "amerge=inputs=%d[%s]", len(snapshot), outputLabel)
	return b.String()
}

// GainFactor renders volume/100 as a decimal with at least one fractional
// digit, so 100 becomes "1.0" and 150 becomes "1.5".
func GainFactor(volume int) string {
	s := strconv.FormatFloat(float64(volume)/100.0, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func checkSources(snapshot tracks.Snapshot) error {
	seen := make(map[int]string, len(snapshot))
	for _, sel := range snapshot {
		if sel.SourceIndex < 0 {
			return fmt.Errorf("%w: %q has index %d", ErrInvalidSource, sel.Label, sel.SourceIndex)
		}
		if prev, ok := seen[sel.SourceIndex]; ok {
			return fmt.Errorf("%w: %q and %q both use audio stream %d", ErrInvalidSource, prev, sel.Label, sel.SourceIndex)
		}
		seen[sel.SourceIndex] = sel.Label
	}
	return nil
}
