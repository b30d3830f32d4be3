package runner

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"time"
)

var progressTimePattern = regexp.MustCompile(`time=\s*(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// Progress is one parsed ffmpeg status update.
type Progress struct {
	Position time.Duration
	Total    time.Duration
	// Percent is -1 when Total is unknown.
	Percent float64
}

// ProgressFunc receives progress updates. It runs on the goroutine reading
// ffmpeg output and should return quickly.
type ProgressFunc func(Progress)

// ParseProgressTime extracts the time= position from an ffmpeg status line.
func ParseProgressTime(line string) (time.Duration, bool) {
	m := progressTimePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return total, true
}

func newProgress(position, total time.Duration) Progress {
	p := Progress{Position: position, Total: total, Percent: -1}
	if total > 0 {
		p.Percent = float64(position) / float64(total) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
		if p.Percent < 0 {
			p.Percent = 0
		}
	}
	return p
}

// scanLinesOrCR splits on \n or \r. ffmpeg rewrites its status line with
// carriage returns, so bufio.ScanLines would buffer a whole run as one line.
func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

var _ bufio.SplitFunc = scanLinesOrCR
