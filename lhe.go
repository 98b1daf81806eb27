package lheplot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Reader scans <event> blocks from an LHE stream. It is single-pass:
// the underlying stream must be re-opened to iterate again.
//
// Malformed blocks (wrong field count, non-numeric momentum, truncation
// at end of file) are skipped with a recorded warning and scanning
// resumes at the next <event> tag.
type Reader struct {
	scan  *bufio.Scanner
	f     *os.File
	warns *Warnings

	event Event
	nread int
	err   error
}

// NewReader wraps an LHE text stream. Warnings from skipped blocks are
// recorded in warns, which may be nil.
func NewReader(r io.Reader, warns *Warnings) *Reader {
	if warns == nil {
		warns = NewWarnings()
	}
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scan: scan, warns: warns}
}

// Open opens an LHE file for reading.
func Open(path string, warns *Warnings) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lhe: could not open %q: %w", path, err)
	}
	r := NewReader(f, warns)
	r.f = f
	return r, nil
}

func (r *Reader) Close() error {
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

// Next advances to the next well-formed event. It returns false at end
// of stream or on a read error; check Err afterwards.
func (r *Reader) Next() bool {
	for {
		found := false
		for r.scan.Scan() {
			if strings.Contains(r.scan.Text(), "<event") {
				found = true
				break
			}
		}
		if !found {
			r.err = r.scan.Err()
			return false
		}

		r.nread++
		ev, err := r.readBlock()
		if err != nil {
			r.warns.Warnf(WarnMalformedEvent, "event %d skipped: %v", r.nread, err)
			continue
		}
		r.event = ev
		return true
	}
}

// Event returns the event read by the last successful call to Next.
func (r *Reader) Event() Event {
	return r.event
}

func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) readBlock() (Event, error) {
	line, err := r.nextLine()
	if err != nil {
		return Event{}, err
	}

	fields := strings.Fields(line)
	if len(fields) < 6 {
		return Event{}, fmt.Errorf("event header has %d fields, want 6", len(fields))
	}
	nup, err := strconv.Atoi(fields[0])
	if err != nil || nup <= 0 {
		return Event{}, fmt.Errorf("bad particle count %q", fields[0])
	}
	weight, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Event{}, fmt.Errorf("bad event weight %q", fields[2])
	}

	ev := Event{Particles: make([]Particle, 0, nup), Weight: weight}
	for i := 0; i < nup; i++ {
		line, err := r.nextLine()
		if err != nil {
			return Event{}, err
		}
		p, err := parseParticle(line)
		if err != nil {
			return Event{}, fmt.Errorf("particle %d: %w", i+1, err)
		}
		ev.Particles = append(ev.Particles, p)
	}
	return ev, nil
}

// nextLine returns the next non-comment line of the current block, or
// an error if the block is cut short by </event> or end of file.
func (r *Reader) nextLine() (string, error) {
	for r.scan.Scan() {
		line := strings.TrimSpace(r.scan.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "<") {
			return "", fmt.Errorf("block truncated at %q", line)
		}
		return line, nil
	}
	return "", io.ErrUnexpectedEOF
}

// parseParticle reads one IDUP ISTUP MOTHUP ... line. Momentum and
// energy sit in fields 7-10.
func parseParticle(line string) (Particle, error) {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return Particle{}, fmt.Errorf("has %d fields, want at least 10", len(fields))
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return Particle{}, fmt.Errorf("bad PDG id %q", fields[0])
	}
	var mom [4]float64
	for i := 0; i < 4; i++ {
		mom[i], err = strconv.ParseFloat(fields[6+i], 64)
		if err != nil {
			return Particle{}, fmt.Errorf("bad momentum %q", fields[6+i])
		}
	}
	return Particle{PID: pid, P: Vec4{mom[0], mom[1], mom[2], mom[3]}}, nil
}

// NumEventsHint probes the LHE banner for a "Number of Events" comment.
// It stops at the first <event> tag.
func NumEventsHint(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scan := bufio.NewScanner(f)
	for scan.Scan() {
		line := scan.Text()
		if strings.Contains(line, "<event") {
			break
		}
		if !strings.Contains(line, "Number of Events") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// CountEvents counts <event> tags in the file.
func CountEvents(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("lhe: could not open %q: %w", path, err)
	}
	defer f.Close()

	n := 0
	scan := bufio.NewScanner(f)
	scan.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scan.Scan() {
		if strings.Contains(scan.Text(), "<event") {
			n++
		}
	}
	return n, scan.Err()
}

// TotalEvents returns the banner hint when present, falling back to a
// full tag count.
func TotalEvents(path string) (int, error) {
	if n, ok := NumEventsHint(path); ok {
		return n, nil
	}
	return CountEvents(path)
}
