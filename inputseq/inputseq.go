// Package inputseq provides the tick-indexed sensory event stream that
// drives a network episode, plus its .seq textual persistence format
// (spec §4.3, §6).
package inputseq

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/hd220/spikenet/common"
)

// event is a single (id, value) injection scheduled for a tick.
type event struct {
	id    common.NeuronID
	value float64
}

// Sequence is an ordered collection of (tick, id, value) events with a
// cursor and a wrap flag.
type Sequence struct {
	events      map[common.Tick][]event
	currentTick common.Tick
	maxTick     common.Tick
	hasEvents   bool
	Loop        bool
}

// New returns an empty sequence.
func New() *Sequence {
	return &Sequence{events: make(map[common.Tick][]event)}
}

// Add stores an event at the given tick.
func (s *Sequence) Add(tick common.Tick, id common.NeuronID, value float64) {
	s.events[tick] = append(s.events[tick], event{id: id, value: value})
	if !s.hasEvents || tick > s.maxTick {
		s.maxTick = tick
	}
	s.hasEvents = true
}

// IsEmpty reports whether the sequence has no events at all.
func (s *Sequence) IsEmpty() bool {
	return !s.hasEvents
}

// MaxTick returns the highest tick at which an event is scheduled. Zero if
// the sequence is empty.
func (s *Sequence) MaxTick() common.Tick {
	return s.maxTick
}

// CurrentTick returns the cursor position.
func (s *Sequence) CurrentTick() common.Tick {
	return s.currentTick
}

// CurrentInputs returns the id->value map of events scheduled at the
// current cursor tick (empty if none).
func (s *Sequence) CurrentInputs() map[common.NeuronID]float64 {
	out := make(map[common.NeuronID]float64)
	for _, e := range s.events[s.currentTick] {
		out[e.id] = e.value
	}
	return out
}

// Advance moves the cursor forward by one tick. If Loop is set and the
// cursor would exceed MaxTick, it wraps to 0.
func (s *Sequence) Advance() {
	s.currentTick++
	if s.Loop && s.currentTick > s.maxTick {
		s.currentTick = 0
	}
}

// Reset moves the cursor back to 0.
func (s *Sequence) Reset() {
	s.currentTick = 0
}

// WithOnsetDelay returns a copy of s with every event's tick shifted
// forward by delay. Used for timing-jitter training (spec §4.6 step 4):
// each episode gets an independent onset delay so the network cannot
// anchor on a fixed absolute tick.
func (s *Sequence) WithOnsetDelay(delay common.Tick) *Sequence {
	out := New()
	out.Loop = s.Loop
	for tick, evs := range s.events {
		for _, e := range evs {
			out.Add(tick+delay, e.id, e.value)
		}
	}
	return out
}

// LoadSeqFile opens path and parses it as a .seq file. A missing file is
// fatal (common.ErrMissingFile); malformed lines are logged and skipped.
func LoadSeqFile(path string, logger *log.Logger) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load .seq %s: %w: %v", path, common.ErrMissingFile, err)
	}
	defer f.Close()
	return ReadSeq(f, logger)
}

// ReadSeq parses the .seq grammar: blank/# comments, DURATION (informational,
// ignored), LOOP <true|false|1|0>, and "<TICK> <ID> <VALUE>" or
// "EVENT <TICK> <ID> <VALUE>" event lines.
func ReadSeq(r io.Reader, logger *log.Logger) (*Sequence, error) {
	if logger == nil {
		logger = log.Default()
	}
	seq := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		head := strings.ToUpper(fields[0])
		switch head {
		case "DURATION":
			// Informational only; the parser accepts and ignores it.
			continue
		case "LOOP":
			if len(fields) != 2 {
				logger.Printf(".seq:%d: %v: LOOP requires exactly one value", lineNo, common.ErrParse)
				continue
			}
			v, err := parseBool(fields[1])
			if err != nil {
				logger.Printf(".seq:%d: %v: %v", lineNo, common.ErrParse, err)
				continue
			}
			seq.Loop = v
		case "EVENT":
			if err := parseEventFields(seq, fields[1:]); err != nil {
				logger.Printf(".seq:%d: %v", lineNo, err)
			}
		default:
			if err := parseEventFields(seq, fields); err != nil {
				logger.Printf(".seq:%d: %v", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load .seq: %w", err)
	}
	return seq, nil
}

func parseEventFields(seq *Sequence, fields []string) error {
	if len(fields) != 3 {
		return fmt.Errorf("%w: expected <tick> <id> <value>, got %d fields", common.ErrParse, len(fields))
	}
	tick, err := strconv.Atoi(fields[0])
	if err != nil || tick < 0 {
		return fmt.Errorf("%w: bad tick %q", common.ErrParse, fields[0])
	}
	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("%w: bad value %q: %v", common.ErrParse, fields[2], err)
	}
	seq.Add(common.Tick(tick), common.NeuronID(fields[1]), value)
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("bad boolean %q", s)
	}
}

// WriteSeq serializes seq back to the .seq grammar, one EVENT line per
// stored event in tick order, plus the LOOP directive.
func WriteSeq(seq *Sequence, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "LOOP %t\n", seq.Loop)
	for tick := common.Tick(0); tick <= seq.maxTick; tick++ {
		for _, e := range seq.events[tick] {
			if _, err := fmt.Fprintf(bw, "EVENT %d %s %s\n", tick, e.id, strconv.FormatFloat(e.value, 'g', -1, 64)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
