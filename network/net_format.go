package network

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

// LoadNetFile opens path and parses it as a .net file (spec §6). A missing
// file is fatal (common.ErrMissingFile); malformed individual lines are
// logged to logger (or log.Default() if nil) and skipped.
func LoadNetFile(path string, logger *log.Logger) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load .net %s: %w: %v", path, common.ErrMissingFile, err)
	}
	defer f.Close()
	return ReadNet(f, logger)
}

// ReadNet parses the .net grammar from r: blank/# comment lines, NEURON,
// CONNECTION, and DEFAULT directives.
func ReadNet(r io.Reader, logger *log.Logger) (*Network, error) {
	if logger == nil {
		logger = log.Default()
	}
	net := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "NEURON":
			if err := parseNeuronLine(net, fields); err != nil {
				logger.Printf(".net:%d: %v", lineNo, err)
			}
		case "CONNECTION":
			if err := parseConnectionLine(net, fields); err != nil {
				logger.Printf(".net:%d: %v", lineNo, err)
			}
		case "DEFAULT":
			if len(fields) != 2 {
				logger.Printf(".net:%d: %v: DEFAULT requires exactly one id", lineNo, common.ErrParse)
				continue
			}
			net.DefaultOutputID = common.NeuronID(fields[1])
		default:
			logger.Printf(".net:%d: %v: unrecognized directive %q", lineNo, common.ErrParse, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("load .net: %w", err)
	}
	return net, nil
}

func parseNeuronLine(net *Network, fields []string) error {
	if len(fields) < 5 || len(fields) > 6 {
		return fmt.Errorf("%w: NEURON wants 4-5 args, got %d", common.ErrParse, len(fields)-1)
	}
	id := common.NeuronID(fields[1])
	threshold, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return fmt.Errorf("%w: bad threshold %q: %v", common.ErrParse, fields[2], err)
	}
	leak, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return fmt.Errorf("%w: bad leak %q: %v", common.ErrParse, fields[3], err)
	}
	var resting float64
	if len(fields) >= 5 {
		resting, err = strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return fmt.Errorf("%w: bad resting %q: %v", common.ErrParse, fields[4], err)
		}
	}
	refractory := 0
	if len(fields) == 6 {
		refractory, err = strconv.Atoi(fields[5])
		if err != nil {
			return fmt.Errorf("%w: bad refractory %q: %v", common.ErrParse, fields[5], err)
		}
	}

	if existing := net.Neuron(id); existing != nil {
		existing.Threshold = common.Threshold(threshold)
		existing.Leak = common.Leak(leak)
		existing.Resting = common.Potential(resting)
		existing.Refractory = refractory
		return nil
	}
	return net.AddNeuron(NeuronSpec{
		ID:         id,
		Threshold:  common.Threshold(threshold),
		Leak:       common.Leak(leak),
		Resting:    common.Potential(resting),
		Refractory: refractory,
	})
}

func parseConnectionLine(net *Network, fields []string) error {
	if len(fields) < 4 || len(fields) > 5 {
		return fmt.Errorf("%w: CONNECTION wants 3-4 args, got %d", common.ErrParse, len(fields)-1)
	}
	from := common.NeuronID(fields[1])
	to := common.NeuronID(fields[2])
	weight, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return fmt.Errorf("%w: bad weight %q: %v", common.ErrParse, fields[3], err)
	}
	delay := 1
	if len(fields) == 5 {
		delay, err = strconv.Atoi(fields[4])
		if err != nil {
			return fmt.Errorf("%w: bad delay %q: %v", common.ErrParse, fields[4], err)
		}
	}
	return net.AddEdge(from, to, common.Weight(weight), delay)
}

// SaveNetFile writes net to path in the .net grammar, truncating/creating
// the file (0644). File handles are scoped to the call.
func SaveNetFile(net *Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save .net %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteNet(net, f); err != nil {
		return fmt.Errorf("save .net %s: %w", path, err)
	}
	return nil
}

// WriteNet serializes net to w in the .net grammar. Round-tripping
// (ReadNet(WriteNet(net))) preserves every neuron's parameters and every
// edge's weight (spec §8 invariant 5).
func WriteNet(net *Network, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, id := range net.order {
		n := net.Neuron(id)
		if _, err := fmt.Fprintf(bw, "NEURON %s %s %s %s %d\n",
			id, formatFloat(float64(n.Threshold)), formatFloat(float64(n.Leak)),
			formatFloat(float64(n.Resting)), n.Refractory); err != nil {
			return err
		}
	}
	if net.DefaultOutputID != "" {
		if _, err := fmt.Fprintf(bw, "DEFAULT %s\n", net.DefaultOutputID); err != nil {
			return err
		}
	}
	w2 := net.GetWeights()
	for i := range w2.From {
		from, to := w2.From[i], w2.To[i]
		delay := net.Neuron(from).Edges[to].Delay
		if _, err := fmt.Fprintf(bw, "CONNECTION %s %s %s %d\n",
			from, to, formatFloat(float64(w2.Weights[i])), delay); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// formatFloat trims trailing zeros while always accepting any standard
// float lexeme on read (spec §6).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
