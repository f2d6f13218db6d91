package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the scheduling input pattern. Malformed input is
// rejected and re-prompted here; the workflow core only ever sees a parsed
// value.
const TimestampLayout = "2006-01-02 15:04"

// Prompter reads structured values from the console, re-prompting until the
// input parses. Read errors (closed stdin) surface as errors.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

func (p *Prompter) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) String(label string) (string, error) {
	return p.line(label)
}

func (p *Prompter) Int(label string) (int64, error) {
	for {
		input, err := p.line(label)
		if err != nil {
			return 0, err
		}
		value, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			fmt.Fprintln(p.out, "Enter a valid integer.")
			continue
		}
		return value, nil
	}
}

func (p *Prompter) OptionalInt(label string) (*int64, error) {
	for {
		input, err := p.line(label)
		if err != nil {
			return nil, err
		}
		if input == "" {
			return nil, nil
		}
		value, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			fmt.Fprintln(p.out, "Enter a valid integer or leave blank.")
			continue
		}
		return &value, nil
	}
}

func (p *Prompter) Timestamp(label string) (time.Time, error) {
	for {
		input, err := p.line(label)
		if err != nil {
			return time.Time{}, err
		}
		parsed, err := time.ParseInLocation(TimestampLayout, input, time.Local)
		if err != nil {
			fmt.Fprintf(p.out, "Use format %s (e.g., 2024-05-31 09:30).\n", TimestampLayout)
			continue
		}
		return parsed, nil
	}
}

// YesNo returns true for a "y" answer, false for anything else, matching the
// commit prompt contract: only an explicit yes confirms.
func (p *Prompter) YesNo(label string) (bool, error) {
	input, err := p.line(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(input, "y"), nil
}
