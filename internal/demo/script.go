package demo

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"quietquadrant/internal/fx"
)

// Script replays a recording: one JSON array of events per line, one line
// per tick. Blank lines are empty ticks. Playback loops.
type Script struct {
	ticks [][]fx.Event
}

func ParseScript(r io.Reader) (*Script, error) {
	s := &Script{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			s.ticks = append(s.ticks, nil)
			continue
		}
		var batch []fx.Event
		if err := json.Unmarshal([]byte(text), &batch); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.ticks = append(s.ticks, batch)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(s.ticks) == 0 {
		return nil, errors.New("empty script")
	}
	return s, nil
}

func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	s, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Len is the number of ticks before playback loops.
func (s *Script) Len() int { return len(s.ticks) }

func (s *Script) Next(tick int) []fx.Event {
	if tick < 0 {
		tick = -tick
	}
	return s.ticks[tick%len(s.ticks)]
}
