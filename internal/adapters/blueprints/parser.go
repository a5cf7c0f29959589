package blueprints

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/andrescamacho/geode-planner/internal/domain/production"
	"github.com/andrescamacho/geode-planner/internal/domain/shared"
)

// fieldsPerLine is the number of integers in one blueprint sentence:
// id, ore unit ore, clay unit ore, obsidian unit ore and clay, geode unit ore and obsidian.
const fieldsPerLine = 7

var numberPattern = regexp.MustCompile(`\d+`)

// ParseLine converts one blueprint sentence into a validated Blueprint.
// Only the integers matter; the surrounding words are not checked.
func ParseLine(line string) (*production.Blueprint, error) {
	return parseLine(0, line)
}

// ParseBlueprints reads one blueprint per non-blank line. The first bad line
// aborts the whole read.
func ParseBlueprints(r io.Reader) ([]*production.Blueprint, error) {
	var result []*production.Blueprint
	seen := make(map[int]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		bp, err := parseLine(lineNo, line)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[bp.ID()]; dup {
			return nil, shared.NewParseError(lineNo, line, fmt.Sprintf("blueprint %d already defined on line %d", bp.ID(), prev))
		}
		seen[bp.ID()] = lineNo
		result = append(result, bp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blueprints: %w", err)
	}

	return result, nil
}

func parseLine(lineNo int, line string) (*production.Blueprint, error) {
	tokens := numberPattern.FindAllString(line, -1)
	if len(tokens) != fieldsPerLine {
		return nil, shared.NewParseError(lineNo, line, fmt.Sprintf("expected %d integers, found %d", fieldsPerLine, len(tokens)))
	}

	var values [fieldsPerLine]int
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, shared.NewParseError(lineNo, line, fmt.Sprintf("invalid number %q: %v", tok, err))
		}
		values[i] = v
	}

	bp, err := production.NewBlueprint(values[0], values[1], values[2], values[3], values[4], values[5], values[6])
	if err != nil {
		var verr *shared.ValidationError
		if errors.As(err, &verr) && lineNo > 0 {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		return nil, err
	}
	return bp, nil
}
