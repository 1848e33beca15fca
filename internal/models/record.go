package models

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lk16/flippy/reversi/internal/othello"
)

const (
	recordSizeTag   = "Size"
	recordResultTag = "Result"

	// recordMovesPerLine is the number of move pairs written on one line.
	recordMovesPerLine = 8
)

var recordTagRegex = regexp.MustCompile(`^\[(\w+) "(.*)"\]$`)

// Record is a PGN style game transcript: tag pairs followed by numbered moves
// in field notation. A missing Size tag means an 8x8 board.
type Record struct {
	Tags  map[string]string
	Moves MoveList
}

// NewRecord creates the transcript of a game. The Size and Result tags are
// filled in from the game and override tags with the same name.
func NewRecord(game *othello.Game, tags map[string]string) *Record {
	record := &Record{
		Tags:  make(map[string]string, len(tags)+2),
		Moves: MoveList(game.Moves()),
	}

	for key, value := range tags {
		record.Tags[key] = value
	}

	record.Tags[recordSizeTag] = strconv.Itoa(game.Board().Size())

	if outcome, ok := game.Outcome(); ok {
		record.Tags[recordResultTag] = fmt.Sprintf("%d-%d", outcome.Black, outcome.White)
	} else {
		record.Tags[recordResultTag] = "*"
	}

	return record
}

// ReadRecord reads a transcript from a file.
func ReadRecord(file string) (*Record, error) {
	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	record, err := ParseRecord(string(contents))
	if err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", file, err)
	}

	return record, nil
}

// ParseRecord parses a transcript. Move numbers and the result marker are skipped.
func ParseRecord(content string) (*Record, error) {
	record := &Record{Tags: make(map[string]string)}

	lines := strings.Split(content, "\n")
	lineOffset := len(lines)

	// Parse tags
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			lineOffset = i
			break
		}

		matches := recordTagRegex.FindStringSubmatch(line)
		if len(matches) != 3 {
			return nil, fmt.Errorf("could not parse tag: %s", line)
		}

		record.Tags[matches[1]] = matches[2]
	}

	// Parse moves
	for _, line := range lines[lineOffset:] {
		for _, word := range strings.Fields(line) {
			if word == "*" || word[0] >= '0' && word[0] <= '9' {
				continue
			}

			move, err := othello.ParseMove(word)
			if err != nil {
				return nil, fmt.Errorf("failed to parse move %s: %w", word, err)
			}

			record.Moves = append(record.Moves, move)
		}
	}

	return record, nil
}

// Size returns the board size of the recorded game.
func (r *Record) Size() (int, error) {
	value, ok := r.Tags[recordSizeTag]
	if !ok {
		return 8, nil
	}

	size, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid size tag %q: %w", value, err)
	}

	return size, othello.ValidateSize(size)
}

// Game replays the recorded moves.
func (r *Record) Game() (*othello.Game, error) {
	size, err := r.Size()
	if err != nil {
		return nil, err
	}

	return othello.NewGameFromMoves(othello.GameConfig{Size: size}, r.Moves)
}

// String formats the record. Tags are sorted by name.
func (r *Record) String() string {
	var sb strings.Builder

	keys := make([]string, 0, len(r.Tags))
	for key := range r.Tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(&sb, "[%s %q]\n", key, r.Tags[key])
	}

	sb.WriteString("\n")

	fields := r.Moves.Fields()
	for i := 0; i < len(fields); i += 2 {
		if i > 0 {
			if i%(2*recordMovesPerLine) == 0 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}

		fmt.Fprintf(&sb, "%d. %s", i/2+1, fields[i])
		if i+1 < len(fields) {
			sb.WriteString(" " + fields[i+1])
		}
	}

	if result, ok := r.Tags[recordResultTag]; ok && result == "*" {
		sb.WriteString(" *")
	}

	sb.WriteString("\n")
	return sb.String()
}
