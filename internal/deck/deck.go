// Package deck loads flashcard decks from CSV files.
package deck

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/flashmash/internal/model"
)

// MaxFileSize is the largest deck file accepted.
const MaxFileSize = 5 << 20

var (
	// ErrEmptyDeck is returned when a deck has no usable cards.
	ErrEmptyDeck = errors.New("deck has no cards")
	// ErrNoHeader is returned when the CSV has no header row.
	ErrNoHeader = errors.New("deck has no header row")
	// ErrColumnNotFound is returned when a named column is missing from the header.
	ErrColumnNotFound = errors.New("column not found in header")
	// ErrDeckTooLarge is returned when a deck file exceeds MaxFileSize.
	ErrDeckTooLarge = errors.New("deck file is too large")
)

// Columns selects the prompt and answer columns by header name.
// Empty names select the first and second columns.
type Columns struct {
	Prompt string
	Answer string
}

// Load reads a deck from a CSV file with a header row.
func Load(path string, cols Columns) ([]model.Card, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrDeckTooLarge, path, info.Size(), MaxFileSize)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()
	return Parse(file, cols)
}

// Parse reads CSV records from r. Rows with an empty prompt or answer are skipped.
func Parse(r io.Reader, cols Columns) ([]model.Card, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	promptIdx, answerIdx, err := resolveColumns(header, cols)
	if err != nil {
		return nil, err
	}

	var keep FilterFunc = KeepCard
	var cards []model.Card
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if promptIdx >= len(record) || answerIdx >= len(record) {
			continue
		}
		card := model.Card{
			Prompt: strings.TrimSpace(record[promptIdx]),
			Answer: strings.TrimSpace(record[answerIdx]),
		}
		if !keep(card) {
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return cards, nil
}

func resolveColumns(header []string, cols Columns) (int, int, error) {
	if len(header) < 2 && (cols.Prompt == "" || cols.Answer == "") {
		return 0, 0, fmt.Errorf("%w: need at least 2 columns, got %d", ErrNoHeader, len(header))
	}
	promptIdx, err := columnIndex(header, cols.Prompt, 0)
	if err != nil {
		return 0, 0, err
	}
	answerIdx, err := columnIndex(header, cols.Answer, 1)
	if err != nil {
		return 0, 0, err
	}
	return promptIdx, answerIdx, nil
}

func columnIndex(header []string, name string, fallback int) (int, error) {
	if name == "" {
		return fallback, nil
	}
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (have %s)", ErrColumnNotFound, name, strings.Join(header, ", "))
}
