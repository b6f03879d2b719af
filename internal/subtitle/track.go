package subtitle

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mgpai22/subalign/internal/domain"
)

var ErrEntryNotFound = errors.New("subtitle entry not found")

// Track is the in-memory subtitle document. Entries keep insertion order and
// are addressed by id, so edits never depend on positions.
type Track struct {
	ID       string
	FileName string
	Format   Format

	order []string
	byID  map[string]*Entry
}

// NewTrack builds a track from entries. Missing ids are generated; duplicate
// ids or invalid timings are rejected.
func NewTrack(fileName string, format Format, entries []Entry) (*Track, error) {
	if format != FormatSRT && format != FormatVTT {
		return nil, domain.NewValidationError("format", fmt.Sprintf("unsupported format %q", format))
	}

	t := &Track{
		ID:       uuid.NewString(),
		FileName: fileName,
		Format:   format,
		order:    make([]string, 0, len(entries)),
		byID:     make(map[string]*Entry, len(entries)),
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, exists := t.byID[e.ID]; exists {
			return nil, domain.NewValidationError("entry id", fmt.Sprintf("duplicate id %q", e.ID))
		}
		if err := validateTiming(e.StartTime, e.EndTime); err != nil {
			return nil, err
		}
		entry := e
		t.byID[entry.ID] = &entry
		t.order = append(t.order, entry.ID)
	}
	return t, nil
}

func (t *Track) Len() int {
	return len(t.order)
}

// Entries returns a copy of the entries in track order.
func (t *Track) Entries() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}

func (t *Track) Entry(id string) (Entry, bool) {
	e, ok := t.byID[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Add appends a new entry. Empty text becomes DefaultEntryText.
func (t *Track) Add(start, end float64, text string) (Entry, error) {
	return t.insertAt(len(t.order), start, end, text)
}

// InsertAfter places a new entry right after the entry with the given id.
func (t *Track) InsertAfter(afterID string, start, end float64, text string) (Entry, error) {
	pos := t.indexOf(afterID)
	if pos < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, afterID)
	}
	return t.insertAt(pos+1, start, end, text)
}

func (t *Track) insertAt(pos int, start, end float64, text string) (Entry, error) {
	if err := validateTiming(start, end); err != nil {
		return Entry{}, err
	}
	text = normalizeText(text)
	if text == "" {
		text = DefaultEntryText
	}
	entry := &Entry{
		ID:        uuid.NewString(),
		StartTime: RoundMillis(start),
		EndTime:   RoundMillis(end),
		Text:      text,
	}
	t.byID[entry.ID] = entry
	t.order = append(t.order, "")
	copy(t.order[pos+1:], t.order[pos:])
	t.order[pos] = entry.ID
	return *entry, nil
}

// SetText replaces an entry's text. Last write wins. Blank text becomes
// DefaultEntryText so the cue still has a text line on export.
func (t *Track) SetText(id, text string) error {
	e, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	text = normalizeText(text)
	if text == "" {
		text = DefaultEntryText
	}
	e.Text = text
	return nil
}

// SetTiming replaces an entry's start and end.
func (t *Track) SetTiming(id string, start, end float64) error {
	e, ok := t.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	if err := validateTiming(start, end); err != nil {
		return err
	}
	e.StartTime = RoundMillis(start)
	e.EndTime = RoundMillis(end)
	return nil
}

func (t *Track) Delete(id string) error {
	pos := t.indexOf(id)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	delete(t.byID, id)
	t.order = append(t.order[:pos], t.order[pos+1:]...)
	return nil
}

// Shift moves every entry by offset seconds, clamping at zero.
func (t *Track) Shift(offset float64) {
	for _, id := range t.order {
		e := t.byID[id]
		e.StartTime = RoundMillis(math.Max(0, e.StartTime+offset))
		e.EndTime = RoundMillis(math.Max(0, e.EndTime+offset))
	}
}

// SortByTime reorders entries by start then end time. Export never sorts on
// its own.
func (t *Track) SortByTime() {
	sort.SliceStable(t.order, func(i, j int) bool {
		a, b := t.byID[t.order[i]], t.byID[t.order[j]]
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EndTime < b.EndTime
	})
}

// time span covered by the entries
func (t *Track) Bounds() (float64, float64) {
	if len(t.order) == 0 {
		return 0, 0
	}
	first, last := math.Inf(1), 0.0
	for _, id := range t.order {
		e := t.byID[id]
		first = math.Min(first, e.StartTime)
		last = math.Max(last, e.EndTime)
	}
	return first, last
}

// Export serializes the track in its own format.
func (t *Track) Export() (string, error) {
	return t.ExportAs(t.Format)
}

func (t *Track) ExportAs(format Format) (string, error) {
	return Serialize(t.Entries(), format)
}

func (t *Track) indexOf(id string) int {
	for i, existing := range t.order {
		if existing == id {
			return i
		}
	}
	return -1
}

func validateTiming(start, end float64) error {
	if math.IsNaN(start) || math.IsNaN(end) {
		return domain.NewValidationError("timing", "not a number")
	}
	if start < 0 || end < 0 {
		return domain.NewValidationError("timing", "times must not be negative")
	}
	if end < start {
		return domain.NewValidationError(
			"timing",
			fmt.Sprintf("end %.3f is before start %.3f", end, start),
		)
	}
	return nil
}

// trims lines and drops blank ones; a blank line inside a cue would split it on re-parse
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
