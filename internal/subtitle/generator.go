package subtitle

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Generator turns raw provider segments into readable cues
type Generator struct {
	MaxCharsPerLine int
	MaxLinesPerSub  int
	MaxDuration     float64
}

func NewGenerator() *Generator {
	return &Generator{
		MaxCharsPerLine: 42, // Standard subtitle line length
		MaxLinesPerSub:  2,  // Most players support 2 lines
		MaxDuration:     7,
	}
}

// converts transcription segments to entries, splitting long ones
func (g *Generator) Generate(segments []Segment) []Entry {
	entries := make([]Entry, 0, len(segments))
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		seg.Text = text
		if seg.End < seg.Start {
			seg.End = seg.Start
		}

		if g.needsSplit(text, seg.End-seg.Start) {
			entries = append(entries, g.splitSegment(seg)...)
			continue
		}
		entries = append(entries, Entry{
			ID:        uuid.NewString(),
			StartTime: RoundMillis(seg.Start),
			EndTime:   RoundMillis(seg.End),
			Text:      g.formatText(text),
		})
	}
	return entries
}

func (g *Generator) needsSplit(text string, duration float64) bool {
	if utf8.RuneCountInString(text) > g.MaxCharsPerLine*g.MaxLinesPerSub {
		return true
	}
	return g.MaxDuration > 0 && duration > g.MaxDuration
}

// splits long segment into multiple entries of equal duration
func (g *Generator) splitSegment(seg Segment) []Entry {
	words := strings.Fields(seg.Text)
	if len(words) == 0 {
		return nil
	}

	maxChars := g.MaxCharsPerLine * g.MaxLinesPerSub
	numSplits := (utf8.RuneCountInString(seg.Text) + maxChars - 1) / maxChars
	total := seg.End - seg.Start
	if g.MaxDuration > 0 {
		if byDuration := int(total/g.MaxDuration) + 1; byDuration > numSplits {
			numSplits = byDuration
		}
	}
	if numSplits > len(words) {
		numSplits = len(words)
	}
	if numSplits < 1 {
		numSplits = 1
	}

	step := total / float64(numSplits)

	entries := make([]Entry, 0, numSplits)
	start := seg.Start
	for i := 0; i < numSplits; i++ {
		// spread words so every split gets at least one
		lo := i * len(words) / numSplits
		hi := (i + 1) * len(words) / numSplits

		end := seg.Start + step*float64(i+1)
		if i == numSplits-1 {
			end = seg.End
		}
		entries = append(entries, Entry{
			ID:        uuid.NewString(),
			StartTime: RoundMillis(start),
			EndTime:   RoundMillis(end),
			Text:      g.formatText(strings.Join(words[lo:hi], " ")),
		})
		start = end
	}
	return entries
}

// wraps text onto two lines at the word boundary closest to the middle
func (g *Generator) formatText(text string) string {
	runeCount := utf8.RuneCountInString(text)
	if runeCount <= g.MaxCharsPerLine {
		return text
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return text
	}

	middle := runeCount / 2
	bestSplit := 0
	bestDiff := runeCount
	currentLen := 0
	for i, word := range words[:len(words)-1] {
		currentLen += utf8.RuneCountInString(word)
		if i > 0 {
			currentLen++ // space
		}
		diff := currentLen - middle
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			bestSplit = i + 1
		}
	}

	if bestSplit == 0 {
		return text
	}
	return strings.Join(words[:bestSplit], " ") + "\n" + strings.Join(words[bestSplit:], " ")
}
