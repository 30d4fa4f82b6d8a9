package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/bozoyan/asrtools/internal/asrdata"
)

// Mode decides how a translation is written back into a segment.
type Mode int

const (
	// ModeReplace swaps the text for its translation.
	ModeReplace Mode = iota
	// ModeBilingual keeps the original text and puts the translation on the
	// line below it, the layout JSON export splits into its two fields. Each
	// side is flattened to one line first.
	ModeBilingual
)

// ItemsFromTrack numbers segments by their 0-based position.
func ItemsFromTrack(track *asrdata.Track) []TranslationItem {
	items := make([]TranslationItem, track.Len())
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: track.At(i).Text}
	}
	return items
}

// Apply writes results into track. Every result index must name a segment,
// otherwise nothing is written.
func Apply(track *asrdata.Track, results []TranslationResult, mode Mode) error {
	for _, r := range results {
		if r.Index < 0 || r.Index >= track.Len() {
			return fmt.Errorf("%w: translation result %d", asrdata.ErrIndexOutOfRange, r.Index)
		}
	}

	for _, r := range results {
		text := r.Text
		if mode == ModeBilingual {
			text = singleLine(track.At(r.Index).Text) + "\n" + singleLine(r.Text)
		}
		if err := track.SetText(r.Index, text); err != nil {
			return fmt.Errorf("failed to set text for entry %d: %w", r.Index, err)
		}
	}
	return nil
}

// singleLine joins the non-empty lines of s with a space, so a bilingual
// segment holds exactly one newline.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}

// Track translates every segment of track in place. The track is left
// unchanged when translation fails.
func Track(ctx context.Context, tr Translator, track *asrdata.Track, mode Mode) error {
	if !track.HasData() {
		return fmt.Errorf("subtitle track contains no segments")
	}

	results, err := tr.Translate(ctx, ItemsFromTrack(track))
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	return Apply(track, results, mode)
}
