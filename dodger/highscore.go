package dodger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/mindlab"
	"github.com/rivo/uniseg"
)

// MaxNameLength bounds a high score name in user-perceived characters.
const MaxNameLength = 20

// NormalizeName trims and collapses whitespace and cuts the name to
// MaxNameLength grapheme clusters, so emoji and combining marks are never
// split.
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	var b strings.Builder
	g := uniseg.NewGraphemes(name)
	for n := 0; n < MaxNameLength && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	return strings.TrimSpace(b.String())
}

// SaveHighScore persists score under name when it beats current. It reports
// the record now in effect and whether it changed.
func SaveHighScore(ctx context.Context, store mindlab.HighScoreStore, current mindlab.HighScore, score int, name string, now time.Time) (mindlab.HighScore, bool, error) {
	if !current.Beats(score) {
		return current, false, nil
	}
	h := mindlab.HighScore{Score: score, Name: NormalizeName(name), Date: now.UTC()}
	if err := h.Validate(); err != nil {
		return current, false, err
	}
	if err := store.Save(ctx, h); err != nil {
		return current, false, fmt.Errorf("save high score: %w", err)
	}
	return h, true, nil
}
