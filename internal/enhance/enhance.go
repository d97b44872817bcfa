package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNoCredential is returned by a Completer that has nothing to authenticate
// with. The Enhancer treats it as "enhancement disabled", not as a failure.
var ErrNoCredential = errors.New("enhance: no api credential configured")

// Completer sends one prompt to a language model and returns its text answer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Enhancer struct {
	completer Completer
	log       *zap.Logger
}

// New returns an Enhancer. A nil completer disables enhancement.
func New(c Completer, log *zap.Logger) *Enhancer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enhancer{completer: c, log: log}
}

func BuildPrompt(description string) string {
	return fmt.Sprintf(`Convert the following book description into a concise search query for a book catalog.
The query must be 3 to 8 words and capture the genre, themes, setting and style.
Respond with the search query only: no quotes, no explanation.

Description:
%s`, description)
}

// Enhance rewrites description into a short keyword query. On any failure it
// returns description unchanged.
func (e *Enhancer) Enhance(ctx context.Context, description string) string {
	if e == nil || e.completer == nil {
		return description
	}

	text, err := e.completer.Complete(ctx, BuildPrompt(description))
	if errors.Is(err, ErrNoCredential) {
		e.log.Warn("query enhancement skipped: ANTHROPIC_API_KEY not set")
		return description
	}
	if err != nil {
		e.log.Error("query enhancement failed", zap.Error(err))
		return description
	}

	q := cleanQuery(text)
	if q == "" {
		e.log.Warn("query enhancement returned empty text")
		return description
	}
	e.log.Debug("query enhanced", zap.String("query", q))
	return q
}

// cleanQuery trims whitespace and one pair of wrapping quotes.
func cleanQuery(s string) string {
	s = strings.TrimSpace(s)
	for _, pair := range [][2]string{{`"`, `"`}, {"'", "'"}, {"“", "”"}} {
		if len(s) >= len(pair[0])+len(pair[1]) && strings.HasPrefix(s, pair[0]) && strings.HasSuffix(s, pair[1]) {
			s = strings.TrimSpace(s[len(pair[0]) : len(s)-len(pair[1])])
			break
		}
	}
	return s
}
