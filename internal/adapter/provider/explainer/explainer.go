// Package explainer generates short plain-language explanations of a law
// change for alert emails. The generator is a black box: any failure leaves
// the alert without an explanation.
package explainer

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

const (
	maxPromptDescription = 4000
	maxExplanationRunes  = 800
)

const systemPrompt = `Du bist ein juristischer Assistent für Verbraucher und kleine Unternehmen.
Erkläre Gesetzesänderungen sachlich, ohne Rechtsberatung zu geben.`

// buildPrompt creates the user prompt for one law change.
func buildPrompt(law domain.LawChange) string {
	desc := law.Description
	if utf8.RuneCountInString(desc) > maxPromptDescription {
		desc = string([]rune(desc)[:maxPromptDescription])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Titel: %s\n", law.Title)
	if law.Area != "" {
		fmt.Fprintf(&b, "Rechtsgebiet: %s\n", law.Area)
	}
	if !law.PublishedAt.IsZero() {
		fmt.Fprintf(&b, "Veröffentlicht: %s\n", law.PublishedAt.Format(time.DateOnly))
	}
	if desc != "" {
		fmt.Fprintf(&b, "\nBeschreibung:\n%s\n", desc)
	}
	b.WriteString("\nFasse in höchstens drei Sätzen zusammen, was sich ändert und welche Verträge typischerweise betroffen sind. Antworte nur mit dem Text.")
	return b.String()
}

// clean trims model output and bounds its length.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxExplanationRunes {
		s = strings.TrimSpace(string([]rune(s)[:maxExplanationRunes])) + "…"
	}
	return s
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
