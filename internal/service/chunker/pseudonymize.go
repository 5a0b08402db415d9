package chunker

import "regexp"

var piiPatterns = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), "[EMAIL]"},
	{regexp.MustCompile(`\b[A-Z]{2}\d{2}(?:\s?[A-Z0-9]{4}){3,7}(?:\s?[A-Z0-9]{1,3})?\b`), "[IBAN]"},
	{regexp.MustCompile(`(?:\+\d{1,3}[\s-]?|\b0)\(?\d{2,5}\)?[\s/.-]?\d{3,4}(?:[\s.-]?\d{2,4})?\b`), "[PHONE]"},
	{regexp.MustCompile(`\b(?:Herr|Frau|Mr\.|Mrs\.|Ms\.)\s+(?:Dr\.\s+)?[A-ZÄÖÜ][a-zäöüß]+(?:-[A-ZÄÖÜ][a-zäöüß]+)?`), "[NAME]"},
}

// Pseudonymize replaces email addresses, IBANs, phone numbers and addressed
// person names with placeholders.
func Pseudonymize(text string) string {
	for _, p := range piiPatterns {
		text = p.re.ReplaceAllString(text, p.repl)
	}
	return text
}
