package browser

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// DOM helpers shared by the site adapters. Scraping treats every missing
// node as an empty value; whether a field is mandatory is decided later,
// during normalization.

// Text returns the trimmed text of the locator, or "" when it matches
// nothing.
func Text(l playwright.Locator) string {
	count, err := l.Count()
	if err != nil || count == 0 {
		return ""
	}
	text, err := l.TextContent()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// Texts collects the non-empty trimmed texts of a locator list.
func Texts(items []playwright.Locator) []string {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		text, err := item.TextContent()
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// Attr returns an attribute value, or "" when the locator matches nothing.
func Attr(l playwright.Locator, name string) string {
	count, err := l.Count()
	if err != nil || count == 0 {
		return ""
	}
	value, err := l.GetAttribute(name)
	if err != nil {
		return ""
	}
	return value
}

// EvalString evaluates a JS expression against the element and returns its
// string result, or "" on any failure.
func EvalString(l playwright.Locator, expression string) string {
	value, err := l.Evaluate(expression, nil)
	if err != nil {
		return ""
	}
	s, _ := value.(string)
	return s
}
