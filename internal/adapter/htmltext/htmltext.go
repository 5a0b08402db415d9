// Package htmltext reduces HTML from feeds and law pages to readable
// markdown text.
package htmltext

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
	trailingSpaceRe  = regexp.MustCompile(`[ \t]+\n`)
)

// Elements that never carry article content.
var boilerplate = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "object", "embed", "form", "button",
}

// Converter turns HTML into markdown.
type Converter struct {
	md *md.Converter
}

// New creates a Converter.
func New() *Converter {
	conv := md.NewConverter("", true, nil)
	conv.Use(plugin.GitHubFlavored())
	conv.Remove(boilerplate...)
	return &Converter{md: conv}
}

// Fragment converts an HTML snippet, such as a feed item description. Plain
// text passes through with whitespace tidied.
func (c *Converter) Fragment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return clean(s)
	}
	out, err := c.md.ConvertString(s)
	if err != nil {
		return clean(s)
	}
	return clean(out)
}

// Article extracts the main content of a full page and returns its title
// and markdown body.
func (c *Converter) Article(page []byte) (title, text string, err error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", "", err
	}

	title = findTitle(doc)

	root := findMain(doc)
	if root == nil {
		root = findElement(doc, "body")
	}
	if root == nil {
		root = doc
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", "", err
	}

	out, err := c.md.ConvertString(buf.String())
	if err != nil {
		return "", "", err
	}
	return title, clean(out), nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = excessiveLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func findTitle(doc *html.Node) string {
	if n := findElement(doc, "title"); n != nil && n.FirstChild != nil {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	if n := findElement(doc, "h1"); n != nil {
		return strings.TrimSpace(textOf(n))
	}
	return ""
}

// findMain returns the first main, article or role=main element.
func findMain(doc *html.Node) *html.Node {
	if n := findElement(doc, "main"); n != nil {
		return n
	}
	if n := findElement(doc, "article"); n != nil {
		return n
	}
	return findFirst(doc, func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Key == "role" && a.Val == "main" {
				return true
			}
		}
		return false
	})
}

func findElement(doc *html.Node, tag string) *html.Node {
	return findFirst(doc, func(n *html.Node) bool { return n.Data == tag })
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
