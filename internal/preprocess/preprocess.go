package preprocess

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	analyzer = govader.NewSentimentIntensityAnalyzer()

	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// StripLinks drops URLs from content, keeping the anchor text of
// markdown-style links.
func StripLinks(input string) string {
	input = markdownLink.ReplaceAllString(input, "$1")
	return bareURL.ReplaceAllString(input, "")
}

// Flatten renders markdown to text and collapses whitespace, so pasted
// rich content scores the same as its plain-text equivalent.
func Flatten(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := strings.Join(strings.Fields(string(rendered)), " ")
	return StripLinks(plain)
}

// Baseline computes a local VADER sentiment score and coarse label for
// content. It is evidence stored alongside the provider analysis, not a
// substitute for it.
func Baseline(content string) (float64, string) {
	score := analyzer.PolarityScores(Flatten(content)).Compound

	label := "neutral"
	switch {
	case score >= 0.20:
		label = "positive"
	case score <= -0.20:
		label = "negative"
	}

	return score, label
}
