package ensek

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var reSpaces = regexp.MustCompile(`\s+`)

// SummarizeHTMLError condenses an html error document (the remote test
// API serves full ASP.NET error pages on some failures) into one line
// usable in check diagnostics.
func SummarizeHTMLError(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	parts := make([]string, 0, 2)
	if title := compact(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, title)
	}
	if heading := compact(doc.Find("h1").First().Text()); heading != "" && !contains(parts, heading) {
		parts = append(parts, heading)
	}
	if len(parts) == 0 {
		body := compact(doc.Find("body").Text())
		if len(body) > 160 {
			body = body[:160]
		}
		if body != "" {
			parts = append(parts, body)
		}
	}

	return strings.Join(parts, ": ")
}

func compact(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

func contains(values []string, probe string) bool {
	for _, v := range values {
		if v == probe {
			return true
		}
	}
	return false
}
