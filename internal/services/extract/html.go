package extract

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// htmlToMarkdown converts a chapter to markdown, falling back to the bare
// text content when conversion fails or yields nothing
func (s *Service) htmlToMarkdown(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	converted, err := md.NewConverter("", true, nil).ConvertString(html)
	if err == nil && strings.TrimSpace(converted) != "" {
		return converted
	}
	if err != nil {
		s.logger.Warn().Err(err).Msg("HTML to markdown conversion failed, using text fallback")
	}
	return plainText(html)
}

func plainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style").Remove()
	return normalizeText(doc.Text())
}
