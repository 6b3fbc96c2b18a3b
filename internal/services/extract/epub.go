package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const epubContainer = "META-INF/container.xml"

// extractEPUB follows container.xml to the package document and converts
// the spine chapters in reading order
func (s *Service) extractEPUB(ctx context.Context, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open epub: %w", err)
	}

	container, err := readZipEntry(archive, epubContainer)
	if err != nil {
		return "", err
	}
	containerDoc, err := goquery.NewDocumentFromReader(bytes.NewReader(container))
	if err != nil {
		return "", fmt.Errorf("parse container: %w", err)
	}
	opfPath := containerDoc.Find("rootfile").First().AttrOr("full-path", "")
	if opfPath == "" {
		return "", fmt.Errorf("container has no rootfile")
	}

	opf, err := readZipEntry(archive, opfPath)
	if err != nil {
		return "", err
	}
	chapters, err := spineChapters(opf, path.Dir(opfPath))
	if err != nil {
		return "", err
	}

	var parts []string
	for _, chapter := range chapters {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, err := readZipEntry(archive, chapter)
		if err != nil {
			s.logger.Debug().Err(err).Str("chapter", chapter).Msg("Skipping missing EPUB chapter")
			continue
		}
		if text := strings.TrimSpace(s.htmlToMarkdown(string(body))); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// spineChapters resolves spine itemrefs to archive paths
func spineChapters(opf []byte, base string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(opf))
	if err != nil {
		return nil, fmt.Errorf("parse package document: %w", err)
	}

	manifest := make(map[string]string)
	doc.Find("manifest item").Each(func(_ int, item *goquery.Selection) {
		id, _ := item.Attr("id")
		href, _ := item.Attr("href")
		if id != "" && href != "" {
			manifest[id] = href
		}
	})

	var chapters []string
	doc.Find("spine itemref").Each(func(_ int, ref *goquery.Selection) {
		href, ok := manifest[ref.AttrOr("idref", "")]
		if !ok {
			return
		}
		if base != "." {
			href = path.Join(base, href)
		}
		chapters = append(chapters, href)
	})
	if len(chapters) == 0 {
		return nil, fmt.Errorf("package document has an empty spine")
	}
	return chapters, nil
}

func readZipEntry(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
