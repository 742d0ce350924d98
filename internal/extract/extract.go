package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType is returned for file extensions the extractor cannot handle.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor converts source documents and web pages into plain text.
// Libraries used: github.com/ledongthuc/pdf (PDF) and github.com/PuerkitoBio/goquery (URL).
type Extractor struct {
	httpClient *http.Client
}

// New constructs an Extractor whose URL fetches are bounded by urlTimeout.
func New(urlTimeout time.Duration) *Extractor {
	if urlTimeout <= 0 {
		urlTimeout = 30 * time.Second
	}
	return &Extractor{
		httpClient: &http.Client{Timeout: urlTimeout},
	}
}

// File extracts plain text from a local document, dispatching by extension.
func (e *Extractor) File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract file %s: %w", path, err)
	}
	return FromBytes(data, filepath.Ext(path))
}

// FromBytes extracts plain text from an in-memory payload with the given extension.
func FromBytes(data []byte, ext string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".pdf":
		return extractPDF(data)
	case ".doc", ".docx":
		return extractDOCX(data)
	case ".pptx":
		return extractPPTX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}
}

// URL fetches a web page and returns its visible text with script/style markup
// stripped and tokens joined by single spaces. Any fetch or parse failure
// yields empty text rather than an error.
func (e *Extractor) URL(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return ""
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	raw, err := zipEntry(data, "word/document.xml")
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var paragraphs []string
	var current strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if para := strings.TrimSpace(current.String()); para != "" {
					paragraphs = append(paragraphs, para)
				}
				current.Reset()
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func extractPPTX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	slides := make(map[int]*zip.File)
	var order []int
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		num, ok := slideNumber(name)
		if !ok {
			continue
		}
		if _, seen := slides[num]; !seen {
			order = append(order, num)
		}
		slides[num] = f
	}
	if len(order) == 0 {
		return "", errors.New("no slides found")
	}
	sort.Ints(order)

	var buf strings.Builder
	for _, num := range order {
		rc, err := slides[num].Open()
		if err != nil {
			return "", err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		if err := appendSlideText(&buf, raw); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// appendSlideText collects text runs in shape order, terminating each shape
// paragraph with a newline.
func appendSlideText(buf *strings.Builder, raw []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
}

func slideNumber(name string) (int, bool) {
	const prefix = "ppt/slides/slide"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".xml") {
		return 0, false
	}
	numStr := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".xml")
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return 0, false
	}
	return num, true
}

func zipEntry(data []byte, entryName string) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty document data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s not found", entryName)
}
