package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// TextExtractor turns raw file bytes into plain text based on the file's
// extension. Unrecognized extensions fail with ErrUnsupportedFormat before any
// parsing work is done.
type TextExtractor interface {
	Extract(data []byte, filename string) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

func (e *textExtractor) Extract(data []byte, filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "txt":
		return string(data), nil
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDocx(data)
	case "pptx":
		return extractPptx(data)
	case "doc", "ppt":
		// Legacy binary Office formats have no workable pure-Go parser; the
		// document ends up in failed status with this message.
		return "", fmt.Errorf("legacy .%s files cannot be parsed, convert to .%sx and re-upload", ext, ext)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf content")
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", fmt.Errorf("pdf has no pages")
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("Row extraction failed for pdf page, skipping")
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
				sb.WriteString(" ")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return text, nil
}

// extractDocx reads word/document.xml out of the OOXML archive and collects
// character data, inserting paragraph breaks at </w:p>.
func extractDocx(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to read docx document body: %w", err)
		}
		defer rc.Close()
		return collectXMLText(rc, "p")
	}
	return "", fmt.Errorf("docx archive has no document body")
}

// extractPptx concatenates the text of all ppt/slides/slideN.xml entries in
// slide order.
func extractPptx(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pptx archive: %w", err)
	}

	var slides []*zip.File
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("pptx archive has no slides")
	}
	sort.Slice(slides, func(i, j int) bool {
		ni, nj := slideNumber(slides[i].Name), slideNumber(slides[j].Name)
		if ni != nj {
			return ni < nj
		}
		return slides[i].Name < slides[j].Name
	})

	var sb strings.Builder
	for _, f := range slides {
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to read slide %s: %w", f.Name, err)
		}
		text, err := collectXMLText(rc, "p")
		rc.Close()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// slideNumber parses the numeric suffix out of a ppt/slides/slideN.xml entry
// name so slides sort numerically rather than lexicographically (slide2 before
// slide10).
func slideNumber(name string) int {
	name = strings.TrimSuffix(name, ".xml")
	idx := strings.LastIndex(name, "slide")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(name[idx+len("slide"):])
	if err != nil {
		return 0
	}
	return n
}

// collectXMLText walks an XML stream and concatenates all character data,
// emitting a paragraph break whenever an element with the given local name
// closes.
func collectXMLText(r io.Reader, paragraphTag string) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == paragraphTag {
				sb.WriteString("\n\n")
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
