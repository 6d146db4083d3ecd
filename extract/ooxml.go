package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DOCX and PPTX are OOXML containers: zip archives of XML parts. Document
// text lives in <w:t> runs (word/document.xml) and slide text in <a:t> runs
// (ppt/slides/slideN.xml). Scanning those runs with a token decoder is all
// the extraction the analyzer needs.

// extractDOCX reads paragraph text from a .docx file.
func extractDOCX(path string, limits Limits) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, entry := range archive.File {
		if entry.Name != "word/document.xml" {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", fmt.Errorf("open document part: %w", err)
		}
		defer rc.Close()
		return collectRunText(rc, limits.MaxTextLength)
	}

	return "", fmt.Errorf("no document part in docx")
}

// extractPPTX reads slide text from a .pptx file, slides in order.
func extractPPTX(path string, limits Limits) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open pptx: %w", err)
	}
	defer archive.Close()

	var slides []*zip.File
	for _, entry := range archive.File {
		if strings.HasPrefix(entry.Name, "ppt/slides/slide") && strings.HasSuffix(entry.Name, ".xml") {
			slides = append(slides, entry)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var sb strings.Builder
	for _, slide := range slides {
		rc, err := slide.Open()
		if err != nil {
			continue
		}
		text, err := collectRunText(rc, limits.MaxTextLength-sb.Len())
		rc.Close()
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")

		if sb.Len() >= limits.MaxTextLength {
			break
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no slide text in pptx")
	}
	return sb.String(), nil
}

// collectRunText gathers character data inside <t> run elements, inserting a
// newline at each paragraph boundary, until max characters are collected.
func collectRunText(r io.Reader, max int) (string, error) {
	if max <= 0 {
		return "", nil
	}

	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inRun := 0

	for sb.Len() < max {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun++
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inRun--
			}
			if t.Name.Local == "p" && sb.Len() > 0 {
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inRun > 0 {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
