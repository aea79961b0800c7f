// Package corpus loads benchmark documents and query suites from disk.
package corpus

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Section is one addressable unit of a document. Ground-truth judgments
// reference (document, section) pairs, so section numbering must be stable
// across runs: sections are numbered in file order starting at 0.
type Section struct {
	ID   int
	Text string
}

// Document is a named corpus file split into sections.
type Document struct {
	Name     string
	Path     string
	Sections []Section
}

// Discover walks root and returns the corpus file paths, honoring the
// allowed-extension list and exclude globs.
func Discover(root string, allowed []string, exclude []string) ([]string, error) {
	var files []string
	allowedMap := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		allowedMap[strings.ToLower(ext)] = struct{}{}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldExclude(path, exclude) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldExclude(path, exclude) {
			return nil
		}
		if len(allowedMap) > 0 {
			ext := strings.ToLower(filepath.Ext(path))
			if _, ok := allowedMap[ext]; !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus %s: %w", root, err)
	}

	return files, nil
}

// LoadDocument reads one corpus file and splits it into sections. Markdown
// files split on headings; everything else is a single section. PDF files
// are reduced to their plain text first.
func LoadDocument(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var text string
	switch ext {
	case ".pdf":
		extracted, err := extractPDFText(path)
		if err != nil {
			return Document{}, fmt.Errorf("extract pdf text %s: %w", path, err)
		}
		text = extracted
	default:
		raw, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("read corpus file %s: %w", path, err)
		}
		text = string(raw)
	}

	doc := Document{
		Name: filepath.Base(path),
		Path: path,
	}

	var blocks []string
	if ext == ".md" || ext == ".markdown" {
		blocks = splitMarkdownSections(text)
	} else if t := strings.TrimSpace(text); t != "" {
		blocks = []string{t}
	}

	for i, block := range blocks {
		doc.Sections = append(doc.Sections, Section{ID: i, Text: block})
	}
	return doc, nil
}

// LoadAll discovers and loads every corpus document under root. Empty files
// are skipped rather than producing zero-section documents.
func LoadAll(root string, allowed []string, exclude []string) ([]Document, error) {
	paths, err := Discover(root, allowed, exclude)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no corpus files found under %s", root)
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, err
		}
		if len(doc.Sections) == 0 {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// splitMarkdownSections splits markdown text at heading lines. Content before
// the first heading becomes its own section; each heading starts a new one.
func splitMarkdownSections(text string) []string {
	var sections []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sections = append(sections, s)
		}
		current.Reset()
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			flush()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}
	flush()

	return sections
}

func extractPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shouldExclude(path string, patterns []string) bool {
	normalized := filepath.ToSlash(path)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		pattern = filepath.ToSlash(pattern)
		if strings.Contains(pattern, "**") {
			trimmed := strings.ReplaceAll(pattern, "**", "")
			if trimmed != "" && strings.Contains(normalized, trimmed) {
				return true
			}
		}
		if ok, _ := filepath.Match(pattern, normalized); ok {
			return true
		}
	}
	return false
}
