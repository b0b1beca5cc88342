package model

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultTitle is used for books without a title.
const DefaultTitle = "Untitled"

// Book is the raw input of a run.
type Book struct {
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
	Text   string `json:"text"`
}

// NewBook creates a book, falling back to DefaultTitle for a blank title.
func NewBook(title string, text string) *Book {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	return &Book{
		Title: title,
		Text:  text,
	}
}

// NewBookFromFile reads a file and creates a Book with the file content.
// The title defaults to the filename, and source to the file path.
func NewBookFromFile(filePath string, title string) (*Book, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		// Get filename without extension for default title
		filename := filepath.Base(filePath)
		title = filename[:len(filename)-len(filepath.Ext(filename))]
		if title == "" {
			title = filename
		}
	}

	book := NewBook(title, string(content))
	book.Source = filePath
	return book, nil
}
