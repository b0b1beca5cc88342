package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook(t *testing.T) {
	t.Run("Keeps given title", func(t *testing.T) {
		book := NewBook("great_expectations", "Pip met Joe.")
		assert.Equal(t, "great_expectations", book.Title)
		assert.Equal(t, "Pip met Joe.", book.Text)
	})

	t.Run("Blank title falls back to default", func(t *testing.T) {
		book := NewBook("   ", "Pip met Joe.")
		assert.Equal(t, DefaultTitle, book.Title)
	})
}

func TestNewBookFromFile(t *testing.T) {
	t.Run("Successfully reads file and creates book", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "emma.txt")
		content := "Emma Woodhouse, handsome, clever, and rich."
		err := os.WriteFile(filePath, []byte(content), 0644)
		require.NoError(t, err)

		book, err := NewBookFromFile(filePath, "")

		require.NoError(t, err)
		assert.Equal(t, "emma", book.Title, "Title should be filename without extension")
		assert.Equal(t, filePath, book.Source, "Source should be file path")
		assert.Equal(t, content, book.Text, "Text should match file content")
	})

	t.Run("Explicit title wins over filename", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "emma.txt")
		err := os.WriteFile(filePath, []byte("Emma."), 0644)
		require.NoError(t, err)

		book, err := NewBookFromFile(filePath, "Emma by Jane Austen")

		require.NoError(t, err)
		assert.Equal(t, "Emma by Jane Austen", book.Title)
	})

	t.Run("Handles file without extension", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "README")
		err := os.WriteFile(filePath, []byte("Readme content"), 0644)
		require.NoError(t, err)

		book, err := NewBookFromFile(filePath, "")

		require.NoError(t, err)
		assert.Equal(t, "README", book.Title)
	})

	t.Run("Returns error for non-existent file", func(t *testing.T) {
		book, err := NewBookFromFile("/non/existent/file.txt", "")

		require.Error(t, err)
		assert.Nil(t, book)
	})
}
