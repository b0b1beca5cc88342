package pipeline

import (
	"context"
	"testing"

	"github.com/siherrmann/storygraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEntityType(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"B-PER", model.LabelPerson},
		{"I-PER", model.LabelPerson},
		{"PER", model.LabelPerson},
		{"B-LOC", "LOC"},
		{"ORG", "ORG"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeEntityType(tt.label))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	t.Run("Splits on sentence punctuation", func(t *testing.T) {
		sentences := SplitSentences("Harry met Sally. Did they talk? Yes! They did.")

		assert.Equal(t, []string{"Harry met Sally.", "Did they talk?", "Yes!", "They did."}, sentences)
	})

	t.Run("Empty text", func(t *testing.T) {
		assert.Empty(t, SplitSentences("   "))
	})

	t.Run("Line breaks do not split", func(t *testing.T) {
		assert.Equal(t, []string{"Harry met Sally"}, SplitSentences("Harry met\nSally"))
	})
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Then I saw Sally, she waved.")

	require.Len(t, tokens, 6)
	assert.Equal(t, model.Token{Text: "I", Tag: "PRP"}, tokens[1])
	assert.Equal(t, model.Token{Text: "Sally", Tag: ""}, tokens[3])

	sentence := model.Sentence{Tokens: tokens}
	assert.True(t, sentence.HasFirstPerson())
}

func TestNERAnnotator(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping NERAnnotator test in short mode (requires model download)")
	}

	annotator, err := NERAnnotator()
	require.NoError(t, err)

	t.Run("Finds people per sentence", func(t *testing.T) {
		annotation, err := annotator(context.Background(), "Harry Potter met Hermione Granger in London. They talked.")

		require.NoError(t, err)
		require.Len(t, annotation.Sentences, 2)
		assert.NotEmpty(t, annotation.Sentences[0].People())
		assert.Empty(t, annotation.Sentences[1].People())
	})

	t.Run("Empty text", func(t *testing.T) {
		annotation, err := annotator(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, annotation.Sentences)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := annotator(ctx, "Harry met Sally.")

		assert.ErrorIs(t, err, context.Canceled)
	})
}
