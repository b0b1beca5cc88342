package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/siherrmann/storygraph/model"
)

// DefaultSegmenter creates a segmenter splitting by chapter pattern if one is
// given and into numSections paragraph groups otherwise.
func DefaultSegmenter(numSections int, chapterPattern *regexp.Regexp, dropBlank bool) SegmentFunc {
	return func(text string) ([]model.Section, error) {
		var pieces []string
		var err error
		if chapterPattern != nil {
			pieces, err = SplitChapters(text, chapterPattern)
		} else {
			pieces, err = SplitParagraphs(text, numSections)
		}
		if err != nil {
			return nil, err
		}

		sections := make([]model.Section, 0, len(pieces))
		for _, piece := range pieces {
			cleaned := CleanSection(piece)
			if dropBlank && strings.TrimSpace(cleaned) == "" {
				continue
			}
			sections = append(sections, model.Section{
				Index: len(sections),
				Text:  cleaned,
			})
		}

		return sections, nil
	}
}

// SplitChapters splits text on every match of the chapter pattern.
// Front matter before the first match is discarded.
func SplitChapters(text string, chapterPattern *regexp.Regexp) ([]string, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}

	pieces := chapterPattern.Split(text, -1)
	return pieces[1:], nil
}

// SplitParagraphs splits text on line breaks and joins the paragraphs back into
// min(numSections, paragraphs) groups. Group sizes differ by at most one, the
// earlier groups get the extra paragraph.
func SplitParagraphs(text string, numSections int) ([]string, error) {
	if numSections <= 0 {
		return nil, fmt.Errorf("number of sections must be positive")
	}
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}

	paragraphs := strings.Split(text, "\n")
	n := min(numSections, len(paragraphs))
	k, m := len(paragraphs)/numSections, len(paragraphs)%numSections

	groups := make([]string, 0, n)
	for i := 0; i < n; i++ {
		start := i*k + min(i, m)
		end := (i+1)*k + min(i+1, m)
		groups = append(groups, strings.Join(paragraphs[start:end], "\n"))
	}

	return groups, nil
}

// CleanSection strips trailing whitespace and turns the section into a single line.
func CleanSection(section string) string {
	section = strings.TrimRightFunc(section, unicode.IsSpace)
	section = strings.ReplaceAll(section, "\n", " ")
	section = strings.ReplaceAll(section, "\r", " ")
	return section
}
