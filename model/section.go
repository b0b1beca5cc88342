package model

// Section is one cleaned, time ordered slice of the book.
type Section struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}
