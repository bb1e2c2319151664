package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	paragraphSentences = 3
	paragraphMaxChars  = 300
)

// Sentences splits text after '.', '!' or '?' followed by white space.
// Blank sentences are dropped.
func Sentences(text string) []string {
	var (
		out   []string
		start = 0
	)
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		end := i + utf8.RuneLen(r)
		next, size := utf8.DecodeRuneInString(text[end:])
		if size == 0 || !unicode.IsSpace(next) {
			continue
		}
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, text[start:end])
		}
		start = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, text[start:])
	}
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

// Paragraphs groups the sentences of text: a paragraph closes after every third
// sentence, once it is longer than 300 characters, or at the last sentence.
func Paragraphs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var (
		sentences  = Sentences(text)
		paragraphs []string
		current    string
	)
	for index, sentence := range sentences {
		if current != "" {
			current += " "
		}
		current += sentence

		shouldBreak := (index+1)%paragraphSentences == 0 ||
			utf8.RuneCountInString(current) > paragraphMaxChars ||
			index == len(sentences)-1
		if shouldBreak {
			if p := strings.TrimSpace(current); p != "" {
				paragraphs = append(paragraphs, p)
			}
			current = ""
		}
	}
	return paragraphs
}

// ExtractText joins blocks of text with a single space.
func ExtractText(blocks []string) string {
	return strings.TrimSpace(strings.Join(blocks, " "))
}
