package content

import (
	"fmt"
	"math"
	"time"
	"unicode"
)

// DefaultWordsPerMinute is the reading speed used when none is configured.
const DefaultWordsPerMinute = 200

// EstimateReadingTime counts words in text and converts them to minutes.
// Each CJK character counts as a word; other words are separated by
// whitespace or punctuation.
func EstimateReadingTime(text string, wpm int) ReadingTime {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	words := countWords(text)
	minutes := float64(words) / float64(wpm)
	rounded := math.Round(minutes*100) / 100
	display := int(math.Ceil(rounded))
	return ReadingTime{
		Text:    fmt.Sprintf("%d min read", display),
		Minutes: minutes,
		Time:    time.Duration(minutes * float64(time.Minute)),
		Words:   words,
	}
}

func countWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			words++
			inWord = false
		case unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '\'' && r != '-'):
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
