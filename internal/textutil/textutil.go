// Package textutil provides text processing utilities for listing feature extraction.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words splits text on runs of whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// Sentences returns the non-blank segments of text split on '.'.
func Sentences(text string) []string {
	var res []string
	for _, s := range strings.Split(text, ".") {
		if strings.TrimSpace(s) != "" {
			res = append(res, s)
		}
	}
	return res
}

// CountContained returns how many terms occur as substrings of text.
// Each term counts at most once; text is expected to be lowercased already.
func CountContained(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// ContainsAny reports whether any of terms is a substring of text.
func ContainsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// RuneLen returns the number of code points in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// MeanWordLength returns the average code point length of words, or 0.
func MeanWordLength(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	total := 0
	for _, w := range words {
		total += RuneLen(w)
	}
	return float64(total) / float64(len(words))
}

// UpperRatio returns the share of upper case code points in s.
func UpperRatio(s string) float64 {
	total, upper := 0, 0
	for _, r := range s {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

// CharDiversity returns unique lowercase code points divided by the length of s.
func CharDiversity(s string) float64 {
	total := RuneLen(s)
	if total == 0 {
		return 0
	}
	seen := make(map[rune]struct{})
	for _, r := range strings.ToLower(s) {
		seen[r] = struct{}{}
	}
	return float64(len(seen)) / float64(total)
}

// CountWordsWithDigit returns how many words contain at least one digit.
func CountWordsWithDigit(words []string) int {
	n := 0
	for _, w := range words {
		for _, r := range w {
			if unicode.IsDigit(r) {
				n++
				break
			}
		}
	}
	return n
}

// CountVowels counts ASCII vowels of either case.
func CountVowels(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			n++
		}
	}
	return n
}

// CollapseSpace trims text and joins its whitespace-separated words with
// single spaces.
func CollapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
