package service

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	minPasswordLength        = 8
	maxPasswordSimilarity    = 0.7
	maxSimilarityInputLength = 1000
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

var commonPasswords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	return set
}()

var nonWord = regexp.MustCompile(`\W+`)

// validatePassword returns every rule the password breaks. An empty result
// means the password is acceptable.
func validatePassword(password, username, email string) []string {
	var problems []string

	if msg := checkAttributeSimilarity(password, map[string]string{
		"username":      username,
		"email address": email,
	}); msg != "" {
		problems = append(problems, msg)
	}

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", minPasswordLength))
	}

	if _, common := commonPasswords[strings.ToLower(strings.TrimSpace(password))]; common {
		problems = append(problems, "This password is too common.")
	}

	if isNumeric(password) {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

func checkAttributeSimilarity(password string, attrs map[string]string) string {
	if len(password) > maxSimilarityInputLength {
		return ""
	}
	pw := strings.ToLower(password)

	// Fixed order so the reported attribute is deterministic.
	for _, name := range []string{"username", "email address"} {
		value := attrs[name]
		if value == "" || len(value) > maxSimilarityInputLength {
			continue
		}
		value = strings.ToLower(value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" {
				continue
			}
			if similarity(pw, part) >= maxPasswordSimilarity {
				return fmt.Sprintf("The password is too similar to the %s.", name)
			}
		}
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarity is the Ratcliff/Obershelp ratio 2*M/T, where M is the number of
// characters in matching blocks and T the combined length.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingChars(ra, rb)) / float64(total)
}

func matchingChars(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	i, j, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingChars(a[:i], b[:j]) + matchingChars(a[i+size:], b[j+size:])
}

func longestCommonBlock(a, b []rune) (int, int, int) {
	bestI, bestJ, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
					bestI, bestJ = i-cur[j], j-cur[j]
				}
			}
		}
		prev = cur
	}
	return bestI, bestJ, best
}
