package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	slugInvalid = regexp.MustCompile(`[^\w\s-]`)
	slugDashes  = regexp.MustCompile(`[-\s]+`)
)

// Slugify folds s to ASCII, lowercases it and joins words with hyphens.
// Characters without an ASCII form are dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	ascii := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, folded)

	ascii = slugInvalid.ReplaceAllString(strings.ToLower(ascii), "")
	ascii = slugDashes.ReplaceAllString(strings.TrimSpace(ascii), "-")
	return strings.Trim(ascii, "-_")
}

// postSlug builds slugify(title + "-" + suffix) with a fresh random suffix.
func postSlug(title string, suffixLen int) (string, error) {
	suffix, err := randomString(suffixLen)
	if err != nil {
		return "", err
	}
	return Slugify(title + "-" + suffix), nil
}

func randomString(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate random string: %w", err)
		}
		b.WriteByte(slugAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// randomColor returns a hex colour such as #1a2b3c.
func randomColor() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<24))
	if err != nil {
		return "", fmt.Errorf("generate colour: %w", err)
	}
	return fmt.Sprintf("#%06x", n.Int64()), nil
}
