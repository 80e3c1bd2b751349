package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

const maxSlugProbes = 1000

// Slugify turns free text into [a-z0-9-]: diacritics stripped, runs of other
// characters collapsed to one "-", ends trimmed, cut to maxLen (default 100),
// "item" when nothing is left.
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))

	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = strings.Trim(string(rs[:maxLen]), "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// UniqueSlug tries base, base-1, base-2, ... against table.column and
// returns the first free value. scopeFn may narrow the lookup (for example to
// exclude the row being renamed). Run it on the transaction that will insert
// the row so the unique index settles any remaining race.
func UniqueSlug(
	ctx context.Context,
	db *gorm.DB,
	table string,
	column string,
	base string,
	scopeFn func(*gorm.DB) *gorm.DB,
) (string, error) {
	candidate := base
	for i := 1; i <= maxSlugProbes; i++ {
		q := db.WithContext(ctx).Table(table).Where(fmt.Sprintf("%s = ?", column), candidate)
		if scopeFn != nil {
			q = scopeFn(q)
		}

		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugProbes)
}
