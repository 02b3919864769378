// Package cleaning strips Facebook feed chrome from scraped post text so the
// remainder can be stored as a listing description.
package cleaning

import (
	"regexp"
	"strings"
)

var invisibleReplacer = strings.NewReplacer(
	"\u200f", "", // right-to-left mark
	"\u200e", "",
	"\ufeff", "",
	"\u00a0", " ",
)

// headerPatterns mark the end of the feed header. Everything up to the latest
// match is dropped.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`משותף עם: קבוצה ציבורית`),
	// "2 ימים ·", "5 שעות" on the author line.
	regexp.MustCompile(`(?m)(?:^|·)[ \t]*\d+[ \t]*(?:ימים|יום|שעות|שעה|דקות|דקה|שניות|שניה)[ \t]*(?:·|$)`),
}

// footerPatterns are checked in order; the first one that matches wins.
var footerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)\+\d[\d,\.₪ ]* · .*?TA.*?דירה עם.*?חדרי אמבטיה`),
	regexp.MustCompile(`(?s)תל אביב.*?TA.*?דירה עם.*?חדרי אמבטיה`),
	regexp.MustCompile(`הודעה\s*לייק\s*תגובה\s*שיתוף`),
	regexp.MustCompile(`לייק\s*תגובה\s*שיתוף`),
	regexp.MustCompile(`(?i)like\s*comment\s*share`),
	regexp.MustCompile(`(?s)כתיבת תגובה ציבורית.*$`),
	regexp.MustCompile(`(?s)כל הרגשות:.*$`),
}

// trailerPattern removes call-to-action boilerplate through the end of the text.
var trailerPattern = regexp.MustCompile(`(?is)(?:` + strings.Join([]string{
	`הצג תרגום`,
	`see translation`,
	`שליחת הודעה למוכר`,
	`send seller a message`,
	`שליחת הודעה`,
	`send message`,
	`הצטרפות לקבוצה`,
	`join group`,
}, "|") + `).*$`)

const leadingSeparators = " \t\r\n·•-–—|"
const trailingSeparators = " \t\r\n·•-–—|,;:"

// Clean returns the description-ready part of a raw post.
// It is total and idempotent: Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	s := raw
	for {
		next := cleanPass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// cleanPass never lengthens its input, so Clean reaches a fixed point.
func cleanPass(s string) string {
	s = strings.TrimSpace(invisibleReplacer.Replace(s))

	start := 0
	for _, p := range headerPatterns {
		locs := p.FindAllStringIndex(s, -1)
		if len(locs) > 0 && locs[len(locs)-1][1] > start {
			start = locs[len(locs)-1][1]
		}
	}
	s = strings.TrimLeft(s[start:], leadingSeparators)

	for _, p := range footerPatterns {
		if loc := p.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
			break
		}
	}

	s = trailerPattern.ReplaceAllString(s, "")
	s = dedupeLines(s)
	return strings.TrimRight(s, trailingSeparators)
}

// dedupeLines collapses whitespace, drops blank lines and keeps only the first
// occurrence of each line.
func dedupeLines(s string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
