package recommendations

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"books.xdoubleu.com/pkg/backend"
)

type Recommendation struct {
	Rank   int
	BookID *int64
	Title  string
	Author string
	Reason string
}

//nolint:gochecknoglobals //compiled once
var (
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markupRe     = regexp.MustCompile("[*_~`>#-]")
	blankLinesRe = regexp.MustCompile(`\n{2,}`)
	itemRe       = regexp.MustCompile(`^\s*(?:(\d+)[.)]|[-*•])\s+(.+)$`)
	catalogIDRe  = regexp.MustCompile(`^(\d+)\s*:\s*(.+)$`)
	labelRe      = regexp.MustCompile(`(?i)^(?:reason|why|because)\s*:\s*`)
)

// separators between "Title by Author" and the reason, checked in order of
// position, the earliest one wins.
//
//nolint:gochecknoglobals //fixed set
var separators = []string{": ", " - ", " – ", " — ", ", "}

// Clean turns recommendation markdown into plain text for display.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = linkRe.ReplaceAllString(text, "$1")
	text = markupRe.ReplaceAllString(text, "")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// Parse extracts "Title by Author: reason" items from free form text.
// It is best effort: lines that do not look like an item are ignored, or
// attached to the reason of the item above them.
func Parse(text string) []Recommendation {
	recs := []Recommendation{}

	var current *Recommendation
	blank := false

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank = true
			continue
		}

		if rec, ok := parseItem(trimmed, len(recs)+1); ok {
			recs = append(recs, rec)
			current = &recs[len(recs)-1]
			blank = false
			continue
		}

		if current == nil || (blank && current.Reason != "") {
			current = nil
			continue
		}

		current.Reason = joinReason(current.Reason, stripMarkup(trimmed))
		blank = false
	}

	return recs
}

func parseItem(line string, position int) (Recommendation, bool) {
	//nolint:exhaustruct //other fields are optional
	rec := Recommendation{Rank: position}

	body := line
	matches := itemRe.FindStringSubmatch(line)
	switch {
	case matches != nil:
		body = matches[2]
		if matches[1] != "" {
			rec.Rank, _ = strconv.Atoi(matches[1])
		}
	case !catalogIDRe.MatchString(line) || !strings.Contains(line, " by "):
		return rec, false
	}

	body = stripMarkup(body)

	if idMatches := catalogIDRe.FindStringSubmatch(body); idMatches != nil {
		id, err := strconv.ParseInt(idMatches[1], 10, 64)
		if err == nil {
			rec.BookID = &id
			body = idMatches[2]
		}
	}

	head, reason := splitReason(body)

	if i := strings.LastIndex(head, " by "); i >= 0 {
		rec.Title = head[:i]
		rec.Author = head[i+len(" by "):]
	} else {
		rec.Title = head
	}

	rec.Title = trimTitle(rec.Title)
	rec.Author = strings.TrimRightFunc(trimTitle(rec.Author), unicode.IsPunct)
	rec.Reason = labelRe.ReplaceAllString(strings.TrimSpace(reason), "")

	if rec.Title == "" {
		return rec, false
	}

	return rec, true
}

func splitReason(body string) (string, string) {
	from := strings.Index(body, " by ")
	if from < 0 {
		from = 0
	} else {
		from += len(" by ")
	}

	cut, sepLen := -1, 0
	for _, sep := range separators {
		i := strings.Index(body[from:], sep)
		if i >= 0 && (cut < 0 || from+i < cut) {
			cut, sepLen = from+i, len(sep)
		}
	}

	if cut < 0 {
		return body, ""
	}

	return body[:cut], body[cut+sepLen:]
}

func stripMarkup(text string) string {
	text = linkRe.ReplaceAllString(text, "$1")
	text = strings.NewReplacer("**", "", "__", "", "`", "").Replace(text)
	text = strings.TrimLeft(text, "-*• ")

	return strings.TrimSpace(text)
}

func trimTitle(text string) string {
	return strings.Trim(strings.TrimSpace(text), "\"'“”‘’*_ ")
}

func joinReason(reason string, line string) string {
	line = labelRe.ReplaceAllString(line, "")
	if reason == "" {
		return line
	}

	return reason + " " + line
}

// Match links recommendations to catalog books with the same title,
// ignoring case and punctuation. Recommendations that already carry a
// catalog id that exists in books are left alone.
func Match(recs []Recommendation, books []backend.Book) []Recommendation {
	byTitle := map[string]int64{}
	known := map[int64]bool{}

	for _, book := range books {
		if book.ID == nil {
			continue
		}

		known[*book.ID] = true
		if _, ok := byTitle[normalize(book.Title)]; !ok {
			byTitle[normalize(book.Title)] = *book.ID
		}
	}

	matched := make([]Recommendation, len(recs))
	copy(matched, recs)

	for i := range matched {
		if matched[i].BookID != nil && known[*matched[i].BookID] {
			continue
		}

		matched[i].BookID = nil
		if id, ok := byTitle[normalize(matched[i].Title)]; ok {
			matched[i].BookID = &id
		}
	}

	return matched
}

func normalize(title string) string {
	var sb strings.Builder

	space := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			space = false
		case unicode.IsSpace(r) && !space && sb.Len() > 0:
			sb.WriteRune(' ')
			space = true
		}
	}

	return strings.TrimSpace(sb.String())
}
