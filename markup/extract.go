// Package markup contains best-effort field extraction helpers for the
// semi-structured HTML the court portals return. The portals publish no
// schema and redesign pages without notice, so extraction is pattern-based:
// each helper tries a fixed list of structural patterns in priority order
// and returns the first match. The order is tuned against the live sources;
// pages often contain more than one candidate match and the priority order
// is what resolves the ambiguity.
package markup

import (
	"html"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// StripTags removes all markup from a fragment and returns the decoded,
// whitespace-collapsed text content
func StripTags(fragment string) string {
	tok := xhtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == xhtml.ErrorToken {
			break
		}
		if tt == xhtml.TextToken {
			b.Write(tok.Text())
			b.WriteByte(' ')
		}
	}
	return Clean(b.String())
}

// Clean decodes entities and collapses whitespace
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// ExtractField finds the value associated with a label in a markup fragment.
// Patterns are tried in priority order: table-cell label/value pairs,
// bold/strong label followed by text, definition-list label/value, then
// plain "Label: value" text. Returns "" when nothing matches; an absent
// field is not an error.
func ExtractField(fragment, label string) string {
	q := regexp.QuoteMeta(label)
	patterns := []string{
		// <td>Label</td><td>value</td>, tolerating nested inline tags
		// and a spacer cell between label and value
		`(?is)<t[dh][^>]*>(?:\s|<[^>]+>)*` + q + `(?:\s|:|<[^>]+>)*</t[dh]>\s*(?:<td[^>]*>\s*:?\s*</td>\s*)?<td[^>]*>(.*?)</td>`,
		// <b>Label</b> value  /  <strong>Label :</strong> value
		`(?is)<(?:b|strong)[^>]*>\s*` + q + `\s*:?\s*</(?:b|strong)>\s*:?\s*((?:[^<]|<br\s*/?>)+)`,
		// <dt>Label</dt><dd>value</dd>
		`(?is)<dt[^>]*>\s*` + q + `\s*:?\s*</dt>\s*<dd[^>]*>(.*?)</dd>`,
		// bare "Label: value" text
		`(?i)` + q + `\s*:\s*([^<\r\n]+)`,
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(fragment); m != nil {
			if v := StripTags(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

var (
	tableRe = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	rowRe   = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	cellRe  = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)
)

// headerCellWords marks rows that are column headers rather than data. The
// portals render header rows as plain <td>s more often than <th>s, so the
// first cell's text is the only reliable signal.
var headerCellWords = []string{"sl", "sr", "s.no", "sno", "#", "date", "judge", "business", "purpose", "cause list", "order", "hearing"}

// ExtractTableRows locates the first table following a heading that contains
// any of the given keywords and returns its data rows as cleaned cell texts.
// Rows whose first cell looks like a column header are skipped. Returns nil
// when no matching heading or table exists.
func ExtractTableRows(fragment string, headingKeywords []string) [][]string {
	section := sectionAfterHeading(fragment, headingKeywords)
	if section == "" {
		return nil
	}
	table := tableRe.FindString(section)
	if table == "" {
		return nil
	}
	var rows [][]string
	for _, rm := range rowRe.FindAllStringSubmatch(table, -1) {
		var cells []string
		for _, cm := range cellRe.FindAllStringSubmatch(rm[1], -1) {
			cells = append(cells, StripTags(cm[1]))
		}
		if len(cells) == 0 || isHeaderRow(cells[0]) {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

// sectionAfterHeading returns the fragment from the first heading matching
// any keyword to the end, so the table search starts in the right section
func sectionAfterHeading(fragment string, keywords []string) string {
	lower := strings.ToLower(fragment)
	idx := -1
	for _, kw := range keywords {
		if i := strings.Index(lower, strings.ToLower(kw)); i >= 0 && (idx == -1 || i < idx) {
			idx = i
		}
	}
	if idx == -1 {
		return ""
	}
	return fragment[idx:]
}

func isHeaderRow(firstCell string) bool {
	c := strings.ToLower(strings.TrimSpace(firstCell))
	if c == "" {
		return true
	}
	for _, w := range headerCellWords {
		if strings.HasPrefix(c, w) {
			return true
		}
	}
	return false
}
