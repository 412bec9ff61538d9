package routes

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnPadding separates table columns.
const columnPadding = 4

var paramPattern = regexp.MustCompile(`:\w+`)

type printRow struct {
	file    string
	url     string
	example string
	params  string
}

// PrintManifest writes a table of the manifest's routes to w:
//
//	ROUTE                          URL                  EXAMPLE          PARAMS
//	------------------------------------------------------------------------------
//	shop/routes/products.$id.tsx   /shop/products/:id   /shop/products/a { id: 'a' }
//
// URL is the full pattern including ancestors. EXAMPLE replaces each
// parameter with a letter token; a parameter name keeps its letter across
// the table.
func PrintManifest(w io.Writer, m *Manifest) error {
	letters := newLetterSequence()
	tokens := make(map[string]string)

	rows := make([]printRow, 0, m.Len())
	for _, r := range m.Routes() {
		full := m.FullPath(r.ID)

		var params []string
		seen := make(map[string]bool)
		example := paramPattern.ReplaceAllStringFunc(full, func(param string) string {
			token, ok := tokens[param]
			if !ok {
				token = letters.next()
				tokens[param] = token
			}
			if !seen[param] {
				seen[param] = true
				params = append(params, fmt.Sprintf("%s: '%s'", param[1:], token))
			}
			return token
		})

		row := printRow{file: r.File, url: "/" + full, example: "/" + example}
		if len(params) > 0 {
			row.params = "{ " + strings.Join(params, ", ") + " }"
		}
		rows = append(rows, row)
	}

	fileWidth, urlWidth, exampleWidth := len("ROUTE"), len("URL"), len("EXAMPLE")
	for _, row := range rows {
		fileWidth = max(fileWidth, len(row.file))
		urlWidth = max(urlWidth, len(row.url))
		exampleWidth = max(exampleWidth, len(row.example))
	}
	fileWidth += columnPadding
	urlWidth += columnPadding
	exampleWidth += columnPadding

	lines := make([]string, len(rows))
	longest := 0
	for i, row := range rows {
		lines[i] = strings.TrimRight(fmt.Sprintf("%-*s %-*s %-*s %s",
			fileWidth, row.file, urlWidth, row.url, exampleWidth, row.example, row.params), " ")
		longest = max(longest, len(lines[i]))
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %s", fileWidth, "ROUTE", urlWidth, "URL", exampleWidth, "EXAMPLE", "PARAMS")
	longest = max(longest, len(header))

	renderer := lipgloss.NewRenderer(w)
	headerStyle := renderer.NewStyle().Bold(true)
	ruleStyle := renderer.NewStyle().Faint(true)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(header))
	sb.WriteByte('\n')
	sb.WriteString(ruleStyle.Render(strings.Repeat("-", longest)))
	sb.WriteByte('\n')
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// letterSequence yields a, b, ..., z, aa, ba, ..., za, ab, ...: the first
// letter cycles, the second counts completed cycles.
type letterSequence struct {
	count int
}

func newLetterSequence() *letterSequence {
	return &letterSequence{}
}

func (s *letterSequence) next() string {
	quotient, remainder := s.count/26, s.count%26
	s.count++

	token := string(rune('a' + remainder))
	if quotient > 0 {
		token += string(rune('a' + quotient - 1))
	}
	return token
}
