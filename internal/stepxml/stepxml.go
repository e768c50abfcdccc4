package stepxml

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"qemcp/internal/api"
	"qemcp/pkg/logging"
)

// Values are stored with isformatted="true", so each one is an HTML
// fragment that is XML-escaped into the document. Plain text goes through
// both layers: "<username>" is stored as "&amp;lt;username&amp;gt;".
var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)

	xmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)

	stepsPattern = regexp.MustCompile(`(?is)<steps\b[^>]*>(.*)</steps>`)
	stepPattern  = regexp.MustCompile(`(?is)<step\b[^>]*>(.*?)</step>`)
	valuePattern = regexp.MustCompile(`(?is)<parameterizedString\b[^>]*?(?:/>|>(.*?)</parameterizedString>)`)

	// Only '<' followed by a letter or '/' starts a tag; "a < b" survives.
	htmlTagPattern = regexp.MustCompile(`</?[A-Za-z][^>]*>`)
)

// Serialize renders steps as a step-XML document. Steps are ordered by
// StepNumber (stable for equal numbers) and renumbered 1..N in the output.
func Serialize(steps []api.TestStep) string {
	ordered := make([]api.TestStep, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StepNumber < ordered[j].StepNumber
	})

	var b strings.Builder
	fmt.Fprintf(&b, `<steps id="0" last="%d">`, len(ordered))
	for i, step := range ordered {
		fmt.Fprintf(&b, `<step id="%d" type="ActionStep">`, i+1)
		b.WriteString(`<parameterizedString isformatted="true">`)
		b.WriteString(encodeValue(step.Action))
		b.WriteString(`</parameterizedString>`)
		b.WriteString(`<parameterizedString isformatted="true">`)
		b.WriteString(encodeValue(step.ExpectedResult))
		b.WriteString(`</parameterizedString>`)
		b.WriteString(`<description/>`)
		b.WriteString(`</step>`)
	}
	b.WriteString(`</steps>`)
	return b.String()
}

// Parse extracts the steps of a step-XML document, numbered 1..N in document
// order. Blank or unrecognizable input yields an empty, non-nil slice.
func Parse(doc string) []api.TestStep {
	steps := []api.TestStep{}
	if strings.TrimSpace(doc) == "" {
		return steps
	}

	m := stepsPattern.FindStringSubmatch(doc)
	if m == nil {
		logging.Debug("StepXML", "No <steps> element found in %d byte document", len(doc))
		return steps
	}

	for _, sm := range stepPattern.FindAllStringSubmatch(m[1], -1) {
		values := valuePattern.FindAllStringSubmatch(sm[1], 2)

		var action, expected string
		if len(values) > 0 {
			action = decodeValue(values[0][1])
		}
		if len(values) > 1 {
			expected = decodeValue(values[1][1])
		}

		steps = append(steps, api.TestStep{
			StepNumber:     len(steps) + 1,
			Action:         action,
			ExpectedResult: expected,
		})
	}

	if len(steps) == 0 {
		logging.Debug("StepXML", "Steps document contained no <step> elements")
	}
	return steps
}

func encodeValue(text string) string {
	return xmlEscaper.Replace(htmlEscaper.Replace(text))
}

// decodeValue turns a stored value back into plain text: the XML layer is
// unescaped, HTML tags are stripped and the HTML entities left in the text
// (&lt;, &#39;, &nbsp;) are decoded. Each unescape is a single pass, so
// "&amp;lt;" only ever becomes "&lt;" and then "<". Whitespace is kept.
func decodeValue(raw string) string {
	fragment := html.UnescapeString(raw)
	text := htmlTagPattern.ReplaceAllString(fragment, "")
	return html.UnescapeString(text)
}
