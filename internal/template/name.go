// Package template renders the names of suites created by the reconciler.
//
// Name templates are Go text/template strings with the sprig function set.
// They see the work item id as .ID and its trimmed title as .Title:
//
//	Feature {{ .ID }}: {{ .Title | trunc 80 }}
package template

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const (
	// DefaultFeatureSuiteName names the static suite of a feature.
	DefaultFeatureSuiteName = "Feature {{ .ID }}: {{ .Title }}"
	// DefaultRequirementSuiteName names the requirement suite of a story.
	DefaultRequirementSuiteName = "{{ .ID }}: {{ .Title }}"
)

// Data is the value a name template is executed with.
type Data struct {
	ID    int
	Title string
}

// Name is a parsed suite name template.
type Name struct {
	text string
	tmpl *template.Template
}

// Parse parses text as the template called name and checks that it renders
// a non-empty name for sample data.
func Parse(name, text string) (*Name, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
	}

	n := &Name{text: text, tmpl: tmpl}
	if _, err := n.Render(1, "Sample"); err != nil {
		return nil, err
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
func MustParse(name, text string) *Name {
	n, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return n
}

// Render executes the template for a work item. Surrounding whitespace is
// trimmed from both the title and the result.
func (n *Name) Render(id int, title string) (string, error) {
	var b strings.Builder
	if err := n.tmpl.Execute(&b, Data{ID: id, Title: strings.TrimSpace(title)}); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", n.tmpl.Name(), err)
	}

	rendered := strings.TrimSpace(b.String())
	if rendered == "" {
		return "", fmt.Errorf("%s template rendered an empty name", n.tmpl.Name())
	}
	return rendered, nil
}

// String returns the template text.
func (n *Name) String() string {
	return n.text
}
