package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// Variable names bound by the summarization and question-answering templates.
const (
	VarPageData = "page_data"
	VarContext  = "context"
	VarQuestion = "question"
)

// Template names.
const (
	NameSummary = "summary"
	NameQA      = "qa"
)

const summaryText = `
Analyze and summarize the following content in 50 to 100 words:

{{.page_data}}
`

const qaText = `
Given the following context:

{{.context}}

Answer the following question based only on the provided context:
{{.question}}
`

// Template is a named prompt with variables. Rendering fails on any
// variable the caller did not supply.
type Template struct {
	name string
	tmpl *template.Template
}

// New parses text into a Template.
func New(name, text string) (*Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %q: %w", name, err)
	}
	return &Template{name: name, tmpl: t}, nil
}

// Summary returns the summarization template (binds page_data).
func Summary() (*Template, error) {
	return New(NameSummary, summaryText)
}

// QA returns the question-answering template (binds context and question).
func QA() (*Template, error) {
	return New(NameQA, qaText)
}

func (t *Template) Name() string {
	return t.name
}

// Render substitutes vars into the template.
func (t *Template) Render(vars map[string]string) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("render prompt %q: %w", t.name, err)
	}
	return b.String(), nil
}
