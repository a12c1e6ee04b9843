// Package renderer turns the portfolio history and holdings into markdown,
// terminal output, HTML pages and PNG charts.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/date"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// funcs returns the template functions formatting amounts in currency.
func funcs(currency string) template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return wealth.FormatMoney(d, currency) },
		"date":  func(d date.Date) string { return d.String() },
		"pct":   formatPercent,
		"signed": func(v any) string {
			switch p := v.(type) {
			case wealth.Percent:
				return p.SignedString()
			case *wealth.Percent:
				if p == nil {
					return "n/a"
				}
				return p.SignedString()
			default:
				return fmt.Sprint(v)
			}
		},
		"ratio": func(part, total decimal.Decimal) string {
			p, err := wealth.PercentOf(part, total)
			if err != nil {
				return "n/a"
			}
			return p.SignedString()
		},
		"portion": func(part, total decimal.Decimal) string {
			p, err := wealth.PercentOf(part, total)
			if err != nil {
				return "n/a"
			}
			return p.String()
		},
		"lower":  strings.ToLower,
		"shares": func(d decimal.Decimal) string { return d.StringFixed(4) },
	}
}

func formatPercent(p wealth.Percent) string { return p.String() }

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, currency string, data any) (string, error) {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return "", fmt.Errorf("error reading main template %q: %w", mainFile, err)
	}
	tmpl, err := template.New(templateName).Funcs(funcs(currency)).Parse(string(mainContent))
	if err != nil {
		return "", fmt.Errorf("error parsing main template %q: %w", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return "", fmt.Errorf("error reading partial template %q: %w", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return "", fmt.Errorf("error parsing partial template %q for %q: %w", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return "", fmt.Errorf("error executing template %q: %w", templateName, err)
	}
	return b.String(), nil
}
