package renderer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 64rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border-bottom: 1px solid #ddd; padding: .3rem .6rem; }
td { font-variant-numeric: tabular-nums; }
img { max-width: 100%; }
</style>
</head>
<body>
{{.Body}}
{{- range .Images}}
<p><img src="{{.}}" alt="chart"></p>
{{- end}}
</body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts markdown into a standalone HTML page. Images are appended
// after the content, in order.
func HTML(title, md string, images ...string) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("cannot convert markdown: %w", err)
	}
	var buf bytes.Buffer
	err := page.Execute(&buf, struct {
		Title  string
		Body   template.HTML
		Images []string
	}{title, template.HTML(body.String()), images})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
