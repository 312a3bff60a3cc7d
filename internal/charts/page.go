package charts

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>gitrhythm — {{.Title}}</title>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; }
.chart { margin-bottom: 2.5em; }
</style>
</head>
<body>
<h1>gitrhythm — {{.Title}}</h1>
{{range $i, $spec := .Specs}}<div id="chart{{$i}}" class="chart"></div>
{{end}}
<script>
{{range $i, $spec := .Specs}}vegaEmbed("#chart{{$i}}", {{$spec}});
{{end}}
</script>
</body>
</html>
`))

// WritePage renders the chart specs into a standalone HTML page.
func WritePage(w io.Writer, title string, specs []Spec) error {
	encoded := make([]template.JS, 0, len(specs))
	for _, spec := range specs {
		data, err := json.Marshal(spec)
		if err != nil {
			return fmt.Errorf("marshal chart spec: %w", err)
		}
		encoded = append(encoded, template.JS(data))
	}

	return pageTemplate.Execute(w, struct {
		Title string
		Specs []template.JS
	}{Title: title, Specs: encoded})
}
