package report

import (
	"bytes"
	"fmt"
	"io"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const mdTemplate = `# {{.Title}}

Sampling frequency: {{printf "%g" .SamplingFrequency}} Hz
Test duration: {{printf "%.2f" .TestDurationHours}} h

## Final band

| Quantity | Value | Error |
|----------|-------|-------|
| Central frequency [GHz] | {{printf "%.3f" .CentralFreq}} | {{printf "%.3f" .CentralFreqErr}} |
| Bandwidth [GHz] | {{printf "%.3f" .Bandwidth}} | {{printf "%.3f" .BandwidthErr}} |

## Detector bands
{{range $i, $run := .Runs}}
### Run {{$i}}{{with $run.PhaseSwitch}} (phase switch {{.}}){{end}}

| Detector | Central frequency [GHz] | Bandwidth [GHz] |
|----------|-------------------------|-----------------|
{{- range $run.Channels}}
| {{.Name}}{{if .Blind}} (blind){{end}} | {{printf "%.3f" .CentralFreq}} | {{printf "%.3f" .Bandwidth}} |
{{- end}}
{{end}}`

const htmlPage = `<!DOCTYPE html>
<html>
<head>
<title>%s</title>
<meta charset="UTF-8">
</head>
<body>
%s</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(mdTemplate))

// WriteMarkdown renders the Markdown report.
func WriteMarkdown(w io.Writer, r *Results) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}

// WriteHTML renders the report as a standalone HTML page.
func WriteHTML(w io.Writer, r *Results) error {
	var md bytes.Buffer
	if err := WriteMarkdown(&md, r); err != nil {
		return err
	}

	converter := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if _, err := fmt.Fprintf(w, htmlPage, r.Title, body.String()); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	return nil
}
