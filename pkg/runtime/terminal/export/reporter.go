package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/moodvestor/report-relay/pkg/models/domain"
	"github.com/moodvestor/report-relay/pkg/store/archive"
)

type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  24,
		ValueWidth: 40,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(name string, value interface{}) string {
			return fmt.Sprintf("| %-*s | %-*v |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2))
		},
	}
}

type digestView struct {
	domain.Digest
	Rows []domain.Field
}

// Handle prints the same summary fields the chat destinations receive.
func (c *Reporter) Handle(d domain.Digest) error {
	tmpl := `
Data Pipeline Report: {{.ID}}

{{separator}}
{{formatRow "Field" "Value"}}
{{separator}}
{{range .Rows}}{{formatRow .Name .Value}}
{{end}}{{separator}}
{{if .Recommendations}}
Recommendations:
{{range .Recommendations}}- {{.}}
{{end}}{{end}}`

	t, err := template.New("report").Funcs(c.funcMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, digestView{Digest: d, Rows: d.Fields()})
}

func (c *Reporter) HandleList(entries []archive.Entry) error {
	tmpl := `
{{separator}}
{{formatRow "Archived At" "Name"}}
{{separator}}
{{range .}}{{formatRow (.ArchivedAt.Format "2006-01-02 15:04:05") .Name}}
{{end}}{{separator}}
`

	t, err := template.New("archive").Funcs(c.funcMap()).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, entries)
}
