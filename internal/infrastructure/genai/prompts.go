package genai

import (
	"strings"
	"text/template"
)

var describeTmpl = template.Must(template.New("describe").Parse(`You write event listings for a university campus event platform.
Turn the notes below into an engaging, well structured description aimed at college students:
open with a hook, cover what participants get out of it, and finish with a call to action.
{{with .Name}}Event name: {{.}}
{{end}}{{with .Date}}Date: {{.}}
{{end}}{{with .Time}}Time: {{.}}
{{end}}{{with .Venue}}Venue: {{.}}
{{end}}
Notes to expand on:
{{.Keywords}}

Reply with a JSON object of the form {"description": "<text>"}.
`))

var recommendTmpl = template.Must(template.New("recommend").Funcs(template.FuncMap{
	"iso": isoDate,
}).Parse(`You recommend campus events to a student.

Interests:
{{range .Interests}}- {{.}}
{{else}}none given
{{end}}
Events the student registered for before:
{{range .PastTitles}}- {{.}}
{{else}}none
{{end}}
Candidate events:
{{range .Candidates}}- id: {{.ID}}
  title: {{.Title}}
  description: {{.Description}}
  society: {{.SocietyName}}
  date: {{iso .Date}}
{{end}}
Pick at most 5 candidates that best match the interests and history. Use only ids from the
candidate list. Give each a reason of one or two sentences.
Reply with a JSON object of the form {"recommendedEvents": [{"eventId": "<id>", "reason": "<text>"}]}.
Reply with an empty array when nothing fits.
`))

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
