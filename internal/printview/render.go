// Package printview renders an exam draft plus resolved question bodies into
// a print-ready HTML document.
package printview

import (
	"html/template"
	"strings"

	"github.com/vidyasetu/exam-portal/internal/bank"
	"github.com/vidyasetu/exam-portal/internal/exam"
)

// MarksPerQuestion is the flat heuristic the portal prints as "Max Marks".
// Questions carry an optional real marks field the renderer deliberately
// ignores; see DESIGN.md before changing this.
const MarksPerQuestion = 4

type optionView struct {
	Letter string
	Text   string
}

type questionView struct {
	Number     int
	Text       string
	Options    []optionView
	DiagramURL string
}

type sectionView struct {
	Title        string
	DurationMins int
	Questions    []questionView
}

type docView struct {
	Title             string
	Description       string
	ClassLevel        string
	TotalDurationMins int
	TotalQuestions    int
	MaxMarks          int
	Sections          []sectionView
}

// DiagramURL turns a stored diagram key into a fetchable URL.
type DiagramURL func(key string) string

// Render produces the printable document. Sections with no resolved
// questions are skipped; question numbering runs across sections.
func Render(e exam.Exam, questions map[string]bank.Question, diagramURL DiagramURL) (string, error) {
	if diagramURL == nil {
		diagramURL = func(key string) string { return "/assets/" + key }
	}

	doc := docView{
		Title:             e.Title,
		Description:       e.Description,
		ClassLevel:        e.ClassLevel,
		TotalDurationMins: exam.TotalDuration(e.Sections),
	}

	num := 0
	for _, s := range e.Sections {
		sv := sectionView{Title: s.Title, DurationMins: s.DurationMins}
		for _, qid := range s.QuestionIDs {
			q, ok := questions[qid]
			if !ok {
				continue // unresolved bodies are left out of the print
			}
			num++
			qv := questionView{Number: num, Text: q.Text}
			for i, o := range q.Options {
				qv.Options = append(qv.Options, optionView{Letter: optionLetter(i), Text: o.Text})
			}
			if q.DiagramKey != "" {
				qv.DiagramURL = diagramURL(q.DiagramKey)
			}
			sv.Questions = append(sv.Questions, qv)
		}
		if len(sv.Questions) == 0 {
			continue
		}
		doc.Sections = append(doc.Sections, sv)
	}
	doc.TotalQuestions = num
	doc.MaxMarks = num * MarksPerQuestion

	var b strings.Builder
	if err := docTmpl.Execute(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

// optionLetter maps 0->a, 1->b, ...
func optionLetter(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return string(rune('a'+i/26-1)) + string(rune('a'+i%26))
}

var docTmpl = template.Must(template.New("paper").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: "Times New Roman", serif; margin: 2rem; }
  header { text-align: center; border-bottom: 2px solid #000; margin-bottom: 1rem; }
  .meta { display: flex; justify-content: space-between; font-weight: bold; }
  .section-title { margin-top: 1.5rem; font-weight: bold; text-decoration: underline; }
  ol.options { list-style: none; padding-left: 1.5rem; }
  .question { margin: 0.75rem 0; page-break-inside: avoid; }
  img.diagram { max-width: 60%; display: block; margin: 0.5rem 0 0 1.5rem; }
  @media print { body { margin: 0.5in; } }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  <div class="meta">
    {{if .ClassLevel}}<span>Class: {{.ClassLevel}}</span>{{end}}
    <span>Time: {{.TotalDurationMins}} mins</span>
    <span>Max Marks: {{.MaxMarks}}</span>
  </div>
</header>
{{range .Sections}}
<div class="section">
  <div class="section-title">{{.Title}} ({{.DurationMins}} mins)</div>
  {{range .Questions}}
  <div class="question">
    <span>{{.Number}}. {{.Text}}</span>
    {{if .DiagramURL}}<img class="diagram" src="{{.DiagramURL}}" alt="diagram">{{end}}
    {{if .Options}}
    <ol class="options">
      {{range .Options}}<li>({{.Letter}}) {{.Text}}</li>
      {{end}}
    </ol>
    {{end}}
  </div>
  {{end}}
</div>
{{end}}
</body>
</html>
`))
