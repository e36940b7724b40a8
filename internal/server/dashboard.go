package server

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/regscope/regscope/internal/analysis"
	"github.com/regscope/regscope/internal/model"
	"github.com/regscope/regscope/internal/store"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>regscope</title>
  <style>
    body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; color: #222; }
    table { border-collapse: collapse; width: 100%; margin: 1rem 0; }
    th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
    th { background: #f2f2f2; }
    .muted { color: #777; }
  </style>
</head>
<body>
  <h1>regscope</h1>
  <p>Structural statistics over the Code of Federal Regulations.</p>

  {{if .Summary}}
  <h2>Corpus</h2>
  <table>
    <tr><th>Titles analyzed</th><td>{{.Summary.TitleCount}}</td></tr>
    <tr><th>Total words</th><td>{{.Summary.TotalWords}}</td></tr>
    <tr><th>Total elements</th><td>{{.Summary.TotalElements}}</td></tr>
    <tr><th>Longest title</th><td>Title {{.Summary.LongestTitle.TitleNumber}} ({{.Summary.LongestTitle.TotalWords}} words)</td></tr>
    <tr><th>Shortest title</th><td>Title {{.Summary.ShortestTitle.TitleNumber}} ({{.Summary.ShortestTitle.TotalWords}} words)</td></tr>
  </table>
  {{else}}
  <p class="muted">No structures fetched yet. Run <code>regscope fetch</code> first.</p>
  {{end}}

  {{if .Titles}}
  <h2>Title registry</h2>
  <table>
    <tr><th>#</th><th>Name</th><th>Latest issue</th><th></th></tr>
    {{range .Titles}}
    <tr>
      <td>{{.Number}}</td>
      <td>{{.Name}}</td>
      <td>{{.LatestIssueDate}}</td>
      <td>{{if .Reserved}}<span class="muted">reserved</span>{{else}}<a href="/api/analysis/titles/{{.Number}}">analysis</a>{{end}}</td>
    </tr>
    {{end}}
  </table>
  {{end}}

  <h2>API</h2>
  <ul>
    <li><a href="/api/titles">/api/titles</a></li>
    <li><a href="/api/analysis/agencies">/api/analysis/agencies</a></li>
    <li><a href="/api/summary">/api/summary</a></li>
    <li><a href="/api/metadata">/api/metadata</a></li>
  </ul>
</body>
</html>
`))

type dashboardData struct {
	Titles  []model.TitleEntry
	Summary *model.BatchSummary
}

// handleDashboard renders the HTML overview. Missing datasets degrade to an
// empty dashboard rather than an error page.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	data := dashboardData{}

	titles, err := s.pipeline.Titles()
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return mapError(c, err)
	}
	data.Titles = titles

	summary, _, err := s.pipeline.SummarizeAll()
	if err != nil && !errors.Is(err, analysis.ErrEmptyBatch) && !errors.Is(err, store.ErrNotFound) {
		return mapError(c, err)
	}
	data.Summary = summary

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return mapError(c, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
