package web

import (
	"embed"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

//go:embed templates
var templateFS embed.FS

var (
	pages   = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	reports = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt"))
)

// Format is an output format of 'glspy snapshot'.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatHTML, FormatJSON}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	for _, v := range Formats {
		if f == v {
			return true
		}
	}
	return false
}

// Write renders r in format f.
func Write(w io.Writer, f Format, r *Report) error {
	switch f {
	case FormatHTML:
		return WriteHTML(w, r)
	case FormatJSON:
		return WriteJSONSuccess(w, r)
	default:
		return WriteText(w, r)
	}
}

// WriteText renders r as a plain text report.
func WriteText(w io.Writer, r *Report) error {
	return reports.ExecuteTemplate(w, "snapshot.txt", r)
}

// WriteHTML renders r as a bare HTML fragment.
func WriteHTML(w io.Writer, r *Report) error {
	return pages.ExecuteTemplate(w, "fragment.html", r)
}
