package server

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"yatube/web"

	"github.com/gofiber/template/html/v2"
)

// LayoutBase wraps every page.
const LayoutBase = "layouts/base"

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDate renders a date as "2 января 2006".
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strings.Join([]string{
		t.Format("2"),
		monthsGenitive[t.Month()-1],
		t.Format("2006"),
	}, " ")
}

// linebreaksBR escapes text and turns newlines into <br> tags.
func linebreaksBR(text string) template.HTML {
	escaped := template.HTMLEscapeString(strings.ReplaceAll(text, "\r\n", "\n"))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// NewViews builds the HTML engine over the embedded templates.
func NewViews() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("date", formatDate)
	engine.AddFunc("linebreaksbr", linebreaksBR)
	return engine
}
