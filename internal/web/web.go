// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"impulsa-web/internal/app/http/middleware"
	"impulsa-web/internal/app/notify"
	"impulsa-web/internal/content"
	"impulsa-web/internal/domain/plans"
	"impulsa-web/internal/domain/session"
	"impulsa-web/internal/infra/markdown"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var files embed.FS

//go:embed static
var static embed.FS

// Page is what every template receives. Data carries the page-specific part.
type Page struct {
	Title string
	Brand content.Brand
	User  *session.User
	CSRF  template.HTML
	Notes []notify.Notification
	Data  any
}

// Layout fills the parts of a Page shared by every handler.
type Layout struct {
	Brand content.Brand
}

func (l Layout) Page(c *gin.Context, title string, data any) Page {
	p := Page{
		Title: title,
		Brand: l.Brand,
		CSRF:  middleware.CSRFField(c),
		Data:  data,
	}
	if sess := middleware.SessionFrom(c); sess != nil {
		u := sess.User
		p.User = &u
	}
	return p
}

// Parse compiles every page; each is addressed by its file name.
func Parse(md *markdown.Renderer) (*template.Template, error) {
	return template.New("pages").Funcs(Funcs(md)).ParseFS(files, "templates/*.html")
}

// Static is the stylesheet directory served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs(md *markdown.Renderer) template.FuncMap {
	return template.FuncMap{
		"price":     plans.FormatPrice,
		"markdown":  md.Render,
		"classDate": ClassDate,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"year": func() int { return time.Now().Year() },
	}
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio",
		"agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// ClassDate renders t in Spanish, e.g. "lunes 3 de marzo de 2025, 18:30".
func ClassDate(t time.Time) string {
	return fmt.Sprintf("%s %d de %s de %d, %s",
		weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year(), t.Format("15:04"))
}
