// Package web renders the server-side pages: the landing page and the
// booking dashboard.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"homecare/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// CategoryGroup is a catalog category with the services listed under it.
type CategoryGroup struct {
	Category model.ServiceCategory
	Services []model.Service
}

// HomeData feeds the landing page. User is nil for anonymous visitors.
type HomeData struct {
	User   *model.User
	Groups []CategoryGroup
	Site   Content
	Year   int
}

// DashboardData feeds the booking dashboard. A nil User renders the sign-in form.
type DashboardData struct {
	User     *model.User
	Bookings []model.Booking
	Error    string
	Site     Content
	Year     int
}

// Renderer holds the parsed page templates.
type Renderer struct {
	home      *template.Template
	dashboard *template.Template
}

var funcs = template.FuncMap{
	"chf": func(m model.Money) string {
		return "CHF " + m.String()
	},
	"label": func(s any) string {
		v := strings.ReplaceAll(fmt.Sprint(s), "_", " ")
		if v == "" {
			return v
		}
		return strings.ToUpper(v[:1]) + v[1:]
	},
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("02.01.2006 15:04")
	},
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	home, err := parse("templates/home.html")
	if err != nil {
		return nil, err
	}
	dashboard, err := parse("templates/dashboard.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{home: home, dashboard: dashboard}, nil
}

func parse(page string) (*template.Template, error) {
	t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", page)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	return t, nil
}

// Home writes the landing page.
func (r *Renderer) Home(w io.Writer, data HomeData) error {
	data.Site = Site
	data.Year = time.Now().Year()
	return r.home.ExecuteTemplate(w, "layout.html", data)
}

// Dashboard writes the booking dashboard.
func (r *Renderer) Dashboard(w io.Writer, data DashboardData) error {
	data.Site = Site
	data.Year = time.Now().Year()
	return r.dashboard.ExecuteTemplate(w, "layout.html", data)
}

// GroupServices buckets services under their categories, keeping the order of
// both inputs. Categories without services are left out.
func GroupServices(categories []model.ServiceCategory, services []model.Service) []CategoryGroup {
	idx := make(map[string]int, len(categories))
	groups := make([]CategoryGroup, len(categories))
	for i, c := range categories {
		idx[c.ID] = i
		groups[i].Category = c
	}
	for _, s := range services {
		if i, ok := idx[s.CategoryID]; ok {
			groups[i].Services = append(groups[i].Services, s)
		}
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Services) > 0 {
			out = append(out, g)
		}
	}
	return out
}
