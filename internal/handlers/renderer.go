package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"smartspend/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are rendered inside templates/layout.html
var pages = []string{"login", "register", "dashboard", "expenses", "expense_new", "expense_delete"}

// TemplateRenderer implements echo.Renderer over the embedded page templates
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer(currencySymbol string) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"currency": func(amount decimal.Decimal) string {
			return models.FormatCurrency(currencySymbol, amount)
		},
		"displayDate": func(t time.Time) string {
			return t.Format(models.DisplayDateLayout)
		},
		"label": func(e models.Expense) string {
			return e.Label(currencySymbol)
		},
		"heatAlpha": heatAlpha,
		"percent": func(v float64) string {
			return fmt.Sprintf("%.1f%%", v*100)
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &TemplateRenderer{templates: templates}, nil
}

// Render implements echo.Renderer
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// heatAlpha scales a heatmap cell to an opacity between 0.05 and 1.
func heatAlpha(value, largest decimal.Decimal) string {
	if !largest.IsPositive() || !value.IsPositive() {
		return "0.05"
	}
	alpha := value.Div(largest).InexactFloat64()
	if alpha < 0.05 {
		alpha = 0.05
	}
	return fmt.Sprintf("%.2f", alpha)
}
