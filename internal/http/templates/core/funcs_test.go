package core

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airportmgmt/airport-web/internal/domain/model"
)

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-success", statusClass(model.FlightScheduled))
	assert.Equal(t, "badge-danger", statusClass(model.BookingCancelled))
	assert.Equal(t, "badge-warning", statusClass("delayed"))
	assert.Equal(t, "badge-light", statusClass(42))
}

func TestTimeHelpers(t *testing.T) {
	dep := model.LocalTime{Time: time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)}
	arr := model.LocalTime{Time: time.Date(2025, 6, 1, 10, 45, 0, 0, time.UTC)}

	assert.Equal(t, "Jun 1, 2025 8:30 AM", friendlyTime(dep))
	assert.Equal(t, "2025-06-01T08:30", datetimeLocal(dep))
	assert.Empty(t, datetimeLocal(model.LocalTime{}))
	assert.Equal(t, "2h 15m", flightDuration(dep, arr))
	assert.Empty(t, friendlyTime("not a time"))
}

func TestFuncs_RenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "home-content"}}<p>{{.}}</p>{{end}}{{define "page"}}{{renderSection "home" .}} {{formatCurrency 200.0}}{{end}}`,
	))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "page", "hi"))
	assert.Equal(t, "<p>hi</p> $200.00", buf.String())
}
