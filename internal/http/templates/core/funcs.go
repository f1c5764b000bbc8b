package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/airportmgmt/airport-web/internal/domain/model"
	"github.com/airportmgmt/airport-web/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":    deps.ContentTemplateFor,
		"friendlyTime":   friendlyTime,
		"datetimeLocal":  datetimeLocal,
		"flightDuration": flightDuration,
		"formatCurrency": model.FormatCurrency,
		"statusClass":    statusClass,
		"add":            func(a, b int) int { return a + b },
		"contains":       strings.Contains,
		"truncateText":   uiutil.TruncateWithEllipsis,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped during ExecuteTemplate.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func toTime(ts any) time.Time {
	switch v := ts.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case model.LocalTime:
		return v.Time
	case *model.LocalTime:
		if v != nil {
			return v.Time
		}
	}
	return time.Time{}
}

func friendlyTime(ts any) string {
	return uiutil.FormatFriendlyDateTime(toTime(ts))
}

// datetimeLocal formats a timestamp for an <input type="datetime-local"> value.
func datetimeLocal(ts any) string {
	return model.LocalTime{Time: toTime(ts)}.InputValue()
}

func flightDuration(dep, arr any) string {
	return uiutil.FormatDuration(toTime(arr).Sub(toTime(dep)))
}

// statusClass maps flight and booking statuses to badge classes.
func statusClass(status any) string {
	var s string
	switch v := status.(type) {
	case string:
		s = v
	case model.FlightStatus:
		s = string(v)
	case model.BookingStatus:
		s = string(v)
	}
	switch strings.ToUpper(s) {
	case "SCHEDULED", "CONFIRMED":
		return "badge-success"
	case "BOARDING", "DELAYED":
		return "badge-warning"
	case "DEPARTED", "ARRIVED", "COMPLETED":
		return "badge-info"
	case "CANCELLED":
		return "badge-danger"
	default:
		return "badge-light"
	}
}
