package main

import (
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/abhayas/halfdigit-web/internal/api"
	"github.com/abhayas/halfdigit-web/internal/form"
	"github.com/abhayas/halfdigit-web/internal/pages"
)

var templateFuncs = template.FuncMap{
	"field": func(v form.Values, name string) string {
		return v.String(name)
	},
	"checked": func(v form.Values, name string) bool {
		b, _ := v.Bool(name)
		return b
	},
	"bytes": func(n int64) string {
		if n < 0 {
			n = 0
		}
		return humanize.IBytes(uint64(n))
	},
	"ago": humanize.Time,
	"percent": func(p float64) string {
		return fmt.Sprintf("%.1f%%", p*100)
	},
	"latency": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"status": func(code int) string {
		if code == 0 {
			return "no response"
		}
		return fmt.Sprint(code)
	},
}

// formView is the state every form partial renders.
type formView struct {
	ID      string
	Values  form.Values
	Notice  string
	Busy    bool
	Outcome string
	Message string
}

func viewOf[R any](id string, snap form.Snapshot[R]) formView {
	return formView{
		ID:      id,
		Values:  snap.Values,
		Notice:  snap.Notice,
		Busy:    snap.Busy,
		Outcome: snap.Result.Outcome.String(),
		Message: snap.Result.Message,
	}
}

type fileView struct {
	Name string
	Size int64
}

func titanicData(id string, t *pages.Titanic) map[string]any {
	snap := t.Snapshot()
	var pred *api.Prediction
	if snap.Result.Outcome == form.OutcomeSuccess {
		body := snap.Result.Body
		pred = &body
	}
	return map[string]any{
		"form":       viewOf(id, snap),
		"prediction": pred,
		"log":        t.Log.Entries(),
	}
}

func speechData(id string, sf *pages.SpeechForm) map[string]any {
	snap := sf.Snapshot()
	var file *fileView
	if f, ok := snap.Values.File(pages.FieldAudio); ok {
		file = &fileView{Name: f.Name, Size: f.Size}
	}
	var transcript string
	if snap.Result.Outcome == form.OutcomeSuccess {
		transcript = snap.Result.Body.Transcript
	}
	return map[string]any{
		"form":       viewOf(id, snap),
		"file":       file,
		"transcript": transcript,
	}
}

func contactData(id string, cf *pages.ContactForm) map[string]any {
	view := viewOf(id, cf.Snapshot())
	if view.Outcome == form.OutcomeSuccess.String() {
		view.Message = pages.ContactSuccess
	}
	return map[string]any{"form": view}
}
