package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"portal/internal/adapters/http/middleware"
	"portal/internal/application/portal"
	"portal/internal/domain/notification"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

func isJSONRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// removePath builds the confirmation URL for one participant.
func removePath(activityName, email string) string {
	return "/activities/" + url.PathEscape(activityName) + "/participants/" + url.PathEscape(email) + "/remove"
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var funcMap = template.FuncMap{
	"renderMarkdown": renderMarkdown,
	"removePath":     removePath,
}

var partials = []string{
	"templates/layout.html",
	"templates/message_banner.html",
	"templates/activity_list.html",
	"templates/activity_card.html",
	"templates/participant_list.html",
	"templates/signup_form.html",
}

// pages maps a page file name to its parsed template set.
var pages = map[string]*template.Template{
	"index.html":          parsePage("index.html"),
	"confirm_remove.html": parsePage("confirm_remove.html"),
}

func parsePage(name string) *template.Template {
	files := append(append([]string{}, partials...), "templates/"+name)
	return template.Must(template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, files...))
}

// banner is the message_banner view of a notification.
type banner struct {
	Text        string
	Severity    notification.Severity
	RemainingMs int64
}

// pageData is shared by every HTML page.
type pageData struct {
	Title     string
	CSRFToken string
	CSRFField string
	View      portal.View
	Banner    *banner

	// Confirmation page only.
	Prompt   string
	Action   string
	Activity string
	Email    string
}

func newPageData(r *http.Request, title string, view portal.View) pageData {
	return pageData{
		Title:     title,
		CSRFToken: csrf.Token(r),
		CSRFField: middleware.CSRFFieldName,
		View:      view,
		Banner:    bannerFor(view.Notification, timeNow()),
	}
}

func bannerFor(n notification.Notification, now time.Time) *banner {
	if !n.IsShowing() {
		return nil
	}
	remaining := n.Remaining(now)
	if remaining <= 0 {
		return nil
	}
	return &banner{Text: n.Text, Severity: n.Severity, RemainingMs: remaining.Milliseconds()}
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	tpl, ok := pages[templateName]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %q", templateName))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("render_write_failed", "path", r.URL.Path, "error", err)
	}
}
