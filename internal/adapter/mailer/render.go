package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/heartmarshall/legalpulse/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var berlin = loadBerlin()

func loadBerlin() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Renderer builds German notification emails.
type Renderer struct {
	html   *htmltemplate.Template
	text   *texttemplate.Template
	appURL string
}

// NewRenderer parses the embedded templates. appURL is the product base URL
// used for contract and settings links.
func NewRenderer(appURL string) (*Renderer, error) {
	h, err := htmltemplate.ParseFS(templateFS, "templates/mail.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse html template: %w", err)
	}
	t, err := texttemplate.ParseFS(templateFS, "templates/mail.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse text template: %w", err)
	}
	return &Renderer{html: h, text: t, appURL: strings.TrimRight(appURL, "/")}, nil
}

type mailView struct {
	Subject        string
	Greeting       string
	Intro          string
	Sections       []sectionView
	SettingsURL    string
	UnsubscribeURL string
}

type sectionView struct {
	Title string
	Items []itemView
}

type itemView struct {
	Heading       string
	Color         htmltemplate.CSS
	ContractTitle string
	ContractURL   string
	LawTitle      string
	LawURL        string
	Area          string
	Score         string
	Severity      string
	Snippet       string
	Explanation   string
	Lines         []string
}

// Single renders one event as its own email.
func (r *Renderer) Single(user domain.User, ev domain.NotificationEvent, unsubscribeURL string) (Message, error) {
	item := r.item(ev)

	var subject, intro string
	switch ev.SubjectType {
	case domain.SubjectTypeLawAlert:
		subject = fmt.Sprintf("Gesetzesänderung betrifft Ihren Vertrag „%s“", ev.Payload.ContractTitle)
		intro = "eine neue Gesetzesänderung könnte für einen Ihrer Verträge relevant sein."
	default:
		subject = statusSubject(ev.Payload)
		intro = "der Status eines Ihrer Verträge hat sich geändert."
	}

	view := mailView{
		Subject:  subject,
		Greeting: greeting(user),
		Intro:    "wir möchten Sie informieren: " + intro,
		Sections: []sectionView{{Items: []itemView{item}}},
	}
	return r.render(user, view, unsubscribeURL)
}

// Digest renders several events as one consolidated email, law alerts
// first, each section in queue order.
func (r *Renderer) Digest(user domain.User, events []domain.NotificationEvent, unsubscribeURL string) (Message, error) {
	var laws, statuses []itemView
	for _, ev := range events {
		if ev.SubjectType == domain.SubjectTypeLawAlert {
			laws = append(laws, r.item(ev))
		} else {
			statuses = append(statuses, r.item(ev))
		}
	}

	var sections []sectionView
	if len(laws) > 0 {
		sections = append(sections, sectionView{Title: fmt.Sprintf("Gesetzesänderungen (%d)", len(laws)), Items: laws})
	}
	if len(statuses) > 0 {
		sections = append(sections, sectionView{Title: fmt.Sprintf("Vertragsstatus (%d)", len(statuses)), Items: statuses})
	}

	view := mailView{
		Subject:  fmt.Sprintf("Legal Pulse: %d neue Benachrichtigungen", len(events)),
		Greeting: greeting(user),
		Intro:    fmt.Sprintf("hier ist Ihre Zusammenfassung mit %d neuen Benachrichtigungen.", len(events)),
		Sections: sections,
	}
	return r.render(user, view, unsubscribeURL)
}

func (r *Renderer) render(user domain.User, view mailView, unsubscribeURL string) (Message, error) {
	if r.appURL != "" {
		view.SettingsURL = r.appURL + "/settings/notifications"
	}
	view.UnsubscribeURL = unsubscribeURL

	var html, text bytes.Buffer
	if err := r.html.Execute(&html, view); err != nil {
		return Message{}, fmt.Errorf("mailer: render html: %w", err)
	}
	if err := r.text.Execute(&text, view); err != nil {
		return Message{}, fmt.Errorf("mailer: render text: %w", err)
	}

	return Message{
		To:             user.Email,
		ToName:         user.Name,
		Subject:        view.Subject,
		HTML:           html.String(),
		Text:           text.String(),
		UnsubscribeURL: unsubscribeURL,
	}, nil
}

func (r *Renderer) item(ev domain.NotificationEvent) itemView {
	p := ev.Payload
	v := itemView{ContractTitle: p.ContractTitle}
	if r.appURL != "" && p.ContractID != "" {
		v.ContractURL = r.appURL + "/contracts/" + p.ContractID
	}

	if ev.SubjectType == domain.SubjectTypeLawAlert {
		v.Heading = fmt.Sprintf("Vertrag „%s“", p.ContractTitle)
		v.Color = severityColor(p.Severity)
		v.LawTitle = p.LawTitle
		v.LawURL = p.LawURL
		v.Area = p.Area
		v.Score = fmt.Sprintf("%.0f %%", p.Score*100)
		v.Severity = severityLabel(p.Severity)
		v.Snippet = p.Snippet
		v.Explanation = p.Explanation
		return v
	}

	v.Heading = statusSubject(p)
	v.Color = "#2563eb"
	v.Lines = append(v.Lines, fmt.Sprintf("Status: %s → %s", statusLabel(p.OldStatus), statusLabel(p.NewStatus)))
	if p.Reason == domain.StatusReasonAutoRenewal && p.OldExpiry != nil && p.NewExpiry != nil {
		v.Lines = append(v.Lines, fmt.Sprintf("Laufzeit verlängert von %s bis %s", formatDate(p.OldExpiry), formatDate(p.NewExpiry)))
	} else if p.NewExpiry != nil {
		v.Lines = append(v.Lines, "Ablaufdatum: "+formatDate(p.NewExpiry))
	}
	return v
}

func statusSubject(p domain.EventPayload) string {
	switch {
	case p.Reason == domain.StatusReasonAutoRenewal:
		return fmt.Sprintf("Ihr Vertrag „%s“ wurde automatisch verlängert", p.ContractTitle)
	case p.NewStatus == domain.ContractStatusExpiring:
		return fmt.Sprintf("Ihr Vertrag „%s“ läuft bald ab", p.ContractTitle)
	case p.NewStatus == domain.ContractStatusExpired:
		return fmt.Sprintf("Ihr Vertrag „%s“ ist abgelaufen", p.ContractTitle)
	case p.NewStatus == domain.ContractStatusCancelled:
		return fmt.Sprintf("Ihr Vertrag „%s“ wurde gekündigt", p.ContractTitle)
	default:
		return fmt.Sprintf("Ihr Vertrag „%s“ ist aktiv", p.ContractTitle)
	}
}

func greeting(u domain.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return fmt.Sprintf("Hallo %s,", name)
	}
	return "Guten Tag,"
}

func statusLabel(s domain.ContractStatus) string {
	switch s {
	case domain.ContractStatusActive:
		return "aktiv"
	case domain.ContractStatusExpiring:
		return "läuft bald ab"
	case domain.ContractStatusExpired:
		return "abgelaufen"
	case domain.ContractStatusCancelled:
		return "gekündigt"
	default:
		return string(s)
	}
}

func severityLabel(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return "kritisch"
	case domain.SeverityHigh:
		return "hoch"
	case domain.SeverityMedium:
		return "mittel"
	default:
		return "niedrig"
	}
}

func severityColor(s domain.Severity) htmltemplate.CSS {
	switch s {
	case domain.SeverityCritical:
		return "#dc2626"
	case domain.SeverityHigh:
		return "#ea580c"
	case domain.SeverityMedium:
		return "#ca8a04"
	default:
		return "#6b7280"
	}
}

func formatDate(t *time.Time) string {
	return t.In(berlin).Format("02.01.2006")
}
