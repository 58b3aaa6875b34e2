package notify

import (
	"net/url"
	"strings"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"
)

// Composer builds notifications for complaint lifecycle events. It performs
// no I/O and returns identical output for identical input.
type Composer struct {
	lang       localization.Lang
	webBaseURL string
}

// NewComposer creates a composer using the labels of lang and linking to the
// web application at webBaseURL.
func NewComposer(lang localization.Lang, webBaseURL string) *Composer {
	return &Composer{lang: lang, webBaseURL: strings.TrimRight(webBaseURL, "/")}
}

// ComposeIntake announces a new complaint to the group and acknowledges it
// to the reporter when the complaint has a chat identity.
func (p *Composer) ComposeIntake(c *models.Complaint) Notification {
	kind := p.lang.T("kind.new")
	n := Notification{
		Group: p.groupSequence(c, kind, p.lang.F("group.alt", kind), p.staffActions(c, true), c.ImageBefore),
	}
	if c.LineUserID != "" {
		n.ReporterID = c.LineUserID
		n.Reporter = []Message{Card{
			Title:    p.lang.T("card.title_plain"),
			AltText:  p.lang.T("reporter.received_alt"),
			Fields:   p.fields(c, c.Status, nil),
			Footnote: p.lang.T("reporter.received"),
			Actions:  p.reporterActions(c),
		}}
	}
	return n
}

// ComposeReminder re-announces an unresolved complaint to the group.
func (p *Composer) ComposeReminder(c *models.Complaint, daysOutstanding int) Notification {
	kind := p.lang.F("kind.overdue", daysOutstanding)
	return Notification{
		Group: p.groupSequence(c, kind, p.lang.F("group.alt", kind), p.staffActions(c, true), c.ImageBefore),
	}
}

// ComposeResolution reports the outcome of a resolved complaint to the
// reporter, when known, and to the group.
func (p *Composer) ComposeResolution(c *models.Complaint, summary string) Notification {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = p.lang.T("placeholder.none")
	}
	kind := p.lang.T("kind.done")
	extra := []Field{{Label: p.lang.T("field.summary"), Value: summary}}

	n := Notification{
		Group: []Message{Card{
			Title:    p.lang.F("card.title", kind),
			AltText:  p.lang.F("group.resolved_alt", c.ShortID()),
			Fields:   p.fields(c, models.StatusDone, extra),
			Footnote: p.lang.T("group.resolved"),
			Actions:  p.staffActions(c, false),
		}},
	}
	n.Group = append(n.Group, images(c.ImageAfter)...)

	if c.LineUserID != "" {
		n.ReporterID = c.LineUserID
		n.Reporter = []Message{Card{
			Title:    p.lang.F("card.title", kind),
			AltText:  p.lang.T("reporter.resolved_alt"),
			Fields:   p.fields(c, models.StatusDone, extra),
			Footnote: p.lang.T("reporter.resolved"),
			Actions:  p.reporterActions(c),
		}}
	}
	return n
}

func (p *Composer) groupSequence(c *models.Complaint, kind, alt string, actions []Action, imgs models.ImageList) []Message {
	msgs := []Message{Card{
		Title:   p.lang.F("card.title", kind),
		AltText: alt,
		Fields:  p.fields(c, c.Status, nil),
		Actions: actions,
	}}
	return append(msgs, images(imgs)...)
}

func (p *Composer) fields(c *models.Complaint, status models.Status, extra []Field) []Field {
	none := p.lang.T("placeholder.none")
	fields := []Field{
		{Label: p.lang.T("field.id"), Value: c.ID},
		{Label: p.lang.T("field.reporter"), Value: orDefault(c.ReporterDisplay(), none)},
		{Label: p.lang.T("field.phone"), Value: orDefault(c.Phone, none)},
		{Label: p.lang.T("field.description"), Value: orDefault(c.Description, none)},
		{Label: p.lang.T("field.location"), Value: p.lang.T("map.open"), Link: MapURL(c.Location)},
		{Label: p.lang.T("field.status"), Value: p.lang.T("status." + string(status))},
	}
	return append(fields, extra...)
}

func (p *Composer) staffActions(c *models.Complaint, withReport bool) []Action {
	view := p.webBaseURL + "/admin/complaints/" + c.ID
	actions := []Action{{Label: p.lang.T("action.view"), URL: view, Primary: true}}
	if withReport {
		actions = append(actions, Action{Label: p.lang.T("action.report"), URL: view + "/report"})
	}
	return actions
}

func (p *Composer) reporterActions(c *models.Complaint) []Action {
	return []Action{{Label: p.lang.T("action.view"), URL: p.webBaseURL + "/complaints/" + c.ID, Primary: true}}
}

// MapURL links to a map search for location, or to the map home page when
// no location was given.
func MapURL(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return config.MapsFallbackURL
	}
	return config.MapsSearchURL + url.QueryEscape(location)
}

func images(urls models.ImageList) []Message {
	urls = urls.Compact()
	if len(urls) > config.MaxImagesPerNotification {
		urls = urls[:config.MaxImagesPerNotification]
	}
	msgs := make([]Message, 0, len(urls))
	for _, u := range urls {
		msgs = append(msgs, Image{URL: u, PreviewURL: u})
	}
	return msgs
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
