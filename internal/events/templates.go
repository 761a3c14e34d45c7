package events

import (
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// stamped opens a line with the event time (when known) and the channel.
const stamped = "[{{with .Timestamp}}{{.}} {{end}}{{.Channel}}] "

const (
	cheered     = "{{with .Bits}} (cheered {{.}} bits){{end}}"
	userMessage = "{{with .UserMessage}} [{{.}}]{{end}}"
	speaker     = "{{.DisplayName | default .User}}"
)

// MessageTemplateEngine renders event text from per-reason templates.
type MessageTemplateEngine struct {
	mu        sync.RWMutex
	funcs     template.FuncMap
	templates map[EventReason]*template.Template
	sources   map[EventReason]string
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		funcs:     sprig.TxtFuncMap(),
		templates: make(map[EventReason]*template.Template),
		sources:   make(map[EventReason]string),
	}
	engine.loadDefaultTemplates()
	return engine
}

var defaultTemplates = map[EventReason]string{
	// Lifecycle
	ReasonConfigured: "Configured.",
	ReasonExiting:    "Exiting...",
	ReasonLoggedIn:   "Logged in.",
	ReasonLoggedOut:  "Logged out.",
	ReasonDoom:       "** SERVER DISCONNECT IMMINENT **",

	// Chat
	ReasonJoin:     "[{{.Channel}}] +{{.User}}",
	ReasonLeave:    "[{{.Channel}}] -{{.User}}",
	ReasonMessage:  stamped + speaker + cheered + ": {{.Text}}",
	ReasonAction:   stamped + "**" + speaker + " {{.Text}}**" + cheered,
	ReasonNotice:   "{{with .Channel}}[{{.}}] {{end}}** Server NOTICE {{.ID}}: {{.Text}} **",
	ReasonHostOn:   "[{{.Channel}}] Now hosting {{.Target}} ({{.Viewers}} viewers)",
	ReasonHostOff:  "[{{.Channel}}] No longer hosting anyone",
	ReasonRoomMode: "[{{.Channel}}] Room mode {{.Mode}}: {{.Parameter}}",
	ReasonRaid:     stamped + "RAID from {{.Raider}} ({{.Viewers}} viewers){{with .SystemMessage}}: {{.}}{{end}}",
	ReasonRitual:   stamped + "RITUAL {{.Ritual}} by {{.User}}{{with .SystemMessage}}: {{.}}{{end}}",

	// Moderation
	ReasonClearAll:     stamped + "** CLEAR CHAT **",
	ReasonClearMessage: stamped + `Message from {{.User}} has been deleted (was "{{.Content}}")`,
	ReasonTimeout:      stamped + "User {{.User}} has been timed out for {{.Duration}} seconds{{with .Reason}}; reason: {{.}}{{end}}",
	ReasonBan:          stamped + "User {{.User}} has been banned from the channel{{with .Reason}}; reason: {{.}}{{end}}",
	ReasonClearUnknown: "[{{.Channel}}] ** Unknown type of clear announcement **",

	// Subscriptions
	ReasonSubNew:     stamped + "SUB (new: {{.PlanName}}) {{.User}}: {{.SystemMessage}}" + userMessage,
	ReasonSubRenewal: stamped + "SUB (renew {{.Months}}: {{.PlanName}}) {{.User}}: {{.SystemMessage}}" + userMessage,
	ReasonSubGifted: stamped + "SUB (gift from {{.User}}{{with .SenderCount}} [{{.}} sent total]{{end}}: {{.PlanName}}) " +
		"{{.Recipient}}: {{.SystemMessage}}" + userMessage,
	ReasonSubMysteryGift: stamped + "SUB (mystery gift to {{.MassGiftCount}} users from {{.User}}" +
		"{{with .SenderCount}} [{{.}} sent total]{{end}}) {{.SystemMessage}}" + userMessage,
	ReasonSubUnknown: "[{{.Channel}}] ** Unknown type of sub announcement **",
}

// loadDefaultTemplates initializes the default message templates for all event reasons.
func (e *MessageTemplateEngine) loadDefaultTemplates() {
	for reason, text := range defaultTemplates {
		e.templates[reason] = template.Must(e.parse(reason, text))
		e.sources[reason] = text
	}
}

func (e *MessageTemplateEngine) parse(reason EventReason, text string) (*template.Template, error) {
	return template.New(string(reason)).Funcs(e.funcs).Parse(text)
}

// Render generates a message for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	e.mu.RLock()
	tmpl, exists := e.templates[reason]
	e.mu.RUnlock()
	if !exists {
		// Fallback for unknown event reasons
		return fmt.Sprintf("Event: %s in %s", string(reason), data.Channel)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return fmt.Sprintf("Event: %s in %s (template error: %v)", string(reason), data.Channel, err)
	}
	return b.String()
}

// SetTemplate allows customizing the message template for a specific event reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, text string) error {
	tmpl, err := e.parse(reason, text)
	if err != nil {
		return fmt.Errorf("invalid template for %s: %w", reason, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[reason] = tmpl
	e.sources[reason] = text
	return nil
}

// GetTemplate returns the template text for a specific event reason.
func (e *MessageTemplateEngine) GetTemplate(reason EventReason) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	text, exists := e.sources[reason]
	return text, exists
}
