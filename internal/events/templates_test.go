package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageTemplateEngine_Defaults(t *testing.T) {
	engine := NewMessageTemplateEngine()

	for reason := range defaultTemplates {
		text, ok := engine.GetTemplate(reason)
		assert.True(t, ok, "missing template for %s", reason)
		assert.NotEmpty(t, text)
	}
}

func TestMessageTemplateEngine_Render(t *testing.T) {
	engine := NewMessageTemplateEngine()

	got := engine.Render(ReasonJoin, EventData{Channel: "dallas", User: "ronni"})
	assert.Equal(t, "[dallas] +ronni", got)
}

func TestMessageTemplateEngine_UnknownReason(t *testing.T) {
	engine := NewMessageTemplateEngine()

	got := engine.Render(EventReason("Mystery"), EventData{Channel: "dallas"})
	assert.Equal(t, "Event: Mystery in dallas", got)
}

func TestMessageTemplateEngine_SetTemplate(t *testing.T) {
	engine := NewMessageTemplateEngine()

	require.NoError(t, engine.SetTemplate(ReasonLeave, `{{.User}} left {{.Channel | default "somewhere"}}`))
	text, ok := engine.GetTemplate(ReasonLeave)
	require.True(t, ok)
	assert.Equal(t, `{{.User}} left {{.Channel | default "somewhere"}}`, text)
	assert.Equal(t, "ronni left somewhere", engine.Render(ReasonLeave, EventData{User: "ronni"}))

	err := engine.SetTemplate(ReasonLeave, "{{.User")
	assert.Error(t, err)
	// The previous template is kept.
	assert.Equal(t, "ronni left dallas", engine.Render(ReasonLeave, EventData{User: "ronni", Channel: "dallas"}))
}

func TestGetLevelCoversEveryTemplate(t *testing.T) {
	// getLevel falls back to LevelInfo; make sure only the reasons meant to be
	// Info land there.
	info := map[EventReason]bool{
		ReasonMessage:   true,
		ReasonAction:    true,
		ReasonLoggedIn:  true,
		ReasonLoggedOut: true,
	}
	for reason := range defaultTemplates {
		if info[reason] {
			continue
		}
		assert.NotEqual(t, "INFO", getLevel(reason).String(), string(reason))
	}
}
