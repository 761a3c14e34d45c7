package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*LurkerConfig)
		fields []string
	}{
		{
			name:   "defaults",
			modify: func(*LurkerConfig) {},
		},
		{
			name:   "blank farewell",
			modify: func(c *LurkerConfig) { c.Session.Farewell = "  " },
			fields: []string{"session.farewell"},
		},
		{
			name: "zero intervals",
			modify: func(c *LurkerConfig) {
				c.Session.WorkerPollInterval = 0
				c.Session.LogOutPollInterval = -1
			},
			fields: []string{"session.workerPollInterval", "session.logOutPollInterval"},
		},
		{
			name:   "unknown transport",
			modify: func(c *LurkerConfig) { c.Transport.Kind = "carrier-pigeon" },
			fields: []string{"transport.kind"},
		},
		{
			name: "logging out of range",
			modify: func(c *LurkerConfig) {
				c.Logging.Verbosity = 6
				c.Logging.Format = "xml"
			},
			fields: []string{"logging.verbosity", "logging.format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			var fields []string
			for _, ve := range errs {
				fields = append(fields, ve.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("a", "is bad", 1)
	assert.True(t, errs.HasErrors())
	assert.Equal(t, "field 'a': is bad", errs.Error())
	assert.Equal(t, 1, errs[0].Value)

	errs.Add("", "also bad")
	assert.Equal(t, "validation failed: field 'a': is bad; also bad", errs.Error())
}

func TestValidate_KeepsOffendingValue(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transport.Kind = "carrier-pigeon"

	var errs ValidationErrors
	require.ErrorAs(t, cfg.Validate(), &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "carrier-pigeon", errs[0].Value)
	assert.Equal(t, "field 'transport.kind': must be one of: websocket, tls", errs.Error())
}
