package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "models/heart_disease_pipeline.json", cfg.Model.Path)
	assert.False(t, cfg.Model.EagerLoad)
	assert.Equal(t, 256, cfg.Model.MaxBatch)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10.0, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.Feedback.Enabled)
}

func TestNewManager_EnvOverride(t *testing.T) {
	t.Setenv("HEART_MODEL_PATH", "/opt/models/custom_pipeline.json")
	t.Setenv("HEART_SERVER_PORT", "9090")

	manager, err := NewManager()
	require.NoError(t, err)

	cfg := manager.GetConfig()
	assert.Equal(t, "/opt/models/custom_pipeline.json", cfg.Model.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate_Defaults(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)
	assert.NoError(t, manager.Validate())
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manager)
	}{
		{"bad port", func(m *Manager) { m.config.Server.Port = -1 }},
		{"empty model path", func(m *Manager) { m.config.Model.Path = "" }},
		{"zero max batch", func(m *Manager) { m.config.Model.MaxBatch = 0 }},
		{"bad rate", func(m *Manager) { m.config.RateLimit.RequestsPerSecond = 0 }},
		{"bad burst", func(m *Manager) { m.config.RateLimit.Burst = 0 }},
		{"bad log level", func(m *Manager) { m.config.Logging.Level = "verbose" }},
		{"feedback without path", func(m *Manager) { m.config.Feedback.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewManager()
			require.NoError(t, err)

			tt.mutate(manager)
			assert.Error(t, manager.Validate())
		})
	}
}

func TestGetModelConfig(t *testing.T) {
	manager, err := NewManager()
	require.NoError(t, err)

	modelCfg := manager.GetModelConfig()
	require.NotNil(t, modelCfg)
	assert.Equal(t, manager.GetConfig().Model.Path, modelCfg.Path)
}
