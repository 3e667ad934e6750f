package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourmaq/nfe-robot/pkg/config"
)

func TestLoad_DefaultsComERPConfigurado(t *testing.T) {
	t.Setenv("ERP_URL", "https://erp.example.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Robot.Limit)
	assert.Equal(t, 30*time.Second, cfg.Robot.Interval())
	assert.Equal(t, "logs", cfg.Robot.LogDir)
	assert.True(t, cfg.ERP.Headless)
}

func TestLoad_ERPURLObrigatoria(t *testing.T) {
	t.Setenv("ERP_URL", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_IntervaloInvalidoRejeitado(t *testing.T) {
	t.Setenv("ERP_URL", "https://erp.example.test")

	cases := []struct{ name, value string }{
		{"não numérico", "abc"},
		{"zero", "0"},
		{"negativo", "-5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ROBOT_INTERVAL_SECONDS", tc.value)

			_, err := config.Load()
			require.Error(t, err,
				"intervalo inválido viraria loop quente contra o banco")
		})
	}
}

func TestLoad_LimiteInvalidoRejeitado(t *testing.T) {
	t.Setenv("ERP_URL", "https://erp.example.test")
	t.Setenv("ROBOT_LIMIT", "abc")

	_, err := config.Load()
	require.Error(t, err)
}
