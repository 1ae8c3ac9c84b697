package workflow

import (
	"testing"

	"github.com/caesium-cloud/dolphin/pkg/env"
	"github.com/caesium-cloud/dolphin/pkg/models"
	"github.com/caesium-cloud/dolphin/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamLines(t *testing.T) {
	defs := []models.ProcessDefinition{
		{ProjectCode: 7, ProcessCode: 3001},
		{ProjectCode: 8, ProcessCode: 42},
	}

	assert.Equal(t, []string{"7/3001", "8/42"}, upstreamLines(defs, nil))

	t.Setenv("DOLPHIN_BASEURL", "ds.example.com")
	require.NoError(t, env.Process())
	cfg, err := web.ConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://ds.example.com:12345/dolphinscheduler/ui/projects/7/workflow/definitions/3001",
		"http://ds.example.com:12345/dolphinscheduler/ui/projects/8/workflow/definitions/42",
	}, upstreamLines(defs, cfg.BaseURL))
}
