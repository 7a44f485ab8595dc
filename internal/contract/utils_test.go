package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/qapulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainLabels(t *testing.T) {
	assert.Equal(t, "Alto", GetWorkloadLabel(schema.WorkloadHigh, false))
	assert.Equal(t, "Medio", GetRiskLabel(schema.RiskMedium, false))
	assert.Equal(t, "alta", GetPriorityLabel("alta", false))
	assert.Equal(t, "warning", GetDensityLabel(schema.DensityWarning, false))
}

func TestColorLabelsKeepText(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"workload", GetWorkloadLabel(schema.WorkloadLow, true), "Bajo"},
		{"risk", GetRiskLabel(schema.RiskHigh, true), "Alto"},
		{"priority", GetPriorityLabel("media", true), "media"},
		{"density", GetDensityLabel(schema.DensityCritical, true), "critical"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.got, tt.want)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		f, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, f)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		f, err := SelectOutputFile(path)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.FileExists(t, path)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "missing", "report.json"))
		assert.Error(t, err)
	})
}

func TestDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	historyPath := GetHistoryDBFilePath()

	assert.Contains(t, cachePath, ".qapulse_cache.db")
	assert.Contains(t, historyPath, ".qapulse_history.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)
	assert.NotEqual(t, cachePath, historyPath)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		expected string
	}{
		{"short text", "Pagos", 10, "Pagos"},
		{"exact width", "Onboarding", 10, "Onboarding"},
		{"truncated", "Notificaciones", 10, "Notific..."},
		{"multibyte", "Categoría única", 8, "Categ..."},
		{"tiny width", "Reportes", 3, "Reportes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
