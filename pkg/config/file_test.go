package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/i2cbatt/pkg/utils/ptr"
)

func TestFileDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content *string
	}{
		{name: "missing file"},
		{name: "empty file", content: ptr.To("")},
		{name: "whitespace only", content: ptr.To(" \n\t")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "i2cbatt.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(p, []byte(*tt.content), 0644))
			}

			f, err := NewFile(p)
			require.NoError(t, err)
			assert.Equal(t, 1, f.Bus())
			assert.Equal(t, 10*time.Second, f.PollInterval())
			assert.Equal(t, 60, f.HistorySize())
			assert.False(t, f.AllowNonRootAccess())
			assert.False(t, f.MQTT().Enabled())
			assert.Equal(t, "i2cbatt", f.MQTT().TopicPrefix)
			require.NotNil(t, f.MQTT().Retain)
			assert.True(t, *f.MQTT().Retain)
		})
	}
}

func TestFileLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "json",
			file: "i2cbatt.json",
			content: `{"bus": 0, "pollIntervalSeconds": 30, "historySize": 5,
"allowNonRootAccess": true, "mqtt": {"server": "tcp://broker:1883", "retain": false}}`,
		},
		{
			name: "yaml",
			file: "i2cbatt.yaml",
			content: `bus: 0
pollIntervalSeconds: 30
historySize: 5
allowNonRootAccess: true
mqtt:
  server: tcp://broker:1883
  retain: false
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(p, []byte(tt.content), 0644))

			f, err := NewFile(p)
			require.NoError(t, err)
			assert.Equal(t, 0, f.Bus())
			assert.Equal(t, 30*time.Second, f.PollInterval())
			assert.Equal(t, 5, f.HistorySize())
			assert.True(t, f.AllowNonRootAccess())

			m := f.MQTT()
			assert.True(t, m.Enabled())
			assert.Equal(t, "tcp://broker:1883", m.Server)
			assert.Equal(t, "i2cbatt", m.TopicPrefix)
			assert.False(t, *m.Retain)
		})
	}
}

func TestFileLoadInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "i2cbatt.json")
	require.NoError(t, os.WriteFile(p, []byte("{bus:"), 0644))

	_, err := NewFile(p)
	assert.Error(t, err)
}

func TestFileSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"i2cbatt.json", "i2cbatt.yml"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)

			f, err := NewFile(p)
			require.NoError(t, err)
			f.SetBus(2)
			f.SetPollInterval(45 * time.Second)
			f.SetAllowNonRootAccess(true)
			require.NoError(t, f.Save())

			g, err := NewFile(p)
			require.NoError(t, err)
			assert.Equal(t, 2, g.Bus())
			assert.Equal(t, 45*time.Second, g.PollInterval())
			assert.True(t, g.AllowNonRootAccess())
		})
	}
}

func TestSetPollIntervalTooShort(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	assert.Panics(t, func() { f.SetPollInterval(500 * time.Millisecond) })
}

func TestNewRawFileConfigFromConfig(t *testing.T) {
	f := NewFileFromConfig(&RawFileConfig{HistorySize: ptr.To(7)}, "")

	raw, err := NewRawFileConfigFromConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1, *raw.Bus)
	assert.Equal(t, 10, *raw.PollIntervalSeconds)
	assert.Equal(t, 7, *raw.HistorySize)
	assert.False(t, *raw.AllowNonRootAccess)

	_, err = NewRawFileConfigFromConfig(nil)
	assert.Error(t, err)
}
