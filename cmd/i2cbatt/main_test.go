package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/i2cbatt/pkg/client"
)

func TestHandleCmdError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "daemon not running",
			err:  pkgerrors.Wrap(client.ErrDaemonNotRunning, "failed to get status"),
			want: []string{"daemon is not running", "'i2cbatt read'"},
		},
		{
			name: "permission denied",
			err:  pkgerrors.Wrap(client.ErrPermissionDenied, "failed to get status"),
			want: []string{"Permission Denied", "'i2cbatt install --allow-non-root-access'"},
		},
		{
			name: "other",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handleCmdError(&buf, tt.err)
			if len(tt.want) == 0 {
				assert.Empty(t, buf.String())
				return
			}
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

// Every command and flag the hints mention must exist.
func TestHandleCmdErrorHintsExist(t *testing.T) {
	root := NewCommand()

	install, _, err := root.Find([]string{"install"})
	require.NoError(t, err)
	assert.Equal(t, "install", install.Name())
	assert.NotNil(t, install.Flags().Lookup("allow-non-root-access"))

	read, _, err := root.Find([]string{"read"})
	require.NoError(t, err)
	assert.Equal(t, "read", read.Name())

	var buf bytes.Buffer
	handleCmdError(&buf, client.ErrPermissionDenied)
	assert.False(t, strings.Contains(buf.String(), "always-allow"))
}
