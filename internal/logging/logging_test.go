package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name        string
		level       string
		development bool
		want        zapcore.Level
		wantErr     bool
	}{
		{name: "production info", level: "info", want: zapcore.InfoLevel},
		{name: "development debug", level: "debug", development: true, want: zapcore.DebugLevel},
		{name: "warn", level: "warn", want: zapcore.WarnLevel},
		{name: "unknown level", level: "loud", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.level, tc.development)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tc.want))
			assert.False(t, log.Core().Enabled(tc.want-1))
		})
	}
}
