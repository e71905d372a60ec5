package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name       string
		production bool
		level      string
		expected   zapcore.Level
		wantErr    bool
	}{
		{"development debug", false, "debug", zapcore.DebugLevel, false},
		{"production info", true, "info", zapcore.InfoLevel, false},
		{"default level", false, "", zapcore.WarnLevel, false},
		{"bad level", false, "loud", 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.production, tc.level)
			if (err != nil) != tc.wantErr {
				t.Fatalf("New error = %v; wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if !l.Core().Enabled(tc.expected) {
				t.Errorf("level %v not enabled", tc.expected)
			}
			if tc.expected > zapcore.DebugLevel && l.Core().Enabled(tc.expected-1) {
				t.Errorf("level %v unexpectedly enabled", tc.expected-1)
			}
		})
	}
}
