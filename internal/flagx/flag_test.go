package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		valued  []string
		boolean []string
		want    []string
	}{
		{
			name:   "short flag with separate value",
			args:   []string{"-c", "conf.json", "-a", "localhost"},
			valued: []string{"c", "config"},
			want:   []string{"-c", "conf.json"},
		},
		{
			name:   "long flag with equals",
			args:   []string{"--config=alt.json", "-a", "localhost"},
			valued: []string{"c", "config"},
			want:   []string{"--config=alt.json"},
		},
		{
			name:   "both forms present, order preserved",
			args:   []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			valued: []string{"c", "config"},
			want:   []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:   "unknown flags and positionals dropped",
			args:   []string{"-x", "1", "--y=2", "positional"},
			valued: []string{"c"},
			want:   []string{},
		},
		{
			name:   "valued flag at end kept without value",
			args:   []string{"-c"},
			valued: []string{"c"},
			want:   []string{"-c"},
		},
		{
			name:   "valued flag followed by another flag",
			args:   []string{"-c", "-d", "dsn"},
			valued: []string{"c", "d"},
			want:   []string{"-c", "-d", "dsn"},
		},
		{
			name:    "boolean flag does not consume next argument",
			args:    []string{"-M", "positional", "-d", "dsn"},
			valued:  []string{"d"},
			boolean: []string{"M"},
			want:    []string{"-M", "-d", "dsn"},
		},
		{
			name:    "boolean flag with explicit value",
			args:    []string{"-M=false"},
			boolean: []string{"M"},
			want:    []string{"-M=false"},
		},
		{
			name:   "value that looks like a flag in equals form",
			args:   []string{"--config=--weird.json"},
			valued: []string{"config"},
			want:   []string{"--config=--weird.json"},
		},
		{
			name: "empty args",
			args: nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.valued, tt.boolean)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"-c", "a.json"}, "a.json"},
		{"long equals", []string{"-a", ":1", "--config=b.json"}, "b.json"},
		{"absent", []string{"-a", ":1"}, ""},
		{"last wins", []string{"-c", "a.json", "-config", "b.json"}, "b.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfigPath(tt.args))
		})
	}
}
