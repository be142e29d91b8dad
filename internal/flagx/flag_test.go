package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.toml", "-http", ":8080"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"-c", "conf.toml"},
		},
		{
			name:         "long flag with equals",
			args:         []string{"--config=alt.json", "-t", "memory"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{},
		},
		{
			name:         "flag without value at end is kept as-is",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "flag followed by another flag",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "repeated allowed flag is preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/etc/nk.json", ConfigFileFlag([]string{"-c", "/etc/nk.json"}))
	assert.Equal(t, "/etc/nk.toml", ConfigFileFlag([]string{"-t", "postgres", "-config", "/etc/nk.toml"}))
	assert.Equal(t, "x.json", ConfigFileFlag([]string{"--config=x.json"}))
	assert.Equal(t, "2.json", ConfigFileFlag([]string{"-c", "1.json", "-config", "2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1"}))
}

func TestJsonConfigFlags_ReadsOSArgs(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"bin", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", JsonConfigFlags())
}

func TestLookupEnv(t *testing.T) {
	t.Setenv("NK_PRIMARY", "")
	t.Setenv("NK_FALLBACK", "mongodb://db:27017")

	v, ok := LookupEnv("NK_PRIMARY", "NK_FALLBACK")
	assert.True(t, ok)
	assert.Equal(t, "mongodb://db:27017", v)

	_, ok = LookupEnv("NK_MISSING_ONE", "NK_MISSING_TWO")
	assert.False(t, ok)
}
