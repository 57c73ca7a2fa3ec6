package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlderes/dstoolkit/internal/config"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestResolve(t *testing.T) {
	regular, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer regular.Close()

	tests := []struct {
		name string
		mode config.ColorMode
		out  *os.File
		env  map[string]string
		want bool
	}{
		{"always ignores tty", config.ColorAlways, nil, nil, true},
		{"never", config.ColorNever, regular, nil, false},
		{"auto on a regular file", config.ColorAuto, regular, nil, false},
		{"auto without output", config.ColorAuto, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.mode, tt.out, env(tt.env)); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestConfigure(t *testing.T) {
	defer Configure(config.ColorNever)

	if !Configure(config.ColorAlways) || !Enabled() || Red == "" {
		t.Error("ColorAlways should enable colors")
	}
	if Configure(config.ColorNever) || Enabled() || Red != "" {
		t.Error("ColorNever should clear colors")
	}
}
