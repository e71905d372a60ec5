package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeProviders(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleCSV = `id,nom,metiers,latitude,longitude,disponibilite
1,Dupont Plomberie,plomberie,47.2,-1.55,oui
2,Martin,plomberie,47.3,-1.6,yes
3,Leroy,electricite,47.21,-1.56,1
`

func TestRun(t *testing.T) {
	csvPath := writeProviders(t, "providers.csv", sampleCSV)
	txtPath := writeProviders(t, "providers.txt", sampleCSV)

	cases := []struct {
		name     string
		args     []string
		code     int
		expected string
	}{
		{
			name:     "nearest provider with negative longitude",
			args:     []string{"plomberie", "47.21", "-1.55", csvPath},
			expected: "Selected provider: ID=1 Name=Dupont Plomberie\n",
		},
		{
			name:     "urgency flag is accepted",
			args:     []string{"--urgence", "plomberie", "47.29", "-1.6", csvPath},
			expected: "Selected provider: ID=2 Name=Martin\n",
		},
		{
			name:     "no provider for the trade",
			args:     []string{"toiture", "47.2", "-1.55", csvPath},
			expected: "No provider available for the requested trade.\n",
		},
		{
			name:     "list within a radius",
			args:     []string{"plomberie", "47.2", "-1.55", csvPath, "--list", "--radius", "50"},
			expected: "1. ID=1 Name=Dupont Plomberie Distance=0.00 km\n2. ID=2 Name=Martin Distance=11.74 km\n",
		},
		{
			name:     "missing file",
			args:     []string{"plomberie", "0", "0", filepath.Join(t.TempDir(), "absent.csv")},
			expected: "Error: provider file not found",
		},
		{
			name:     "unsupported format",
			args:     []string{"plomberie", "0", "0", txtPath},
			expected: "Data error: unsupported provider file format",
		},
		{
			name:     "unknown index",
			args:     []string{"--index", "octree", "plomberie", "0", "0", csvPath},
			expected: "Unexpected error: unsupported geo-indexing technique",
		},
		{name: "too few arguments", args: []string{"plomberie", "0"}, code: 2},
		{name: "bad latitude", args: []string{"plomberie", "north", "0", csvPath}, code: 2},
		{name: "unknown flag", args: []string{"--fast", "plomberie", "0", "0", csvPath}, code: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tc.args, &stdout, &stderr)
			if code != tc.code {
				t.Fatalf("exit code = %d; want %d (stderr: %s)", code, tc.code, stderr.String())
			}
			if tc.expected != "" && !strings.HasPrefix(stdout.String(), tc.expected) {
				t.Fatalf("stdout = %q; want prefix %q", stdout.String(), tc.expected)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("urgence", false, "")
	fs.Float64("radius", 0, "")
	fs.StringP("config", "c", "", "")

	cases := []struct {
		name       string
		args       []string
		flags      []string
		positional []string
	}{
		{
			"negative coordinates",
			[]string{"plomberie", "-33.9", "-151.2", "f.csv"},
			nil,
			[]string{"plomberie", "-33.9", "-151.2", "f.csv"},
		},
		{
			"flags with values",
			[]string{"--radius", "5", "plomberie", "-1", "2", "f.csv", "--urgence", "-c", "x.yaml"},
			[]string{"--radius", "5", "--urgence", "-c", "x.yaml"},
			[]string{"plomberie", "-1", "2", "f.csv"},
		},
		{
			"inline values and terminator",
			[]string{"--radius=2", "--", "--odd-trade", "1", "2", "f.csv"},
			[]string{"--radius=2"},
			[]string{"--odd-trade", "1", "2", "f.csv"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			flags, positional := splitArgs(fs, tc.args)
			if !reflect.DeepEqual(flags, tc.flags) || !reflect.DeepEqual(positional, tc.positional) {
				t.Fatalf("splitArgs(%v) = %v, %v; want %v, %v", tc.args, flags, positional, tc.flags, tc.positional)
			}
		})
	}
}
