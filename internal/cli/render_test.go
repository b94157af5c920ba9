package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowsketch/flowsketch/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
		{"png only", "png", []string{"png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"empty output strips input extension", "", "flow.md", "flow"},
		{"output with format extension", "out.svg", "flow.md", "out"},
		{"output without extension", "build/flow", "flow.md", "build/flow"},
		{"output with unknown extension", "out.bak", "flow.md", "out.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRunRender_SingleFormat(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "flow.md")
	outPath := filepath.Join(dir, "flow.svg")
	if err := os.WriteFile(specPath, []byte(testSpec), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	opts := pipeline.Options{Formats: []string{"svg"}}

	err := c.runRender(context.Background(), specPath, opts, renderOpts{
		output:  outPath,
		noCache: true,
	})
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output should contain an <svg> element")
	}
}

func TestRunRender_MultipleFormats(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "flow.md")
	if err := os.WriteFile(specPath, []byte(testSpec), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(os.Stderr, LogInfo)
	opts := pipeline.Options{Formats: []string{"svg", "json", "dot"}}

	err := c.runRender(context.Background(), specPath, opts, renderOpts{noCache: true})
	if err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	for _, format := range []string{"svg", "json", "dot"} {
		path := filepath.Join(dir, "flow."+format)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected artifact %s: %v", path, err)
		}
	}
}

func TestWriteArtifacts_SingleUsesOutputDirectly(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "named.svg")

	paths, err := writeArtifacts(
		map[string][]byte{"svg": []byte("<svg/>")},
		[]string{"svg"},
		"flow.md",
		out,
	)
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	if len(paths) != 1 || paths[0] != out {
		t.Errorf("paths = %v, want [%s]", paths, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
}
