package style

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/arthur-debert/dotsetup/pkg/category"
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/install"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndent(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		level    int
		expected string
	}{
		{name: "no indent", text: "Hello", level: 0, expected: "Hello"},
		{name: "single level", text: "Hello", level: 1, expected: "  Hello"},
		{name: "double level", text: "Hello", level: 2, expected: "    Hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Indent(tt.text, tt.level))
		})
	}
}

func TestIsColorTerminal(t *testing.T) {
	assert.False(t, IsColorTerminal(&bytes.Buffer{}))
	assert.False(t, NewRenderer(&bytes.Buffer{}).color)
	assert.Equal(t, FormatText, NewRenderer(&bytes.Buffer{}).Format())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{input: "", expected: FormatAuto},
		{input: "auto", expected: FormatAuto},
		{input: "term", expected: FormatTerminal},
		{input: "Terminal", expected: FormatTerminal},
		{input: "plain", expected: FormatText},
		{input: " json ", expected: FormatJSON},
		{input: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	assert.Equal(t, "unknown", Format(99).String())
	assert.Equal(t, "term", FormatTerminal.String())
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatText, DetectFormat(&bytes.Buffer{}))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, FormatText, DetectFormat(&bytes.Buffer{}))
}

func TestRenderJSON(t *testing.T) {
	r := New(FormatJSON, nil)

	var cats []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.RenderCategories(nil)), &cats))
	assert.Empty(t, cats)

	rep := category.Report{
		Category:  "vim",
		Processed: 2,
		Failures: []category.Failure{
			{Category: "vim", Op: "link", Subject: "/a -> /b", Err: errors.New(errors.ErrSourceMissing, "gone")},
		},
	}
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.RenderReport("setup", rep, true)), &doc))
	assert.Equal(t, "setup", doc["command"])
	assert.Equal(t, true, doc["dry_run"])
	failures := doc["failures"].([]interface{})
	require.Len(t, failures, 1)
	assert.Equal(t, "SOURCE_MISSING", failures[0].(map[string]interface{})["code"])

	var errDoc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.RenderError(errors.New(errors.ErrNotFound, "x"))), &errDoc))
	assert.Equal(t, "NOT_FOUND", errDoc["code"])
}

func TestRenderCategories(t *testing.T) {
	noop := func(context.Context, install.Env) error { return nil }
	vim, err := category.New("vim",
		category.WithHelp("vim configuration"),
		category.WithFiles(
			mapping.MustNew("/repo/vim/vimrc", "/home/u/.vimrc", false),
		),
		category.WithDirectories(
			mapping.MustNew("/repo/vim/vim", "/home/u/.vim", false),
			mapping.MustNew("/repo/vim/ftplugin", "/home/u/.vim/ftplugin", false),
		),
		category.WithAction(install.Action{Name: "vundle", Run: noop}),
		category.WithAction(install.Action{Name: "plugins", Run: noop}),
	)
	require.NoError(t, err)
	bash, err := category.New("bash")
	require.NoError(t, err)

	out := NewPlainRenderer().RenderCategories([]*category.Category{bash, vim})

	assert.Equal(t, `Available categories:
  • bash
      0 files, 0 directories
  • vim - vim configuration
      1 file, 2 directories
      install: vundle, plugins`, out)
}

func TestRenderCategories_Empty(t *testing.T) {
	assert.Equal(t, "No categories found.", NewPlainRenderer().RenderCategories(nil))
}

func TestRenderReport(t *testing.T) {
	r := NewPlainRenderer()

	t.Run("success", func(t *testing.T) {
		out := r.RenderReport("setup", category.Report{Category: "vim", Processed: 3}, false)
		assert.Equal(t, "✓ setup vim: 3 operations", out)
	})

	t.Run("dry run", func(t *testing.T) {
		out := r.RenderReport("link", category.Report{Category: "vim", Processed: 1}, true)
		assert.Equal(t, "○ Dry run, no changes were made\n✓ link vim: 1 operation", out)
	})

	t.Run("failures", func(t *testing.T) {
		rep := category.Report{
			Category:  "all",
			Processed: 4,
			Failures: []category.Failure{
				{Category: "bash", Op: "link", Subject: "/a -> /b", Err: fmt.Errorf("boom")},
			},
		}
		out := r.RenderReport("setup", rep, false)
		assert.Equal(t, "✗ setup all: 1 of 4 operations failed\n  bash link /a -> /b: boom", out)
	})
}

func TestRenderError(t *testing.T) {
	assert.Equal(t, "Error: nope", NewPlainRenderer().RenderError(fmt.Errorf("nope")))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 files", plural(0, "file"))
	assert.Equal(t, "1 directory", plural(1, "directory"))
	assert.Equal(t, "2 directories", plural(2, "directory"))
}
