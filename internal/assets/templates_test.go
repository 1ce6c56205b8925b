package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeckTemplate(t *testing.T) {
	tests := []struct {
		name         string
		templatePath func(t *testing.T) string

		wantTemplateName string
	}{
		{
			name: "uses filesystem template when available",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "custom.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`{{ range .Sections }}{{ .Title }}{{ end }}`), 0644))
				return templatePath
			},
			wantTemplateName: "custom.md.go.tmpl",
		},
		{
			name: "uses embedded template when file doesn't exist",
			templatePath: func(t *testing.T) string {
				return "/non/existent/invalid.md.go.tmpl"
			},
			wantTemplateName: "deck.md.go.tmpl",
		},
		{
			name: "uses embedded template when file is invalid",
			templatePath: func(t *testing.T) string {
				templatePath := filepath.Join(t.TempDir(), "broken.md.go.tmpl")
				require.NoError(t, os.WriteFile(templatePath, []byte(`{{ range .Sections }`), 0644))
				return templatePath
			},
			wantTemplateName: "deck.md.go.tmpl",
		},
		{
			name: "uses embedded template without a path",
			templatePath: func(t *testing.T) string {
				return ""
			},
			wantTemplateName: "deck.md.go.tmpl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseDeckTemplate(tt.templatePath(t))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemplateName, tmpl.Name())
		})
	}
}

func TestWriteDeck(t *testing.T) {
	tests := []struct {
		name string
		data DeckTemplate
		want string
	}{
		{
			name: "cards are numbered per section and trimmed",
			data: DeckTemplate{
				ExportedAt: "2025-01-01T00:00:00Z",
				Sections: []DeckSection{
					{Title: "Verbs", Cards: []DeckCard{
						{Front: " run ", Back: "to move quickly\n"},
						{Front: "walk", Back: "to move on foot"},
					}},
				},
			},
			want: "# Flashcards\n\nExported at 2025-01-01T00:00:00Z\n\n## Verbs\n\n### 1. run\n\nto move quickly\n\n### 2. walk\n\nto move on foot\n\n",
		},
		{
			name: "empty section without export time",
			data: DeckTemplate{
				Sections: []DeckSection{{Title: "Empty"}},
			},
			want: "# Flashcards\n\n## Empty\n\nNo cards.\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDeck(&buf, "", tt.data))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteDeck_customTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "cards.md.go.tmpl")
	require.NoError(t, os.WriteFile(templatePath, []byte(`{{ range .Sections }}{{ .Title }}: {{ range .Cards }}{{ .Front }} {{ end }}{{ end }}`), 0644))

	var buf bytes.Buffer
	err := WriteDeck(&buf, templatePath, DeckTemplate{
		Sections: []DeckSection{{Title: "Verbs", Cards: []DeckCard{{Front: "run"}, {Front: "walk"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Verbs: run walk ", buf.String())
}
