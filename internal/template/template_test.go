package template

import (
	"slices"
	"strings"
	"testing"

	"github.com/alkatrazstudio/musbconv/internal/meta"
)

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty template", "   ", "empty"},
		{"unknown field", "{{artist}}/{{albom}}", `unknown template field "albom"`},
		{"unknown if field", "{{#if albom}}x{{/if}}", `unknown template field "albom"`},
		{"empty placeholder", "a{{}}b", "empty placeholder"},
		{"empty if field", "{{#if}}x{{/if}}", "empty field"},
		{"unclosed if", "{{#if artist}}{{artist}}", "unclosed"},
		{"stray close", "{{artist}}{{/if}}", "without matching"},
		{"unterminated placeholder", "{{artist", "unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error containing %q", tt.src, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %q, want it to contain %q", tt.src, err.Error(), tt.want)
			}
		})
	}
}

func TestRender_Conditionals(t *testing.T) {
	tmpl, err := Parse("{{#if artist}}{{artist}}/{{/if}}{{#if album}}{{album}}{{#if year}} ({{year}}){{/if}}/{{/if}}{{title}}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		name string
		tags meta.Tags
		want string
	}{
		{
			"all fields",
			meta.Tags{Artist: "Artist", Album: "Album", Year: "1999", Title: "Title"},
			"Artist/Album (1999)/Title",
		},
		{
			"no year drops nested block",
			meta.Tags{Artist: "Artist", Album: "Album", Title: "Title"},
			"Artist/Album/Title",
		},
		{
			"no artist drops whole segment",
			meta.Tags{Album: "Album", Year: "1999", Title: "Title"},
			"Album (1999)/Title",
		},
		{
			"only title",
			meta.Tags{Title: "Title"},
			"Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tmpl.RenderPath(tt.tags)
			if err != nil {
				t.Fatalf("RenderPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_Sanitization(t *testing.T) {
	tmpl, err := Parse("{{artist}}/{{title}}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Run("separators in values are stripped", func(t *testing.T) {
		got, err := tmpl.RenderPath(meta.Tags{Artist: "AC/DC", Title: "T.N.T."})
		if err != nil {
			t.Fatalf("RenderPath() error = %v", err)
		}
		// "AC/DC" must stay one path segment, and trailing dots must go.
		if got != "ACDC/T.N.T" {
			t.Errorf("RenderPath() = %q, want %q", got, "ACDC/T.N.T")
		}
	})

	t.Run("values cannot traverse directories", func(t *testing.T) {
		got, err := tmpl.RenderPath(meta.Tags{Artist: "../../etc", Title: "passwd"})
		if err != nil {
			t.Fatalf("RenderPath() error = %v", err)
		}
		if slices.Contains(strings.Split(got, "/"), "..") {
			t.Errorf("RenderPath() = %q, contains a dot-dot segment", got)
		}
		if got != "....etc/passwd" {
			t.Errorf("RenderPath() = %q, want %q", got, "....etc/passwd")
		}
	})

	t.Run("literal dot segments collapse", func(t *testing.T) {
		tmpl, err := Parse("a/../{{title}}")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		got, err := tmpl.RenderPath(meta.Tags{Title: "x"})
		if err != nil {
			t.Fatalf("RenderPath() error = %v", err)
		}
		if got != "x" {
			t.Errorf("RenderPath() = %q, want %q", got, "x")
		}
	})

	t.Run("illegal characters are stripped not replaced", func(t *testing.T) {
		if got := SanitizeComponent(`a<b>c:d"e|f?g*h`); got != "abcdefgh" {
			t.Errorf("SanitizeComponent() = %q, want %q", got, "abcdefgh")
		}
	})
}

func TestRenderPath_Determinism(t *testing.T) {
	tmpl, err := Parse(Default)
	if err != nil {
		t.Fatalf("Parse(Default) error = %v", err)
	}

	tags := meta.Tags{
		Artist: "Artist", Album: "Album", Year: "2002",
		Track: "03", Tracks: "10", Title: "Title",
	}
	first, err := tmpl.RenderPath(tags)
	if err != nil {
		t.Fatalf("RenderPath() error = %v", err)
	}
	if first != "Artist/Album (2002)/03 of 10 - Title" {
		t.Errorf("RenderPath() = %q, want %q", first, "Artist/Album (2002)/03 of 10 - Title")
	}
	for range 10 {
		got, err := tmpl.RenderPath(tags)
		if err != nil || got != first {
			t.Fatalf("RenderPath() = %q, %v; want stable %q", got, err, first)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Run("default template validates", func(t *testing.T) {
		tmpl, err := Parse(Default)
		if err != nil {
			t.Fatalf("Parse(Default) error = %v", err)
		}
		if err := tmpl.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("template that collapses to nothing fails", func(t *testing.T) {
		tmpl, err := Parse("./.")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if err := tmpl.Validate(); err == nil {
			t.Error("Validate() succeeded for a template that renders nothing usable")
		}
	})

	t.Run("fully conditional template validates", func(t *testing.T) {
		tmpl, err := Parse("{{#if artist}}{{artist}}{{/if}}")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if err := tmpl.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}

func TestRenderPath_EmptyResult(t *testing.T) {
	tmpl, err := Parse("{{#if disc_id}}{{disc_id}}{{/if}}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := tmpl.RenderPath(meta.Tags{}); err == nil {
		t.Error("RenderPath() succeeded for an empty render, want error")
	}
}
