// Package template implements the output path template language:
// {{field}} placeholders and {{#if field}}...{{/if}} blocks over the
// canonical tag fields, with per-value file name sanitization.
package template

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/alkatrazstudio/musbconv/internal/meta"
)

// Default is the path template used when the user does not supply one.
const Default = "{{#if artist}}{{artist}}/{{/if}}" +
	"{{#if album}}{{album}}{{#if year}} ({{year}}){{/if}}/{{/if}}" +
	"{{#if disc}}Disc {{disc}}{{#if discs}} of {{discs}}{{/if}}/{{/if}}" +
	"{{#if track}}{{track}}{{#if tracks}} of {{tracks}}{{/if}} - {{/if}}" +
	"{{title}}"

// Template is a compiled path template.
//
// A template mixes literal text with two placeholder forms:
//
//	{{field}}            interpolates a canonical tag field
//	{{#if field}}..{{/if}} renders the body only when field is non-empty
//
// Blocks nest. Field names are checked at compile time against the
// canonical tag model, so a typo fails the run at startup instead of
// producing misnamed files halfway through a batch.
type Template struct {
	src   string
	nodes []node
}

type node interface {
	render(sb *strings.Builder, tags meta.Tags)
}

type textNode string

func (n textNode) render(sb *strings.Builder, _ meta.Tags) {
	sb.WriteString(string(n))
}

type fieldNode string

func (n fieldNode) render(sb *strings.Builder, tags meta.Tags) {
	value, _ := tags.Field(string(n))
	sb.WriteString(SanitizeComponent(value))
}

type ifNode struct {
	field string
	body  []node
}

func (n ifNode) render(sb *strings.Builder, tags meta.Tags) {
	value, _ := tags.Field(n.field)
	if value == "" {
		return
	}
	for _, child := range n.body {
		child.render(sb, tags)
	}
}

// Parse compiles a path template.
//
// Parse fails on an empty template, an unknown field name, an empty
// placeholder, an unclosed {{#if}}, a stray {{/if}}, and an
// unterminated placeholder.
func Parse(src string) (*Template, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("template is empty")
	}

	root := &ifNode{}
	stack := []*ifNode{root}
	rest := src

	for {
		open := strings.Index(rest, "{{")
		if open == -1 {
			break
		}
		if open > 0 {
			top := stack[len(stack)-1]
			top.body = append(top.body, textNode(rest[:open]))
		}
		rest = rest[open+2:]

		closing := strings.Index(rest, "}}")
		if closing == -1 {
			return nil, fmt.Errorf("unterminated placeholder in template")
		}
		token := strings.TrimSpace(rest[:closing])
		rest = rest[closing+2:]

		switch {
		case token == "/if":
			if len(stack) == 1 {
				return nil, fmt.Errorf("unexpected {{/if}} without matching {{#if}}")
			}
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top := stack[len(stack)-1]
			top.body = append(top.body, *closed)

		case strings.HasPrefix(token, "#if"):
			field := strings.TrimSpace(strings.TrimPrefix(token, "#if"))
			if field == "" {
				return nil, fmt.Errorf("empty field in {{#if}} block")
			}
			if !meta.IsField(field) {
				return nil, fmt.Errorf("unknown template field %q", field)
			}
			stack = append(stack, &ifNode{field: field})

		case token == "":
			return nil, fmt.Errorf("empty placeholder {{}} in template")

		default:
			if !meta.IsField(token) {
				return nil, fmt.Errorf("unknown template field %q", token)
			}
			top := stack[len(stack)-1]
			top.body = append(top.body, fieldNode(token))
		}
	}

	if len(stack) > 1 {
		return nil, fmt.Errorf("unclosed {{#if %s}} block", stack[len(stack)-1].field)
	}
	if rest != "" {
		root.body = append(root.body, textNode(rest))
	}

	return &Template{src: src, nodes: root.body}, nil
}

// Validate checks that the template produces a usable path when every
// tag is set. A template made only of conditionals legitimately
// renders empty for empty tags, so that case stays a per-job error.
// Run once at startup; a failure aborts the batch before any work.
func (t *Template) Validate() error {
	if _, err := t.RenderPath(meta.Filled("1")); err != nil {
		return fmt.Errorf("template never produces a usable path: %w", err)
	}
	return nil
}

// Render interpolates tags into the template. Interpolated values are
// sanitized; literal text is kept as written.
func (t *Template) Render(tags meta.Tags) string {
	var sb strings.Builder
	for _, n := range t.nodes {
		n.render(&sb, tags)
	}
	return sb.String()
}

// RenderPath renders the template into a cleaned, slash-separated
// relative path. Dot segments collapse and cannot climb above the
// root. Each segment loses trailing dots and surrounding whitespace;
// segments left empty are dropped. An empty result is an error.
func (t *Template) RenderPath(tags meta.Tags) (string, error) {
	rendered := t.Render(tags)

	cleaned := path.Clean("/" + rendered)
	var segments []string
	for _, seg := range strings.Split(cleaned, "/") {
		seg = strings.TrimSpace(seg)
		seg = strings.TrimRight(seg, ". ")
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	if len(segments) == 0 {
		return "", fmt.Errorf("template rendered an empty path")
	}
	return strings.Join(segments, "/"), nil
}

// Source returns the template source text.
func (t *Template) Source() string {
	return t.src
}

// Characters that are invalid in file names on at least one supported
// platform, plus control characters.
var invalidComponentRe = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// SanitizeComponent strips characters that cannot appear in a file
// name. Stripping, not replacing, keeps names like "AC/DC" readable
// ("ACDC") and guarantees a tag value can never introduce a path
// separator of its own.
func SanitizeComponent(value string) string {
	return invalidComponentRe.ReplaceAllString(value, "")
}
