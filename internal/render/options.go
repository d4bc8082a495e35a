// Package render provides markdown rendering utilities for terminal output.
package render

import (
	"os"

	"github.com/diogo/askchat/internal/config"
)

// Options configures the markdown renderer behavior.
type Options struct {
	// Markdown renders replies through glamour; when false replies are shown as sent
	Markdown bool

	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour standard style name or a path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool

	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            GlamourStyleFor(ThemeDark),
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// OptionsFromConfig builds options for cfg's theme and markdown settings.
// An explicit markdown style wins over the theme, and GLAMOUR_STYLE wins over both.
func OptionsFromConfig(cfg config.Config, width int) Options {
	md := cfg.Markdown
	opts := Options{
		Markdown:         md.Enabled,
		Width:            width,
		Style:            GlamourStyleFor(cfg.Theme),
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if md.Style != "" {
		opts.Style = md.Style
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	return opts
}

// WithMarkdown returns Options with markdown rendering of replies enabled/disabled.
func (o Options) WithMarkdown(enabled bool) Options {
	o.Markdown = enabled
	return o
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithTheme returns Options styled for a chat theme
func (o Options) WithTheme(theme string) Options {
	o.Style = GlamourStyleFor(theme)
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

func (o Options) WithTableWrap(enabled bool) Options {
	o.TableWrap = enabled
	return o
}

func (o Options) WithInlineTableLinks(enabled bool) Options {
	o.InlineTableLinks = enabled
	return o
}
