package render

import "strings"

// Markdown renders content with a pooled renderer for opts.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// Answer returns a reply for display. Unless markdown is enabled the reply
// is returned exactly as received. Rendered replies fall back to the
// literal text when rendering fails.
func Answer(text string, opts Options) string {
	if !opts.Markdown || strings.TrimSpace(text) == "" {
		return text
	}
	out, err := Markdown(text, opts)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}
