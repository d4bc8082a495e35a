package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// replyRenderers pools glamour renderers per option set. Replies that settle
// together render concurrently, and a TermRenderer serves one Render at a time.
type replyRenderers struct {
	mu    sync.RWMutex
	pools map[string]*sync.Pool
}

var renderers = &replyRenderers{pools: make(map[string]*sync.Pool)}

// cacheKey identifies the renderer settings that change glamour output
func cacheKey(opts Options) string {
	return fmt.Sprintf("%s:%d:%t:%t:%t:%t",
		opts.Style,
		opts.Width,
		opts.EnableEmoji,
		opts.PreserveNewLines,
		opts.TableWrap,
		opts.InlineTableLinks,
	)
}

func (r *replyRenderers) pool(opts Options) *sync.Pool {
	key := cacheKey(opts)

	r.mu.RLock()
	p, ok := r.pools[key]
	r.mu.RUnlock()
	if ok {
		return p
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pools[key]; ok {
		return p
	}
	p = &sync.Pool{}
	r.pools[key] = p
	return p
}

// acquire takes a pooled renderer or builds one; build errors surface here
// so a bad style path reaches Answer's literal fallback.
func (r *replyRenderers) acquire(opts Options) (*glamour.TermRenderer, error) {
	if tr, ok := r.pool(opts).Get().(*glamour.TermRenderer); ok {
		return tr, nil
	}
	return newRenderer(opts)
}

func (r *replyRenderers) release(opts Options, tr *glamour.TermRenderer) {
	if tr == nil {
		return
	}
	r.pool(opts).Put(tr)
}

// newRenderer builds a renderer for a glamour standard style or a JSON style file
func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	style := glamour.WithStylePath(opts.Style)
	if IsBuiltinStyle(opts.Style) {
		style = glamour.WithStandardStyle(opts.Style)
	}

	ropts := []glamour.TermRendererOption{
		style,
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}

	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops every pooled renderer. The chat calls it when the theme flips.
func ClearCache() {
	renderers.mu.Lock()
	renderers.pools = make(map[string]*sync.Pool)
	renderers.mu.Unlock()
}

// CacheSize returns the number of distinct renderer settings pooled.
func CacheSize() int {
	renderers.mu.RLock()
	defer renderers.mu.RUnlock()
	return len(renderers.pools)
}
