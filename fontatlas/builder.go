package fontatlas

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-theft-auto/imbridge/internal/logging"
)

// Builder builds atlases from a Config. Font paths are resolved against the
// builder's font directory. The builder owns the glyph range buffers handed
// to the atlas, so it must outlive every Build until the matching Destroy.
type Builder struct {
	fontDir string
	log     *slog.Logger
	arena   rangeArena
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger replaces the builder's logger.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = l
	}
}

// NewBuilder creates a builder reading fonts from fontDir.
func NewBuilder(fontDir string, opts ...BuilderOption) *Builder {
	b := &Builder{fontDir: fontDir, log: logging.Logger("fontatlas")}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build (re)builds atlas from cfg. A previously built atlas is destroyed
// first. A nil cfg builds the default font. Missing font files and
// unavailable rasterizers are logged and replaced by defaults; only
// packing failures are returned.
func (b *Builder) Build(atlas *Atlas, cfg *Config, mouseDrawCursor bool) error {
	if atlas.IsBuilt() || len(atlas.Fonts()) > 0 {
		b.Destroy(atlas)
	}
	if mouseDrawCursor {
		atlas.Flags &^= AtlasFlagNoMouseCursors
	} else {
		atlas.Flags |= AtlasFlagNoMouseCursors
	}

	if cfg == nil {
		if _, err := atlas.AddFontDefault(); err != nil {
			return err
		}
		return atlas.Build(b.rasterizer(RasterizerOpenType), 0)
	}

	for i, def := range cfg.Fonts {
		path := filepath.Join(b.fontDir, def.Path)
		if _, err := os.Stat(path); err != nil {
			b.log.Warn("font file not found, skipping", "path", path, "err", err)
			continue
		}
		ranges := b.arena.alloc(i, def.Config.BuildRanges())
		if _, err := atlas.AddFontFromFile(path, def.Config, ranges); err != nil {
			b.log.Warn("font not added", "path", path, "err", err)
			b.arena.release(i)
			continue
		}
		b.log.Debug("font added", "path", path, "size", def.Config.SizeInPixels, "merge", def.Config.MergeMode)
	}

	if len(atlas.Fonts()) == 0 {
		b.log.Debug("no fonts configured, using default font")
		if _, err := atlas.AddFontDefault(); err != nil {
			return err
		}
	}
	return atlas.Build(b.rasterizer(cfg.Rasterizer), cfg.RasterizerFlags)
}

func (b *Builder) rasterizer(t RasterizerType) Rasterizer {
	if r, ok := LookupRasterizer(t); ok {
		return r
	}
	b.log.Warn("rasterizer not available, using default", "requested", t, "default", RasterizerOpenType)
	r, _ := LookupRasterizer(RasterizerOpenType)
	return r
}

// Destroy frees the glyph range buffers and clears atlas, including its
// default font.
func (b *Builder) Destroy(atlas *Atlas) {
	b.arena.free()
	atlas.Clear()
}

// AllocatedRanges returns the number of live glyph range buffers.
func (b *Builder) AllocatedRanges() int {
	return b.arena.len()
}
