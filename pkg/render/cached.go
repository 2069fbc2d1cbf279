package render

import (
	"context"
	"time"

	"github.com/mapscript/mapscript/pkg/cache"
	"github.com/mapscript/mapscript/pkg/errors"
)

// Renderer renders DOT text with a cache in front. Artifacts are keyed by
// the hash of the DOT input plus the render options, so any change to the
// diagram or the options misses cleanly.
type Renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// New creates a cache-backed renderer. A nil cache disables caching; a nil
// keyer uses the default key scheme.
func New(c cache.Cache, k cache.Keyer, ttl time.Duration) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Renderer{cache: c, keyer: k, ttl: ttl}
}

// Render produces the artifact for dot in the given format. FormatDOT
// returns the input bytes unchanged and never touches the cache. Scale only
// affects PNG output.
func (r *Renderer) Render(ctx context.Context, dot string, format Format, scale float64) ([]byte, error) {
	if format == FormatDOT {
		return []byte(dot), nil
	}

	key := r.keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{
		Format: string(format),
		Scale:  scale,
	})
	if data, hit, err := r.cache.Get(ctx, key); err == nil && hit {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = SVG(ctx, dot)
	case FormatPNG:
		data, err = PNG(ctx, dot, scale)
	case FormatPDF:
		data, err = PDF(ctx, dot)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	// Cache writes are best effort; a failed Set must not fail the render.
	_ = r.cache.Set(ctx, key, data, r.ttl)
	return data, nil
}
