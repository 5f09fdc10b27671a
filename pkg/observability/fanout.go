package observability

import (
	"context"
	"time"
)

// Tee forwards pipeline events to every non-nil hook in order.
type Tee []PipelineHooks

func (t Tee) OnGenerateStart(ctx context.Context, generator string, width, depth int) {
	for _, h := range t {
		h.OnGenerateStart(ctx, generator, width, depth)
	}
}

func (t Tee) OnGenerateComplete(ctx context.Context, generator string, elements int, d time.Duration, err error) {
	for _, h := range t {
		h.OnGenerateComplete(ctx, generator, elements, d, err)
	}
}

func (t Tee) OnBuildStart(ctx context.Context, width, depth int) {
	for _, h := range t {
		h.OnBuildStart(ctx, width, depth)
	}
}

func (t Tee) OnBuildComplete(ctx context.Context, steps int, d time.Duration, err error) {
	for _, h := range t {
		h.OnBuildComplete(ctx, steps, d, err)
	}
}

func (t Tee) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range t {
		h.OnRenderStart(ctx, formats)
	}
}

func (t Tee) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range t {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}
