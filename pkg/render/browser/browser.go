package browser

import (
	"context"
	"encoding/json"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/routelab/routestim/pkg/errors"
	"github.com/routelab/routestim/pkg/render"
)

// Viewport used for every capture. Matches the aspect the study's survey
// pages display.
const (
	ViewportWidth  = 1280
	ViewportHeight = 900
)

// readyTimeout bounds how long we wait for the map page and Leaflet to
// initialize after navigation.
const readyTimeout = 30 * time.Second

// Browser is the chromedp-backed render.Port. One Chrome tab is reused for
// the whole run; each RenderRoute call redraws the page in place.
type Browser struct {
	page   *PageServer
	ctx    context.Context
	cancel context.CancelFunc
}

var _ render.Port = (*Browser)(nil)

// New starts the page server and a headless Chrome tab navigated to it.
func New(ctx context.Context) (*Browser, error) {
	page, err := NewPageServer()
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(ViewportWidth, ViewportHeight),
		chromedp.Flag("force-device-scale-factor", "1"),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelTab()
		cancelAlloc()
	}

	readyCtx, cancelReady := context.WithTimeout(tabCtx, readyTimeout)
	defer cancelReady()
	err = chromedp.Run(readyCtx,
		chromedp.Navigate(page.URL()),
		chromedp.Poll("window.mapReady === true", nil, chromedp.WithPollingInterval(100*time.Millisecond)),
	)
	if err != nil {
		cancel()
		page.Close()
		return nil, errors.Wrap(errors.ErrCodeBrowser, err, "starting headless browser")
	}

	return &Browser{page: page, ctx: tabCtx, cancel: cancel}, nil
}

// RenderRoute draws the route on the already-loaded map page.
func (b *Browser) RenderRoute(ctx context.Context, route render.Route) error {
	payload, err := json.Marshal(route)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "encoding route payload")
	}

	script := `(function(p) {
		return renderRoute(p.geometry, p.start, p.end, p.mode, p.label);
	})(` + string(payload) + `)`

	runCtx, cancel := b.bound(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, nil)); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "drawing route on map page")
	}
	return nil
}

// Capture screenshots the current viewport as PNG.
func (b *Browser) Capture(ctx context.Context) ([]byte, error) {
	var png []byte
	runCtx, cancel := b.bound(ctx)
	defer cancel()
	if err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&png)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCaptureFailed, err, "capturing viewport")
	}
	return png, nil
}

// Close shuts down the tab and the page server.
func (b *Browser) Close() error {
	b.cancel()
	return b.page.Close()
}

// bound ties a browser operation to both the tab's lifetime and the
// caller's context.
func (b *Browser) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(b.ctx)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
