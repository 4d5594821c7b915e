package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"autolist/utils"
)

// Stable error kinds for the PDF path. Callers surface these messages
// verbatim, so the text must not change between releases.
var (
	// ErrRendererUnavailable means the browser engine could not be
	// started (or no renderer was configured at all).
	ErrRendererUnavailable = errors.New("pdf export unavailable: rendering engine failed to start")

	// ErrConversionFailed wraps any failure while rasterizing a loaded
	// document.
	ErrConversionFailed = errors.New("pdf conversion failed")
)

// A4 portrait with 10mm margins, in inches as the DevTools protocol
// expects.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
	marginInches   = 10.0 / 25.4
)

// ChromeRenderer rasterizes HTML documents into A4 PDFs with a shared
// headless Chrome instance. The browser starts lazily on the first
// render and is reused for the rest of the process lifetime; renders
// are serialized so rapid repeated export requests queue rather than
// race.
type ChromeRenderer struct {
	chromeBin string
	settle    time.Duration
	timeout   time.Duration
	logger    *utils.Logger

	mu         sync.Mutex
	browserCtx context.Context
	cancels    []context.CancelFunc
}

// RendererOptions configures a ChromeRenderer.
type RendererOptions struct {
	// ChromeBin overrides browser binary discovery.
	ChromeBin string
	// SettleDelay is how long a document is left to settle (styles,
	// fonts) before printing. Not a correctness guarantee.
	SettleDelay time.Duration
	// Timeout bounds a single render.
	Timeout time.Duration
	Logger  *utils.Logger
}

// NewChromeRenderer creates a renderer. No browser is started until the
// first Render call.
func NewChromeRenderer(opts RendererOptions) *ChromeRenderer {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 300 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewLogger()
	}
	return &ChromeRenderer{
		chromeBin: opts.ChromeBin,
		settle:    opts.SettleDelay,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}
}

// Render loads the HTML document in a fresh browser tab and prints it
// to PDF. The tab is closed on every exit path, success or failure.
func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	browserCtx, err := r.ensureBrowserLocked()
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTimeout()

	// Honor caller cancellation without tying the browser to it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-done:
		}
	}()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Sleep(r.settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithLandscape(false).
				WithPrintBackground(true).
				WithPaperWidth(a4WidthInches).
				WithPaperHeight(a4HeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		r.logger.Error("[pdf] Conversion failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	r.logger.Debug("[pdf] Rendered %d bytes", len(pdf))
	return pdf, nil
}

// ensureBrowserLocked starts the shared headless browser on first use.
// A startup failure is not cached: the next render attempts a fresh
// start.
func (r *ChromeRenderer) ensureBrowserLocked() (context.Context, error) {
	if r.browserCtx != nil && r.browserCtx.Err() == nil {
		return r.browserCtx, nil
	}
	r.releaseLocked()

	chromeBin := r.chromeBin
	if chromeBin == "" {
		chromeBin = FindChromeBinary()
	}
	r.logger.Info("[pdf] Starting headless browser (binary: %s)", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	// Run an empty task list to force the browser process to start so
	// startup failures surface here, not mid-render.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		r.logger.Error("[pdf] Browser start failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}

	r.browserCtx = browserCtx
	r.cancels = []context.CancelFunc{cancelBrowser, cancelAlloc}
	return browserCtx, nil
}

// Close shuts down the shared browser if it was started.
func (r *ChromeRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *ChromeRenderer) releaseLocked() {
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
	r.browserCtx = nil
}

// FindChromeBinary locates a Chrome/Chromium binary on the host.
func FindChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
