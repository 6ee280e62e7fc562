package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"resume-builder/internal/domain"
)

const mmPerInch = 25.4

type paperSize struct {
	width  float64
	height float64
}

var paperSizesMM = map[string]paperSize{
	"A4":     {width: 210, height: 297},
	"A5":     {width: 148, height: 210},
	"LETTER": {width: 215.9, height: 279.4},
}

// CSS pixels per millimetre at 96 dpi.
const pxPerMM = 96 / mmPerInch

type ChromedpRenderer struct {
	ExecPath string
	Timeout  time.Duration
}

func NewChromedpRenderer(execPath string, timeout time.Duration) *ChromedpRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromedpRenderer{ExecPath: execPath, Timeout: timeout}
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string, opts domain.ExportOptions) ([]byte, error) {
	params, size, err := printParams(opts)
	if err != nil {
		return nil, err
	}
	scale := opts.DeviceScaleFactor
	if scale <= 0 {
		scale = 1
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.Timeout)
	defer cancelRun()

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(int64(size.width*pxPerMM), int64(size.height*pxPerMM), scale, false),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp print: %w", err)
	}
	return pdfBuf, nil
}

func printParams(opts domain.ExportOptions) (*page.PrintToPDFParams, paperSize, error) {
	mm, ok := paperSizesMM[strings.ToUpper(opts.PageSize)]
	if !ok {
		return nil, paperSize{}, fmt.Errorf("unsupported page size %q", opts.PageSize)
	}
	if opts.MarginMM < 0 {
		return nil, paperSize{}, fmt.Errorf("negative margin %.1fmm", opts.MarginMM)
	}
	size := mm
	if opts.Landscape {
		size.width, size.height = size.height, size.width
	}
	// a zero margin is dropped from the request; the printable page's @page
	// rule carries it instead
	margin := opts.MarginMM / mmPerInch
	params := page.PrintToPDF().
		WithPrintBackground(opts.PrintBackground).
		WithLandscape(opts.Landscape).
		WithPaperWidth(mm.width / mmPerInch).
		WithPaperHeight(mm.height / mmPerInch).
		WithMarginTop(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithMarginRight(margin).
		WithPreferCSSPageSize(true)
	return params, size, nil
}
