package scraper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"ridership/internal/config"
)

// page is the set of browser interactions the scrape loop needs
type page interface {
	Open(ctx context.Context) error
	Options(ctx context.Context, selector string) ([]string, error)
	Select(ctx context.Context, selector, value string) error
	Submit(ctx context.Context) error
	Table(ctx context.Context) ([][]string, error)
}

// chromePage drives a chromedp browser context
type chromePage struct {
	cfg config.ScraperConfig
}

func (p *chromePage) Open(ctx context.Context) error {
	return chromedp.Run(ctx,
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(p.cfg.URL),
		chromedp.WaitVisible(p.cfg.PanelSelector, chromedp.ByQuery),
		chromedp.Click(p.cfg.PanelSelector, chromedp.ByQuery),
		chromedp.WaitVisible(p.cfg.YearSelector, chromedp.ByQuery),
	)
}

func (p *chromePage) Options(ctx context.Context, selector string) ([]string, error) {
	var values []string
	js := fmt.Sprintf(`Array.from(document.querySelector(%s).options).map(o => o.value)`, jsString(selector))
	if err := chromedp.Run(ctx, chromedp.Evaluate(js, &values)); err != nil {
		return nil, err
	}
	return values, nil
}

// Select sets the option and fires the events a user selection would
func (p *chromePage) Select(ctx context.Context, selector, value string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		el.value = %s;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return el.value;
	})()`, jsString(selector), jsString(value))

	var selected string
	if err := chromedp.Run(ctx,
		chromedp.Focus(selector, chromedp.ByQuery),
		chromedp.Evaluate(js, &selected),
	); err != nil {
		return err
	}
	if selected != value {
		return fmt.Errorf("option %q not available in %s", value, selector)
	}
	return nil
}

// Submit removes the current table and requests a new one, either by clicking the
// submit selector or by tabbing from the month select to the button.
func (p *chromePage) Submit(ctx context.Context) error {
	removeTable := fmt.Sprintf(`(() => { const t = document.querySelector(%s); if (t) t.remove(); return true })()`,
		jsString(p.cfg.TableSelector))

	actions := []chromedp.Action{chromedp.Evaluate(removeTable, nil)}
	if p.cfg.SubmitSelector != "" {
		actions = append(actions, chromedp.Click(p.cfg.SubmitSelector, chromedp.ByQuery))
	} else {
		actions = append(actions,
			chromedp.Focus(p.cfg.MonthSelector, chromedp.ByQuery),
			chromedp.KeyEvent(kb.Tab),
			chromedp.KeyEvent(kb.Tab),
			chromedp.KeyEvent(kb.Enter),
		)
	}
	return chromedp.Run(ctx, actions...)
}

func (p *chromePage) Table(ctx context.Context) ([][]string, error) {
	js := fmt.Sprintf(`Array.from(document.querySelector(%s).rows).map(r => Array.from(r.cells).map(c => c.innerText))`,
		jsString(p.cfg.TableSelector))

	var table [][]string
	if err := chromedp.Run(ctx,
		chromedp.WaitVisible(p.cfg.TableSelector, chromedp.ByQuery),
		chromedp.Evaluate(js, &table),
	); err != nil {
		return nil, err
	}
	return table, nil
}

// allocatorOptions returns the Chrome flags for cfg
func allocatorOptions(cfg config.ScraperConfig) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(1920, 1080),
	)
	return opts
}

// jsString quotes s as a JavaScript string literal
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
