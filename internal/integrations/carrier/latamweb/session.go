package latamweb

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// Session is one interactive browser tab. Every session must be closed by
// the task that created it, on every exit path.
type Session interface {
	Navigate(url string) error
	// WaitForElement returns (false, nil) when the wait times out.
	WaitForElement(selector string, timeout time.Duration) (bool, error)
	ReadText(selector string) (string, error)
	Close() error
}

type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}

// ChromeFactory spawns headless chromium tabs via chromedp.
type ChromeFactory struct {
	navTimeout time.Duration
}

func NewChromeFactory(navTimeout time.Duration) *ChromeFactory {
	if navTimeout <= 0 {
		navTimeout = 60 * time.Second
	}
	return &ChromeFactory{navTimeout: navTimeout}
}

func (f *ChromeFactory) NewSession(ctx context.Context) (Session, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	return &chromeSession{
		ctx:        tabCtx,
		navTimeout: f.navTimeout,
		cancels:    []context.CancelFunc{cancelTab, cancelAlloc},
	}, nil
}

type chromeSession struct {
	ctx        context.Context
	navTimeout time.Duration
	cancels    []context.CancelFunc
}

func (s *chromeSession) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Navigate(url)); err != nil {
		return errors.Wrap(err, "navigate")
	}
	return nil
}

func (s *chromeSession) WaitForElement(selector string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "wait for element")
	}
	return true, nil
}

func (s *chromeSession) ReadText(selector string) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	var out string
	if err := chromedp.Run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", errors.Wrap(err, "read text")
	}
	return out, nil
}

func (s *chromeSession) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}
