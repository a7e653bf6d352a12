// Package browser is the browser-rendered fetch path. It exposes a small
// Target interface over playwright so callers never touch the driver.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"

	"github.com/Davis1233798/proxy-demos-go/internal/logger"
	"github.com/Davis1233798/proxy-demos-go/internal/model"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// WaitPolicy is the page lifecycle event a navigation waits for.
type WaitPolicy string

const (
	WaitDOMContentLoaded WaitPolicy = "domcontentloaded"
	WaitLoad             WaitPolicy = "load"
	WaitNetworkIdle      WaitPolicy = "networkidle"
)

// PageHandle identifies an open page.
type PageHandle interface {
	URL() string
}

// Target is a browser that can load pages and hand back their artifacts.
type Target interface {
	Navigate(url string, wait WaitPolicy, timeout time.Duration) (PageHandle, error)
	WaitFor(page PageHandle, wait WaitPolicy, timeout time.Duration) error
	Screenshot(page PageHandle, path string) error
	Content(page PageHandle) (string, error)
	Close() error
}

var errForeignPage = errors.New("page handle was not created by this session")

// Manager owns the playwright driver process.
type Manager struct {
	pw       *playwright.Playwright
	headless bool
	log      zerolog.Logger
}

func NewManager(headless bool) *Manager {
	return &Manager{
		headless: headless,
		log:      logger.WithComponent("browser"),
	}
}

func (m *Manager) Initialize() error {
	var err error
	m.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	m.log.Info().Bool("headless", m.headless).Msg("Playwright driver started")
	return nil
}

func (m *Manager) Shutdown() {
	if m.pw != nil {
		m.pw.Stop()
	}
}

// LaunchOptions configures a local browser session.
type LaunchOptions struct {
	Endpoint       model.Endpoint
	Viewport       fingerprint.Viewport
	Headers        []fingerprint.Header
	Cookies        []fingerprint.Cookie
	CookieDomain   string
	BlockResources bool
}

// Launch starts a local Chromium routed through opts.Endpoint. Certificate
// errors are ignored because the proxy re-signs TLS traffic.
func (m *Manager) Launch(opts LaunchOptions) (*Session, error) {
	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.headless),
		Proxy:    proxyFor(opts.Endpoint),
		Args: []string{
			"--ignore-certificate-errors",
			"--disable-blink-features=AutomationControlled",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	vp := opts.Viewport
	if vp.Width == 0 {
		vp = fingerprint.Chrome125.Viewport
	}
	ctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport:          &playwright.Size{Width: vp.Width, Height: vp.Height},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	if err := ctx.AddInitScript(playwright.Script{Content: playwright.String(fingerprint.StealthScript)}); err != nil {
		browser.Close()
		return nil, err
	}
	if len(opts.Cookies) > 0 {
		if err := ctx.AddCookies(toPlaywrightCookies(opts.Cookies, opts.CookieDomain)); err != nil {
			browser.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}

	m.log.Info().Str("proxy", opts.Endpoint.String()).Msg("Browser launched")
	return &Session{
		browser: browser,
		context: ctx,
		headers: headerMap(opts.Headers),
		block:   opts.BlockResources,
		log:     m.log,
	}, nil
}

// ConnectRemote attaches to a hosted browser over CDP and reuses its first
// context when it has one.
func (m *Manager) ConnectRemote(wsURL string) (*Session, error) {
	browser, err := m.pw.Chromium.ConnectOverCDP(wsURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect over CDP: %w", err)
	}
	s := &Session{browser: browser, log: m.log}
	if contexts := browser.Contexts(); len(contexts) > 0 {
		s.context = contexts[0]
	}
	m.log.Info().Str("host", redact(wsURL)).Msg("Connected to remote browser")
	return s, nil
}

// Session is one browser plus the context pages are opened in.
type Session struct {
	browser playwright.Browser
	context playwright.BrowserContext
	headers map[string]string
	block   bool
	log     zerolog.Logger
}

var _ Target = (*Session)(nil)

func (s *Session) newPage() (playwright.Page, error) {
	if s.context != nil {
		return s.context.NewPage()
	}
	return s.browser.NewPage()
}

func (s *Session) Navigate(target string, wait WaitPolicy, timeout time.Duration) (PageHandle, error) {
	page, err := s.newPage()
	if err != nil {
		return nil, fmt.Errorf("could not open page: %w", err)
	}
	page.On("popup", func(popup playwright.Page) {
		s.log.Debug().Str("url", popup.URL()).Msg("Popup detected, closing it")
		popup.Close()
	})

	if len(s.headers) > 0 {
		if err := page.SetExtraHTTPHeaders(s.headers); err != nil {
			return nil, err
		}
	}
	if s.block {
		err := page.Route("**/*", func(route playwright.Route) {
			if ShouldBlock(route.Request().ResourceType()) {
				route.Abort()
				return
			}
			route.Continue()
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("url", target).Str("wait", string(wait)).Msg("Navigating")
	if _, err := page.Goto(target, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: waitUntil(wait),
	}); err != nil {
		return page, fmt.Errorf("navigation failed for %s: %w", target, err)
	}
	return page, nil
}

func (s *Session) WaitFor(h PageHandle, wait WaitPolicy, timeout time.Duration) error {
	page, ok := h.(playwright.Page)
	if !ok {
		return errForeignPage
	}
	return page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState(wait),
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}

func (s *Session) Screenshot(h PageHandle, path string) error {
	page, ok := h.(playwright.Page)
	if !ok {
		return errForeignPage
	}
	_, err := page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)})
	return err
}

func (s *Session) Content(h PageHandle) (string, error) {
	page, ok := h.(playwright.Page)
	if !ok {
		return "", errForeignPage
	}
	return page.Content()
}

func (s *Session) Close() error {
	s.log.Info().Msg("Closing browser")
	return s.browser.Close()
}

// ShouldBlock reports whether a resource type is dropped when blocking is on.
func ShouldBlock(resourceType string) bool {
	switch resourceType {
	case "image", "stylesheet", "font":
		return true
	}
	return false
}

func proxyFor(ep model.Endpoint) *playwright.Proxy {
	if ep.Host == "" {
		return nil
	}
	return &playwright.Proxy{
		Server:   "http://" + ep.Host,
		Username: playwright.String(ep.Username),
		Password: playwright.String(ep.Password),
	}
}

func toPlaywrightCookies(cookies []fingerprint.Cookie, domain string) []playwright.OptionalCookie {
	out := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, playwright.OptionalCookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: playwright.String(domain),
			Path:   playwright.String("/"),
		})
	}
	return out
}

func headerMap(headers []fingerprint.Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	return fingerprint.Profile{Headers: headers}.HeaderMap()
}

func waitUntil(w WaitPolicy) *playwright.WaitUntilState {
	switch w {
	case WaitLoad:
		return playwright.WaitUntilStateLoad
	case WaitNetworkIdle:
		return playwright.WaitUntilStateNetworkidle
	default:
		return playwright.WaitUntilStateDomcontentloaded
	}
}

func loadState(w WaitPolicy) *playwright.LoadState {
	switch w {
	case WaitLoad:
		return playwright.LoadStateLoad
	case WaitNetworkIdle:
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateDomcontentloaded
	}
}

// redact strips credentials from a URL for logging.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	return u.String()
}
