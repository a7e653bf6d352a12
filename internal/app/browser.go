package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Davis1233798/proxy-demos-go/internal/browser"
	"github.com/Davis1233798/proxy-demos-go/internal/config"
	"github.com/Davis1233798/proxy-demos-go/internal/model"
	"github.com/Davis1233798/proxy-demos-go/internal/proxy"
	"github.com/Davis1233798/proxy-demos-go/internal/report"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// BrowserLaunchOptions resolves the proxy for the browser_proxy profile.
func BrowserLaunchOptions(p config.BrowserProxy) (browser.LaunchOptions, error) {
	ep, err := proxy.ResolveProxy(p.Credentials)
	if err != nil {
		return browser.LaunchOptions{}, err
	}
	if _, err := requireTarget(p.TargetURL); err != nil {
		return browser.LaunchOptions{}, err
	}
	opts := browser.LaunchOptions{
		Endpoint:       ep,
		Viewport:       fingerprint.Chrome125.Viewport,
		BlockResources: p.BlockRequests,
	}
	if p.UseHeaders {
		opts.Headers = fingerprint.Chrome125.Headers
	}
	if p.UseCookies {
		opts.Cookies = p.Cookies
		opts.CookieDomain = hostname(p.TargetURL)
	}
	return opts, nil
}

// ScreenshotPath is the capture file for a browser_proxy target.
func ScreenshotPath(target string) string {
	return fmt.Sprintf("screenshot_%s.png", hostname(target))
}

// CaptureScreenshot loads the target, lets it settle and saves a screenshot.
// The session is left open for the caller to close.
func CaptureScreenshot(ctx context.Context, t browser.Target, p config.BrowserProxy, pr *report.Printer) (string, error) {
	page, err := t.Navigate(p.TargetURL, browser.WaitDOMContentLoaded, p.Timeout)
	if err != nil {
		line(pr, false, "Page load failed: %v", err)
		return "", err
	}
	line(pr, true, "Page loaded: %s", p.TargetURL)

	if err := sleep(ctx, p.Settle); err != nil {
		return "", err
	}

	path := ScreenshotPath(p.TargetURL)
	if err := t.Screenshot(page, path); err != nil {
		line(pr, false, "Screenshot failed: %v", err)
		return "", err
	}
	line(pr, true, "Screenshot saved: %s", path)
	return path, nil
}

// RemoteArtifacts are the files written by CaptureRemote.
type RemoteArtifacts struct {
	Screenshot string
	HTML       string
}

// CaptureRemote drives a remote browser: it waits for network idle, then
// stores a screenshot and the rendered HTML under p.OutputDir. A network
// idle timeout is logged and the capture continues.
func CaptureRemote(ctx context.Context, t browser.Target, p config.RemoteBrowser, pr *report.Printer) (RemoteArtifacts, error) {
	if _, err := requireTarget(p.TargetURL); err != nil {
		return RemoteArtifacts{}, err
	}
	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return RemoteArtifacts{}, &model.ConfigError{Reason: model.ReasonOutputDir, Err: err}
	}

	page, err := t.Navigate(p.TargetURL, browser.WaitDOMContentLoaded, p.Timeout)
	if err != nil {
		line(pr, false, "Page load failed: %v", err)
		return RemoteArtifacts{}, err
	}
	if err := t.WaitFor(page, browser.WaitNetworkIdle, p.IdleTimeout); err != nil {
		log.Warn().Err(err).Msg("Network did not go idle, capturing anyway")
	}

	arts := RemoteArtifacts{
		Screenshot: filepath.Join(p.OutputDir, "screen.jpg"),
		HTML:       filepath.Join(p.OutputDir, "data.html"),
	}
	if err := t.Screenshot(page, arts.Screenshot); err != nil {
		line(pr, false, "Screenshot failed: %v", err)
		return RemoteArtifacts{}, err
	}
	line(pr, true, "Screenshot saved: %s", arts.Screenshot)

	html, err := t.Content(page)
	if err != nil {
		return RemoteArtifacts{}, err
	}
	if err := os.WriteFile(arts.HTML, []byte(html), 0644); err != nil {
		return RemoteArtifacts{}, err
	}
	line(pr, true, "HTML saved: %s", arts.HTML)

	if p.HoldOpen > 0 {
		log.Info().Dur("hold", p.HoldOpen).Msg("Keeping session open")
		if err := sleep(ctx, p.HoldOpen); err != nil {
			log.Info().Msg("Hold interrupted")
		}
	}
	return arts, nil
}

func requireTarget(raw string) (string, error) {
	if h := hostname(raw); h != "" {
		return h, nil
	}
	return "", &model.ConfigError{Reason: model.ReasonInvalidTargetURL, Err: fmt.Errorf("target %q", raw)}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func line(pr *report.Printer, ok bool, format string, args ...any) {
	if pr != nil {
		pr.Line(ok, format, args...)
	}
}
