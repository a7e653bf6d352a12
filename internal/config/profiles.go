package config

import (
	"time"

	"github.com/Davis1233798/proxy-demos-go/internal/proxy"
	"github.com/Davis1233798/proxy-demos-go/pkg/fingerprint"
)

// SimpleRequest is the plain proxied GET demo.
type SimpleRequest struct {
	TargetURL      string
	UseResidential bool
	UseHeaders     bool
	UseCookies     bool
	InsecureTLS    bool
	Requests       int
	Timeout        time.Duration
	OutputDir      string
	Cookies        []fingerprint.Cookie
	Credentials    proxy.Credentials
}

func (p SimpleRequest) ZoneLabel() string {
	if p.UseResidential {
		return "RESIDENTIAL"
	}
	return "DATACENTER"
}

func (c *Config) SimpleRequest() SimpleRequest {
	sec := c.section("simple_request")
	p := SimpleRequest{
		TargetURL:      sec.Key("target_url").MustString("https://www.amazon.in/dp/B0CS5XW6TN/"),
		UseResidential: sec.Key("use_residential").MustBool(false),
		UseHeaders:     sec.Key("use_headers").MustBool(true),
		UseCookies:     sec.Key("use_cookies").MustBool(false),
		InsecureTLS:    sec.Key("insecure_tls").MustBool(true),
		Requests:       sec.Key("num_requests").MustInt(10),
		Timeout:        millis(sec, "timeout_ms", 30000),
		OutputDir:      sec.Key("output_dir").MustString("results"),
		Cookies:        c.cookies("simple_request", fingerprint.RequestCookies),
		Credentials:    c.Env.datacenter(),
	}
	if p.UseResidential {
		p.Credentials = c.Env.residential()
	}
	return p
}

// Unlocker compares the datacenter zone with the web-unlocker zone.
type Unlocker struct {
	TargetURL      string
	UseWebUnlocker bool
	InsecureTLS    bool
	Requests       int
	Timeout        time.Duration
	OutputDir      string
	Credentials    proxy.Credentials
}

func (p Unlocker) ZoneLabel() string {
	if p.UseWebUnlocker {
		return "WEB UNLOCKER"
	}
	return "DATACENTER"
}

func (c *Config) Unlocker() Unlocker {
	sec := c.section("unlocker")
	p := Unlocker{
		TargetURL:      sec.Key("target_url").MustString("https://www.flipkart.com/dell-se-series-55-88-cm-22-inch-full-hd-led-backlit-va-panel-contrast-3000-1-tilt-adjustment-1x-hdmi-1xvga-3-years-warranty-tuv-rheinland-3-star-eye-comfort-ultra-thin-bezel-monitor-se2225hm/p/itm928c341bee303"),
		UseWebUnlocker: sec.Key("use_web_unlocker").MustBool(false),
		InsecureTLS:    sec.Key("insecure_tls").MustBool(true),
		Requests:       sec.Key("num_requests").MustInt(10),
		Timeout:        millis(sec, "timeout_ms", 30000),
		OutputDir:      sec.Key("output_dir").MustString("results"),
		Credentials:    c.Env.datacenter(),
	}
	if p.UseWebUnlocker {
		p.Credentials = c.Env.unlocker()
	}
	return p
}

// SerpAPI sends search URLs through the API-mediated endpoint.
type SerpAPI struct {
	Query     string
	Engine    string
	UseJSON   bool
	Country   string
	Language  string
	Requests  int
	Timeout   time.Duration
	OutputDir string
	Token     string
	Zone      string
}

func (c *Config) SerpAPI() SerpAPI {
	sec := c.section("serp_api")
	return SerpAPI{
		Query:     sec.Key("query").MustString("web scraping tutorial"),
		Engine:    sec.Key("engine").MustString("google"),
		UseJSON:   sec.Key("use_json").MustBool(false),
		Country:   sec.Key("country").MustString("us"),
		Language:  sec.Key("language").MustString("en"),
		Requests:  sec.Key("num_requests").MustInt(5),
		Timeout:   millis(sec, "timeout_ms", 30000),
		OutputDir: sec.Key("output_dir").MustString("results"),
		Token:     c.Env.SerpToken,
		Zone:      c.Env.SerpZone,
	}
}

// BrowserProxy drives a local Chromium through the proxy.
type BrowserProxy struct {
	TargetURL      string
	UseResidential bool
	UseHeaders     bool
	UseCookies     bool
	BlockRequests  bool
	Headless       bool
	Timeout        time.Duration
	Settle         time.Duration
	Cookies        []fingerprint.Cookie
	Credentials    proxy.Credentials
}

func (p BrowserProxy) ZoneLabel() string {
	if p.UseResidential {
		return "RESIDENTIAL"
	}
	return "DATACENTER"
}

func (c *Config) BrowserProxy() BrowserProxy {
	sec := c.section("browser_proxy")
	p := BrowserProxy{
		TargetURL:      sec.Key("target_url").MustString("https://www.amazon.in/dp/B0CS5XW6TN/"),
		UseResidential: sec.Key("use_residential").MustBool(false),
		UseHeaders:     sec.Key("use_headers").MustBool(true),
		UseCookies:     sec.Key("use_cookies").MustBool(false),
		BlockRequests:  sec.Key("block_requests").MustBool(false),
		Headless:       sec.Key("headless").MustBool(false),
		Timeout:        millis(sec, "timeout_ms", 60000),
		Settle:         millis(sec, "settle_ms", 10000),
		Cookies:        c.cookies("browser_proxy", fingerprint.BrowserCookies),
		Credentials:    c.Env.datacenter(),
	}
	if p.UseResidential {
		p.Credentials = c.Env.residential()
	}
	return p
}

// RemoteBrowser connects to the vendor's hosted browser over CDP.
type RemoteBrowser struct {
	TargetURL   string
	Country     string
	OutputDir   string
	Timeout     time.Duration
	IdleTimeout time.Duration
	HoldOpen    time.Duration
	Credentials proxy.Credentials
}

func (c *Config) RemoteBrowser() RemoteBrowser {
	sec := c.section("remote_browser")
	country := sec.Key("country").MustString("in")
	return RemoteBrowser{
		TargetURL:   sec.Key("target_url").MustString("https://www.meesho.com/ubon-type-c-tc-186-wired-earphones-wired-gaming-headset-black-in-the-ear/p/8nymhw"),
		Country:     country,
		OutputDir:   sec.Key("output_dir").MustString("sbr_results"),
		Timeout:     millis(sec, "timeout_ms", 60000),
		IdleTimeout: millis(sec, "idle_timeout_ms", 30000),
		HoldOpen:    millis(sec, "hold_open_ms", 60000),
		Credentials: c.Env.scrapingBrowser(country),
	}
}
