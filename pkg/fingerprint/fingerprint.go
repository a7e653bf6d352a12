// Package fingerprint holds the static browser identity tables sent with
// demo requests: ordered header sets, default cookie jars and the viewport
// used for browser sessions. Nothing here is computed at runtime.
package fingerprint

import "strings"

// Header is one request header. Sets are kept as slices so that the wire
// order matches the table order.
type Header struct {
	Name  string
	Value string
}

// Cookie is one name/value pair of a Cookie header.
type Cookie struct {
	Name  string
	Value string
}

type Viewport struct {
	Width  int
	Height int
}

// Profile is a named browser identity.
type Profile struct {
	Name     string
	Headers  []Header
	Viewport Viewport
}

var (
	// Chrome141 mirrors a Windows Chrome 141 document navigation.
	Chrome141 = Profile{
		Name: "chrome141",
		Headers: []Header{
			{"Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"},
			{"Accept-Language", "en-US,en;q=0.9"},
			{"Priority", "u=0, i"},
			{"Referer", "https://www.amazon.in/"},
			{"Sec-CH-UA", `"Google Chrome";v="141", "Not?A_Brand";v="8", "Chromium";v="141"`},
			{"Sec-CH-UA-Mobile", "?0"},
			{"Sec-CH-UA-Platform", `"Windows"`},
			{"Sec-Fetch-Dest", "document"},
			{"Sec-Fetch-Mode", "navigate"},
			{"Sec-Fetch-Site", "same-origin"},
			{"Sec-Fetch-User", "?1"},
			{"Upgrade-Insecure-Requests", "1"},
			{"User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36"},
		},
		Viewport: Viewport{1920, 1080},
	}

	// Chrome125 is the lower-case header set injected into browser pages.
	Chrome125 = Profile{
		Name: "chrome125",
		Headers: []Header{
			{"accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"},
			{"accept-language", "en-US,en;q=0.9"},
			{"cache-control", "no-cache"},
			{"sec-ch-ua", `"Google Chrome";v="125", "Chromium";v="125", "Not.A/Brand";v="24"`},
			{"sec-ch-ua-mobile", "?0"},
			{"sec-ch-ua-platform", `"Windows"`},
			{"sec-fetch-dest", "document"},
			{"sec-fetch-mode", "navigate"},
			{"sec-fetch-site", "same-origin"},
			{"sec-fetch-user", "?1"},
			{"upgrade-insecure-requests", "1"},
			{"user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"},
		},
		Viewport: Viewport{1920, 1080},
	}

	// RequestCookies is the cookie jar replayed by plain HTTP demos.
	RequestCookies = []Cookie{
		{"csm-sid", "274-2166109-9384747"},
		{"x-amz-captcha-1", "1762968865593975"},
		{"x-amz-captcha-2", "0QFJhpDg65cN3m7Tzzy3Eg=="},
	}

	// BrowserCookies is the cookie jar added to browser contexts.
	BrowserCookies = []Cookie{
		{"i18n-prefs", "USD"},
		{"ubid-main", "132-0756542-7805023"},
		{"lc-main", "en_US"},
		{"session-id", "136-8069771-7581952"},
		{"session-id-time", "2082787201l"},
		{"sp-cdn", `"L5Z9:IL"`},
		{"session-token", "MlxXDHC9nH8u8deHS2wGd09dgYg2nUWf8YUrCX6V5yU4+lZrBDBOB5uF2N2DuAX/o9UnK42LLztHqhN/wzQ81TyHpD3r1Fv4ZdZJWcJF4GmnHgWYAPCswOjTABmD+Dc8ReiLx5GzYGrmN1orq8h0s8zhkTwlGSShrelswH6iYrWEa3AlGW93ab5/Ml5GNZCs3oFhwR0Wn1fAAL9T+kqSzLZC569rz5f4JOupzYTlq3S9ouxB/b/f2G8PLE42h7jCL9Nq9uCAXi1Yxa7+/mFiMb/gwgp2q4Ptfw0mDczzMav4feWDDAUqSev139lvQu7IZRhu6Es1X1UOTjp6uMHpcgqvtGo/P6Pu"},
		{"skin", "noskin"},
	}
)

// HeaderMap flattens a header set into a map for APIs that take one.
func (p Profile) HeaderMap() map[string]string {
	m := make(map[string]string, len(p.Headers))
	for _, h := range p.Headers {
		m[h.Name] = h.Value
	}
	return m
}

// CookieHeader encodes cookies as a single Cookie header value, in order.
func CookieHeader(cookies []Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, c := range cookies {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}

// StealthScript hides the automation flag from page scripts.
const StealthScript = `
(function() {
    'use strict';
    Object.defineProperty(navigator, 'webdriver', {
        get: () => undefined,
        configurable: true
    });
    delete navigator.__webdriver_evaluate;
    delete navigator.__driver_evaluate;
    delete navigator.__webdriver_script_fn;
    delete navigator.__driver_unwrapped;
})();
`
