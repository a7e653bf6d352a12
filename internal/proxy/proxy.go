package proxy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Davis1233798/proxy-demos-go/internal/model"
)

const (
	// SuperProxyHost is the vendor's authenticated HTTP proxy.
	SuperProxyHost = "brd.superproxy.io:33335"
	// ScrapingBrowserHost accepts CDP connections for remote browsers.
	ScrapingBrowserHost = "brd.superproxy.io:9222"
	// RequestAPIURL is the API-mediated fetch endpoint.
	RequestAPIURL = "https://api.brightdata.com/request"
)

// Credentials names a zone on the vendor side. Empty fields are treated as
// unset.
type Credentials struct {
	CustomerID string
	Zone       string
	Password   string
	// Country optionally pins the exit country ("-country-xx" suffix).
	Country string
}

// Username builds brd-customer-{id}-zone-{zone}[-country-{cc}].
func (c Credentials) Username() string {
	u := fmt.Sprintf("brd-customer-%s-zone-%s", c.CustomerID, c.Zone)
	if c.Country != "" {
		u += "-country-" + strings.ToLower(c.Country)
	}
	return u
}

func (c Credentials) complete() bool {
	return strings.TrimSpace(c.CustomerID) != "" &&
		strings.TrimSpace(c.Zone) != "" &&
		strings.TrimSpace(c.Password) != ""
}

// ResolveProxy returns a direct-proxy endpoint on SuperProxyHost.
func ResolveProxy(c Credentials) (model.Endpoint, error) {
	return ResolveProxyAt(SuperProxyHost, c)
}

// ResolveProxyAt is ResolveProxy against an explicit host:port.
func ResolveProxyAt(host string, c Credentials) (model.Endpoint, error) {
	if !c.complete() || host == "" {
		return model.Endpoint{}, model.NewConfigError(model.ReasonMissingCredential)
	}
	return model.Endpoint{
		Kind:     model.EndpointProxy,
		Host:     host,
		Username: c.Username(),
		Password: c.Password,
	}, nil
}

// ResolveAPI returns an API-mediated endpoint on RequestAPIURL.
func ResolveAPI(token, zone string) (model.Endpoint, error) {
	return ResolveAPIAt(RequestAPIURL, token, zone)
}

// ResolveAPIAt is ResolveAPI against an explicit API URL.
func ResolveAPIAt(apiURL, token, zone string) (model.Endpoint, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(zone) == "" || apiURL == "" {
		return model.Endpoint{}, model.NewConfigError(model.ReasonMissingCredential)
	}
	return model.Endpoint{
		Kind:   model.EndpointAPI,
		APIURL: apiURL,
		Token:  token,
		Zone:   zone,
	}, nil
}

// BrowserWSURL returns the CDP websocket URL of a remote scraping browser.
func BrowserWSURL(c Credentials) (string, error) {
	if !c.complete() {
		return "", model.NewConfigError(model.ReasonMissingCredential)
	}
	u := url.URL{
		Scheme: "wss",
		User:   url.UserPassword(c.Username(), c.Password),
		Host:   ScrapingBrowserHost,
	}
	return u.String(), nil
}
