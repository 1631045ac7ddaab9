package llm

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// newProxyFunc picks the configured proxy by scheme. Without explicit proxies
// the standard environment variables apply. Hosts listed in noProxy bypass
// the configured proxies.
func newProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := map[string]bool{}
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			bypass[strings.ToLower(h)] = true
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if bypass[strings.ToLower(req.URL.Hostname())] {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// headerTransport adds fixed headers to every request
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

// newHTTPClient builds the client shared by all providers
func newHTTPClient(config Config, headers map[string]string) *http.Client {
	var rt http.RoundTripper = &http.Transport{
		Proxy:               newProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if len(headers) > 0 {
		rt = &headerTransport{base: rt, headers: headers}
	}
	return &http.Client{Transport: rt}
}

// requestTimeout returns the per-call timeout, defaulting to def
func requestTimeout(config Config, def time.Duration) time.Duration {
	if config.Timeout > 0 {
		return time.Duration(config.Timeout) * time.Second
	}
	return def
}
