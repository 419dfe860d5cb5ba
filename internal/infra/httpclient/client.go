package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/uniedit/checkout/internal/infra/config"
)

// New creates the pooled HTTP client used for gateway calls. A non-zero
// timeout overrides the configured response timeout.
func New(cfg config.HTTPClientConfig, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = cfg.ResponseTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
		DisableCompression:  false,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
