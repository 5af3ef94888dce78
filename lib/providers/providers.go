// Package providers defines the adapter contract every council
// protocol family implements, plus the outbound HTTP plumbing they
// share.
package providers

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"binday-backend/lib/address"
	"binday-backend/lib/telemetry"
	"binday-backend/lib/waste"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Provider resolves a canonical address against one council's
// publishing system. Implementations return either a populated
// CollectionResult or a *waste.Error; no other error type crosses
// this boundary.
type Provider interface {
	Resolve(ctx context.Context, addr address.Canonical) (waste.CollectionResult, error)
}

const defaultTimeout = 20 * time.Second

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// ClientOptions configure the shared outbound HTTP client.
type ClientOptions struct {
	BaseURL string
	// overrides defaultTimeout when > 0
	Timeout time.Duration
	// otel tracer name for request spans
	TracerName string
}

// NewHTTPClient builds the resty client every adapter family uses:
// cookie jar, bounded timeout, browser impersonation (a couple of
// councils front their sites with Cloudflare), request tracing.
func NewHTTPClient(opts ClientOptions) *resty.Client {
	client := resty.New()
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client.SetTimeout(timeout)

	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}

	client.SetHeader("user-agent", browserUserAgent)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = "binday.providers.http"
	}
	telemetry.InstrumentResty(client, tracerName)

	return client
}

// SafeResolve runs a provider, converting a panic inside the adapter
// into KindUpstreamFailure. Partial results never escape: on any
// failure the zero CollectionResult is returned alongside the error.
func SafeResolve(ctx context.Context, p Provider, addr address.Canonical) (result waste.CollectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = waste.CollectionResult{}
			err = waste.Upstream(fmt.Sprintf("adapter panic: %v", r), nil)
		}
	}()
	return p.Resolve(ctx, addr)
}
