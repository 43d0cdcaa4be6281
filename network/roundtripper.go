package network

import "net/http"

const userAgent = "plusfind"

type bearerRoundTripper struct {
	inner  http.RoundTripper
	apiKey string
}

func (b bearerRoundTripper) RoundTrip(request *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	request = request.Clone(request.Context())
	if b.apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+b.apiKey)
	}
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Content-Type", "application/json")

	inner := b.inner
	if inner == nil {
		inner = http.DefaultTransport
	}
	return inner.RoundTrip(request)
}

var _ http.RoundTripper = &bearerRoundTripper{}
