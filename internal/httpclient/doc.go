// Package httpclient builds the probe request template and the shared
// HTTP client.
//
// A [RequestBuilder] is constructed once from configuration and stamps
// out a fresh *http.Request per probe:
//
//	builder, err := httpclient.NewRequestBuilder(cfg)
//	if err != nil {
//		return err
//	}
//	req, err := builder.Build(ctx)
//
// [NewClient] creates the shared client with per-request timeout,
// connection reuse, and optional TLS verification skip:
//
//	client := httpclient.NewClient(30*time.Second, false)
//	resp, err := client.Do(req)
package httpclient
