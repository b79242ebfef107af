package client

import (
	"net/http"

	"github.com/dmitrijs2005/cafecatalog/internal/common"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
)

// tokenTransport attaches the stored token to every outgoing request. The
// token is read per request, so a token saved or removed by the auth layer
// takes effect on the very next call.
type tokenTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	log    logging.Logger
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	req = req.Clone(ctx)
	req.Header.Del(common.TokenHeaderName)

	token, err := t.tokens.Load(ctx)
	if err != nil {
		// The request still goes out; the server decides whether it needs a token.
		t.log.Warn(ctx, "token lookup failed", "error", err)
	} else if token != "" {
		req.Header.Set(common.TokenHeaderName, token)
	}

	return t.base.RoundTrip(req)
}
