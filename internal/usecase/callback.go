package usecase

import (
	"net/url"
	"strings"
)

const orderIDMarker = "?order_id="

// ParseCallbackIDs recovers the internal request id and the gateway
// order id from a callback query string. The gateway has been
// observed appending order_id as a suffix of internal_request_id
// ("?internal_request_id=abc?order_id=xyz") instead of as a separate
// parameter, so the raw query is defensively re-split before either
// value is trusted. Empty strings are returned for anything that
// cannot be recovered.
func ParseCallbackIDs(rawQuery string) (requestID, orderID string) {
	params := map[string]string{}

	// Treat stray '?' separators as '&' so the degraded encoding
	// parses like a normal query string.
	normalized := strings.ReplaceAll(rawQuery, "?", "&")
	for _, part := range strings.Split(normalized, "&") {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			continue
		}
		key, kerr := url.QueryUnescape(kv[0])
		value, verr := url.QueryUnescape(kv[1])
		if kerr != nil || verr != nil {
			continue
		}
		if _, seen := params[key]; !seen {
			params[key] = value
		}
	}

	requestID = params["internal_request_id"]
	orderID = params["order_id"]

	// The suffix can survive inside the value when it was escaped.
	if i := strings.Index(requestID, orderIDMarker); i >= 0 {
		orderID = requestID[i+len(orderIDMarker):]
		requestID = requestID[:i]
	}

	return requestID, orderID
}
