package internal

import (
	"fmt"
	"net/url"
	"strings"

	"payrelay/entity"
	"payrelay/services"
)

// wireFieldOrder is the field order of an encoded request body. The gateway
// itself does not care about pair order, but the checksum always goes last
// and a fixed order keeps request logs diffable.
var wireFieldOrder = append(append([]string{}, entity.SignatureFieldOrder...), entity.FieldChecksum)

// EncodeForm renders a request as an application/x-www-form-urlencoded body.
// Fields that are absent from the map are skipped entirely, matching how
// the gateway distinguishes an omitted field from an empty one.
func EncodeForm(fields entity.RequestFields) string {
	var pairs []string
	for _, name := range wireFieldOrder {
		value, ok := fields[name]
		if !ok {
			continue
		}
		pairs = append(pairs, url.QueryEscape(name)+"="+url.QueryEscape(value))
	}
	return strings.Join(pairs, "&")
}

// DecodeForm parses a form-encoded gateway body into a field mapping.
// Pairs are split on the first "=", both halves percent-decoded, and the
// last occurrence of a duplicate key wins. An empty body is malformed.
func DecodeForm(body string) (entity.GatewayResponse, error) {
	if body == "" {
		return nil, services.ErrMalformedResponse
	}
	response := entity.GatewayResponse{}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrMalformedResponse, err)
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", services.ErrMalformedResponse, err)
		}
		response[key] = decoded
	}
	return response, nil
}
