package internal

import (
	"strings"

	"gitee.com/golang-module/dongle"

	"payrelay/entity"
)

// Checksum computes the PayWeb3 signature over a request field set: the
// field values concatenated in entity.SignatureFieldOrder, with absent
// fields contributing an empty string, followed by the shared secret,
// hashed with MD5 and rendered as lowercase hex. The gateway reproduces
// the same byte string, so both the order and the absent-as-empty rule
// are part of the wire contract.
func Checksum(fields entity.RequestFields, secret string) string {
	var hash strings.Builder
	for _, name := range entity.SignatureFieldOrder {
		hash.WriteString(fields[name])
	}
	hash.WriteString(secret)
	return dongle.Encrypt.FromString(hash.String()).ByMd5().ToHexString()
}
