package depositwatch

import "errors"

// ErrMalformedAddress is wrapped by AddressNormalizer implementations when a
// raw address cannot be parsed. The watch loop isolates the failure to the
// single transaction carrying the address: that emission is logged and
// skipped, and the rest of the batch is still delivered.
var ErrMalformedAddress = errors.New("malformed account address")

// AddressNormalizer converts a raw on-chain address representation into its
// canonical display form.
//
// The normalizer is an injectable capability of the watch service: deposits
// can be streamed with raw addresses (the default) or normalized ones,
// depending on the implementation wired in via WithAddressNormalizer.
type AddressNormalizer interface {
	// NormalizeAddress returns the canonical display form of raw, or an
	// error wrapping ErrMalformedAddress when raw cannot be parsed.
	NormalizeAddress(raw string) (string, error)
}

// nopNormalizer passes addresses through unchanged. It is the default when
// no normalizer is configured.
type nopNormalizer struct{}

var _ AddressNormalizer = nopNormalizer{}

func (nopNormalizer) NormalizeAddress(raw string) (string, error) {
	return raw, nil
}
