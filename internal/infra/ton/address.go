// Package ton implements the depositwatch.AddressNormalizer port for the TON
// network. It converts the raw "workchain:hex" account form reported by
// indexers into the user-friendly base64url representation wallets display.
package ton

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
)

const (
	// tagNonBounceable marks an address whose transfers must not bounce back
	// on failure, the form wallet apps present to end users.
	tagNonBounceable = 0x51

	// tagTestnetOnly flags the address as valid on testnet only.
	tagTestnetOnly = 0x80

	// accountIDSize is the byte length of the account identifier part of a
	// raw address.
	accountIDSize = 32
)

// normalizer encodes raw addresses into the friendly form. The zero value is
// a mainnet bounceable encoder; use NewNormalizer for the testnet deposit
// policy.
type normalizer struct {
	tag byte
}

// Ensure normalizer implements the depositwatch.AddressNormalizer interface at compile time.
var _ depositwatch.AddressNormalizer = (*normalizer)(nil)

// NewNormalizer creates an address normalizer producing non-bounceable,
// testnet-only, url-safe friendly addresses.
func NewNormalizer() *normalizer {
	return &normalizer{
		tag: tagNonBounceable | tagTestnetOnly,
	}
}

// NormalizeAddress implements the depositwatch.AddressNormalizer interface.
// The input must be in the raw "workchain:hex" form, e.g.
// "0:ed44bd55...". Any parse failure is reported as
// depositwatch.ErrMalformedAddress.
func (n *normalizer) NormalizeAddress(raw string) (string, error) {
	workchain, accountID, err := parseRawAddress(raw)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, accountIDSize+4)
	payload = append(payload, n.tag, byte(workchain))
	payload = append(payload, accountID...)

	checksum := checksumCRC16(payload)
	payload = append(payload, byte(checksum>>8), byte(checksum))

	return base64.URLEncoding.EncodeToString(payload), nil
}

// parseRawAddress splits and validates the "workchain:hex" form, returning
// the workchain id and the decoded 32-byte account identifier.
func parseRawAddress(raw string) (int8, []byte, error) {
	workchainPart, accountPart, found := strings.Cut(raw, ":")
	if !found {
		return 0, nil, fmt.Errorf("%w: %q is not in workchain:hex form", depositwatch.ErrMalformedAddress, raw)
	}

	workchain, err := strconv.ParseInt(workchainPart, 10, 8)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid workchain %q", depositwatch.ErrMalformedAddress, workchainPart)
	}

	accountID, err := hex.DecodeString(accountPart)
	if err != nil || len(accountID) != accountIDSize {
		return 0, nil, fmt.Errorf("%w: invalid account id %q", depositwatch.ErrMalformedAddress, accountPart)
	}

	return int8(workchain), accountID, nil
}

// checksumCRC16 computes the CRC-16/XMODEM checksum (polynomial 0x1021, zero
// initial value) that seals friendly addresses.
func checksumCRC16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}
