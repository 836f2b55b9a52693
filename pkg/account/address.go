package account

import (
	"fmt"
	"strings"
)

// AddressLength is the maximum number of hex digits in an address.
const AddressLength = 64

// NormalizeAddress returns the canonical 0x-prefixed lowercase form of an
// address. Short addresses such as 0x1 are kept short.
func NormalizeAddress(address string) (string, error) {
	trimmed := TrimAddressPrefix(strings.ToLower(strings.TrimSpace(address)))
	if trimmed == "" {
		return "", fmt.Errorf("address is required")
	}
	if len(trimmed) > AddressLength {
		return "", fmt.Errorf("address %q is longer than %d hex digits", address, AddressLength)
	}
	for _, character := range trimmed {
		if (character < '0' || character > '9') && (character < 'a' || character > 'f') {
			return "", fmt.Errorf("address %q is not hex", address)
		}
	}
	return "0x" + trimmed, nil
}

// TrimAddressPrefix strips a leading 0x from the address.
func TrimAddressPrefix(address string) string {
	if strings.HasPrefix(address, "0x") || strings.HasPrefix(address, "0X") {
		return address[2:]
	}
	return address
}
