package shared

import (
	"fmt"
	"strings"
)

const (
	NetworkLocal  = "local"
	NetworkDevnet = "devnet"
)

const (
	LocalNodeURL    = "http://0.0.0.0:8080"
	LocalFaucetURL  = "http://0.0.0.0:8081"
	DevnetNodeURL   = "https://fullnode.devnet.aptoslabs.com"
	DevnetFaucetURL = "https://faucet.devnet.aptoslabs.com"
)

// Endpoints holds the node and faucet base URLs of a network.
type Endpoints struct {
	NodeURL   string
	FaucetURL string
}

// NormalizeNetwork lower-cases and validates a network name. An empty name
// selects the local network.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkLocal, nil
	}

	switch normalized {
	case NetworkLocal, NetworkDevnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// NetworkEndpoints returns the preset endpoints of the network.
func NetworkEndpoints(network string) (Endpoints, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return Endpoints{}, err
	}

	if normalized == NetworkDevnet {
		return Endpoints{NodeURL: DevnetNodeURL, FaucetURL: DevnetFaucetURL}, nil
	}

	return Endpoints{NodeURL: LocalNodeURL, FaucetURL: LocalFaucetURL}, nil
}
