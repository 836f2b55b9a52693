package shared

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// SeedSize is the length in bytes of an Ed25519 account seed.
const SeedSize = 32

// AccountConfig is the signing account and endpoints resolved from the
// environment.
type AccountConfig struct {
	Seed      string
	Network   string
	NodeURL   string
	FaucetURL string
}

var dotenvLoadOnce sync.Once

// AccountConfigFromEnv loads the nearest .env file (once) and resolves the
// account seed, network and endpoints from the environment.
func AccountConfigFromEnv() (AccountConfig, error) {
	return AccountConfigForNetwork("")
}

// AccountConfigForNetwork is AccountConfigFromEnv with the network chosen by
// the caller. An empty network falls back to NETWORK. The network selects
// the scoped seed variables and the preset endpoints, which NODE_URL and
// FAUCET_URL still override.
func AccountConfigForNetwork(network string) (AccountConfig, error) {
	loadDotEnvIfPresent()

	if strings.TrimSpace(network) == "" {
		network = firstNonEmptyEnv("NETWORK", "APTOS_NETWORK")
	}
	network, err := NormalizeNetwork(network)
	if err != nil {
		return AccountConfig{}, err
	}

	seed := firstNonEmptyEnv("SEED", "ACCOUNT_SEED", "PRIVATE_KEY")
	scopedPrefix := strings.ToUpper(network) + "_"
	if scopedSeed := firstNonEmptyEnv(
		scopedPrefix+"SEED",
		scopedPrefix+"ACCOUNT_SEED",
		scopedPrefix+"PRIVATE_KEY",
	); scopedSeed != "" {
		seed = scopedSeed
	}
	if seed == "" {
		return AccountConfig{}, fmt.Errorf("SEED is required")
	}

	endpoints, err := NetworkEndpoints(network)
	if err != nil {
		return AccountConfig{}, err
	}
	if nodeURL := firstNonEmptyEnv("NODE_URL", "REST_URL"); nodeURL != "" {
		endpoints.NodeURL = nodeURL
	}
	if faucetURL := firstNonEmptyEnv("FAUCET_URL"); faucetURL != "" {
		endpoints.FaucetURL = faucetURL
	}

	return AccountConfig{
		Seed:      seed,
		Network:   network,
		NodeURL:   endpoints.NodeURL,
		FaucetURL: endpoints.FaucetURL,
	}, nil
}

// LoadDotEnv loads the nearest .env file walking up from the working
// directory. Variables that are already set are left untouched. Only the
// first call has an effect.
func LoadDotEnv() {
	loadDotEnvIfPresent()
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)
		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}
		loadNearestDotEnv(startPaths)
	})
}

// loadNearestDotEnv walks up from each start path and loads .env files until
// one of them sets at least one variable. It returns that file's path.
func loadNearestDotEnv(startPaths []string) string {
	seen := make(map[string]struct{})
	for _, start := range startPaths {
		for current := start; ; {
			candidate := filepath.Join(current, ".env")
			if _, visited := seen[candidate]; !visited {
				seen[candidate] = struct{}{}
				if _, statErr := os.Stat(candidate); statErr == nil && loadDotEnvFile(candidate) {
					return candidate
				}
			}

			parent := filepath.Dir(current)
			if parent == current {
				break
			}
			current = parent
		}
	}
	return ""
}

func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}
		if setErr := os.Setenv(key, value); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func parseDotEnvLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if !isValidEnvKey(key) {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		switch {
		case character >= 'A' && character <= 'Z':
		case character >= 'a' && character <= 'z':
		case character == '_':
		case index > 0 && character >= '0' && character <= '9':
		default:
			return false
		}
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

// ParseSeed parses an Ed25519 account seed. Accepted forms are a 32-byte
// hex string (with or without 0x prefix) and a DER encoded key string.
func ParseSeed(raw string) (hedera.PrivateKey, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return hedera.PrivateKey{}, fmt.Errorf("seed cannot be empty")
	}
	candidate = strings.TrimPrefix(strings.TrimPrefix(candidate, "0x"), "0X")

	seed, hexErr := hex.DecodeString(candidate)
	if hexErr == nil && len(seed) == SeedSize {
		key, err := hedera.PrivateKeyFromBytesEd25519(seed)
		if err != nil {
			return hedera.PrivateKey{}, fmt.Errorf("failed to parse seed: %w", err)
		}
		return key, nil
	}

	derKey, derErr := hedera.PrivateKeyFromStringEd25519(candidate)
	if derErr == nil {
		return derKey, nil
	}

	if hexErr == nil {
		return hedera.PrivateKey{}, fmt.Errorf(
			"seed must be %d bytes, got %d (DER: %v)",
			SeedSize,
			len(seed),
			derErr,
		)
	}
	return hedera.PrivateKey{}, fmt.Errorf("failed to parse seed as hex (%v) or DER (%v)", hexErr, derErr)
}
