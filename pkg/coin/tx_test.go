package coin

import (
	"encoding/hex"
	"testing"
)

func TestTypePathNaming(t *testing.T) {
	cases := []struct {
		issuer   string
		symbol   string
		expected string
	}{
		{"0xABC", "A", "0xabc::CoinA::CoinA"},
		{"abc", "B", "0xabc::CoinB::CoinB"},
		{"0x1", " LP ", "0x1::CoinLP::CoinLP"},
	}
	for _, tc := range cases {
		got, err := TypePath(tc.issuer, tc.symbol)
		if err != nil {
			t.Fatalf("TypePath(%q, %q) error: %v", tc.issuer, tc.symbol, err)
		}
		if got != tc.expected {
			t.Fatalf("TypePath(%q, %q) = %q, want %q", tc.issuer, tc.symbol, got, tc.expected)
		}
	}

	if _, err := TypePath("0x1", ""); err == nil {
		t.Fatal("expected error for empty symbol")
	}
	if _, err := TypePath("0xzz", "A"); err == nil {
		t.Fatal("expected error for invalid issuer")
	}
}

func TestResourcePaths(t *testing.T) {
	info, err := CoinInfoPath("0x2", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != "0x1::coin::CoinInfo<0x2::CoinA::CoinA>" {
		t.Fatalf("unexpected coin info path %q", info)
	}
	store, err := CoinStorePath("0x2", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store != "0x1::coin::CoinStore<0x2::CoinA::CoinA>" {
		t.Fatalf("unexpected coin store path %q", store)
	}
}

func TestBuildInitializePayload(t *testing.T) {
	payload, err := BuildInitializePayload("0x2", InitializeOptions{Symbol: "A"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Function != InitializeFunction {
		t.Fatalf("unexpected function %q", payload.Function)
	}
	if len(payload.TypeArguments) != 1 || payload.TypeArguments[0] != "0x2::CoinA::CoinA" {
		t.Fatalf("unexpected type arguments %v", payload.TypeArguments)
	}
	if len(payload.Arguments) != 4 {
		t.Fatalf("unexpected arguments %v", payload.Arguments)
	}
	if payload.Arguments[0] != hex.EncodeToString([]byte("A Coin")) {
		t.Fatalf("unexpected name argument %v", payload.Arguments[0])
	}
	if payload.Arguments[1] != hex.EncodeToString([]byte("A")) {
		t.Fatalf("unexpected symbol argument %v", payload.Arguments[1])
	}
	if payload.Arguments[2] != "6" || payload.Arguments[3] != false {
		t.Fatalf("unexpected decimals/monitor arguments %v", payload.Arguments[2:])
	}

	decimals := uint8(8)
	payload, err = BuildInitializePayload("0x2", InitializeOptions{Symbol: "B", Name: "Bee", Decimals: &decimals, MonitorSupply: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Arguments[0] != hex.EncodeToString([]byte("Bee")) || payload.Arguments[2] != "8" || payload.Arguments[3] != true {
		t.Fatalf("unexpected custom arguments %v", payload.Arguments)
	}
}

func TestBuildRegisterPayload(t *testing.T) {
	payload, err := BuildRegisterPayload("0x2", "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Function != RegisterFunction || payload.TypeArguments[0] != "0x2::CoinB::CoinB" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Arguments == nil || len(payload.Arguments) != 0 {
		t.Fatalf("expected empty non-nil arguments, got %v", payload.Arguments)
	}
}

func TestBuildMintPayload(t *testing.T) {
	payload, err := BuildMintPayload("0x2", "A", "0xDEAD", 10_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Function != MintFunction || payload.TypeArguments[0] != "0x2::CoinA::CoinA" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Arguments[0] != "0xdead" || payload.Arguments[1] != "10000000000" {
		t.Fatalf("unexpected arguments %v", payload.Arguments)
	}

	if _, err := BuildMintPayload("0x2", "A", "nope", 1); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
}
