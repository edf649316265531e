package crypto

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestDomainSeparatorSchemaHash(t *testing.T) {
	want := "0x4c2212af4ffd7e170315f531795cee6c22f874d8f5fab37dfa8ed65e616773d2"
	if got := DomainSeparatorSchemaHash().Hex(); got != want {
		t.Errorf("DomainSeparatorSchemaHash() = %s, want %s", got, want)
	}
	if DomainSeparatorSchemaHash() != DomainSeparatorSchemaHash() {
		t.Error("schema hash is not constant")
	}
}

func TestDomainHash(t *testing.T) {
	want := "0xa8dcc602486c63f3c678c9b3c5d615c4d6ab4b7d51868af6881272b5d8bb31ff"
	if got := DomainHash().Hex(); got != want {
		t.Errorf("DomainHash() = %s, want %s", got, want)
	}
	if DomainHash() != DomainHash() {
		t.Error("domain hash is not constant")
	}
	if got := DefaultDomain().Hash().Hex(); got != want {
		t.Errorf("DefaultDomain().Hash() = %s, want %s", got, want)
	}
}

func TestMessageHash(t *testing.T) {
	want := "0x5686079a65f95107943e531f6f7f755044148600233246c75fdce6e59c85cae5"
	if got := MessageHash(common.Hash{}).Hex(); got != want {
		t.Errorf("MessageHash(0) = %s, want %s", got, want)
	}
}

func TestEIP712Hasher_CustomDomain(t *testing.T) {
	h := NewEIP712Hasher(EIP712Domain{Name: "Set Protocol", Version: "2"})

	if h.DomainHash() == DomainHash() {
		t.Error("different version produced the default domain hash")
	}
	if h.MessageHash(common.Hash{}) == MessageHash(common.Hash{}) {
		t.Error("different domain produced the default message hash")
	}
	if h.Domain().Version != "2" {
		t.Errorf("Domain().Version = %s, want 2", h.Domain().Version)
	}

	def := NewEIP712Hasher(DefaultDomain())
	structHash := common.HexToHash("0x675df07e3e160b58802b8cd3941ca648fcc9d2e026eb249a1217d2769749aad0")
	if def.MessageHash(structHash) != MessageHash(structHash) {
		t.Error("default hasher disagrees with package-level MessageHash")
	}
}
