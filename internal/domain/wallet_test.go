package domain_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvilla87/polymirror/internal/domain"
)

// Clave de test conocida (la #0 de los nodos de desarrollo de hardhat).
const (
	testKey     = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testKeyAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestParseCredential(t *testing.T) {
	for _, input := range []string{
		testKey,
		"0x" + testKey,
		"0X" + testKey,
		"  " + testKey + "\n",
	} {
		cred, err := domain.ParseCredential(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, testKeyAddr, cred.Address.Hex())
	}
}

func TestParseCredential_Invalid(t *testing.T) {
	for _, input := range []string{"", "zzzz", "0x1234", testKey[:32]} {
		_, err := domain.ParseCredential(input)
		assert.ErrorIs(t, err, domain.ErrInvalidCredential, "input %q", input)
	}
}

func TestWalletModeFunderOr(t *testing.T) {
	derived := common.HexToAddress(testKeyAddr)

	m := domain.WalletMode{SignatureType: domain.SignatureEOA}
	assert.Equal(t, testKeyAddr, m.FunderOr(derived))

	m.Funder = "0x9402f72dD37752b5bcaBA6C6d08Bf1b1E29b2AEf"
	assert.Equal(t, m.Funder, m.FunderOr(derived))
}

func TestChecksumAddress(t *testing.T) {
	assert.Equal(t, testKeyAddr, domain.ChecksumAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"))
	// inputs no-dirección vuelven tal cual
	assert.Equal(t, "not-an-address", domain.ChecksumAddress("not-an-address"))
	assert.Equal(t, "", domain.ChecksumAddress(""))
}

func TestSettingsMaskedKey(t *testing.T) {
	s := domain.Settings{PrivateKey: testKey}
	masked := s.MaskedKey()
	assert.Equal(t, "ac09...ff80", masked)
	assert.NotContains(t, masked, testKey[10:20])

	assert.Empty(t, domain.Settings{PrivateKey: "short"}.MaskedKey())
}
