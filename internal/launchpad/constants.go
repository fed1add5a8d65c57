// internal/launchpad/constants.go
package launchpad

import "github.com/gagliardetto/solana-go"

// Bounds enforced when the protocol config is initialized. Fees are
// parts of the feeDivisor used in FeePolicy.
const (
	MinProtocolFee uint32 = 5_000
	MaxProtocolFee uint32 = 10_000

	MinAssetRate         uint64 = 1 // 1 lamport
	MinGraduateThreshold uint64 = 1 // 1 lamport
	MinCreatorSellDelay  int64  = 1 // 1 second
)

// Token metadata length bounds, matching the on-chain limits.
const (
	MinTokenNameLength   = 3
	MaxTokenNameLength   = 32
	MinTokenSymbolLength = 3
	MaxTokenSymbolLength = 10
	MinTokenURILength    = 10
	MaxTokenURILength    = 200
)

// ProgramID namespaces every vault derivation. Account funding and key
// custody for these addresses belong to the hosting ledger.
var ProgramID = solana.PublicKeyFromBytes([]byte("launchpad.engine.program.seed.v1"))

// Derivation seeds for protocol and per-token vault accounts.
var (
	configSeed          = []byte("launch_pad_config:")
	feeVaultSeed        = []byte("vault:")
	tokenSeed           = []byte("launch_pad_token:")
	graduationVaultSeed = []byte("vault_graduation:")
	assetDepositSeed    = []byte("vault_asset_graduation:")
	tokenDepositSeed    = []byte("vault_token_graduation:")
)

// FeeVaultAddress derives the protocol-wide fee vault.
func FeeVaultAddress() solana.PublicKey {
	addr, _, err := solana.FindProgramAddress([][]byte{configSeed, feeVaultSeed}, ProgramID)
	if err != nil {
		// Derivation over fixed seeds cannot fail at runtime.
		panic(err)
	}
	return addr
}

// TokenVaultAddresses derives the per-token graduation vault (raw
// reserve asset escrow) and custody token account (unsold supply).
func TokenVaultAddresses(mint solana.PublicKey) (graduationVault, custodyAccount solana.PublicKey) {
	graduationVault = mustDerive(graduationVaultSeed, mint)
	custodyAccount = mustDerive(tokenSeed, mint)
	return graduationVault, custodyAccount
}

// GraduationDepositAddresses derives the temporary accounts that hold
// the two pool-seed deposits during graduation.
func GraduationDepositAddresses(mint solana.PublicKey) (assetDeposit, tokenDeposit solana.PublicKey) {
	assetDeposit = mustDerive(assetDepositSeed, mint)
	tokenDeposit = mustDerive(tokenDepositSeed, mint)
	return assetDeposit, tokenDeposit
}

func mustDerive(seed []byte, mint solana.PublicKey) solana.PublicKey {
	addr, _, err := solana.FindProgramAddress([][]byte{seed, mint.Bytes()}, ProgramID)
	if err != nil {
		panic(err)
	}
	return addr
}
