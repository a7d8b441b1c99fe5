// Package permit2 builds and signs Permit2 SignatureTransfer authorizations.
//
// The manor contract pulls tokens through the canonical Permit2 deployment,
// so every value-moving call carries a PermitTransferFrom tuple plus an
// EIP-712 signature over it. The signed message additionally binds the
// spender (the manor contract), which is not part of the calldata tuple.
package permit2

import (
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/scallionlabs/manor/internal/chain"
	manorerr "github.com/scallionlabs/manor/pkg/errors"
)

// DeadlineWindow is how long a signed permit stays valid.
const DeadlineWindow = 30 * time.Minute

// Authorization is a permit tuple together with the signature the contract
// forwards to Permit2.
type Authorization struct {
	Permit    chain.PermitTransferFrom
	Signature []byte
}

// Signer produces an EIP-712 signature over typed data. The in-app wallet
// delegates this to the host; the extension backend signs locally.
type Signer interface {
	SignTypedData(data apitypes.TypedData) ([]byte, error)
}

// Builder constructs permit typed data bound to one Permit2 deployment and
// chain. Nonces are wall-clock timestamps in milliseconds; Permit2's
// unordered nonce space makes any unused value acceptable and a timestamp
// never repeats within a session.
type Builder struct {
	permit2 common.Address
	chainID *big.Int

	// now is replaceable in tests.
	now func() time.Time
}

// NewBuilder returns a builder for the given Permit2 deployment and chain ID.
func NewBuilder(permit2Address common.Address, chainID int64) *Builder {
	return &Builder{
		permit2: permit2Address,
		chainID: big.NewInt(chainID),
		now:     time.Now,
	}
}

// NewPermit returns a fresh permit for the given token and amount with a
// timestamp nonce and a deadline DeadlineWindow from now.
func (b *Builder) NewPermit(token common.Address, amount *big.Int) chain.PermitTransferFrom {
	now := b.now()
	return chain.PermitTransferFrom{
		Permitted: chain.TokenPermissions{
			Token:  token,
			Amount: new(big.Int).Set(amount),
		},
		Nonce:    big.NewInt(now.UnixMilli()),
		Deadline: big.NewInt(now.Add(DeadlineWindow).Unix()),
	}
}

// TypedData returns the EIP-712 payload for the permit with the given
// spender. The domain carries no version field, matching the deployed
// Permit2 contract.
func (b *Builder) TypedData(permit chain.PermitTransferFrom, spender common.Address) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"PermitTransferFrom": []apitypes.Type{
				{Name: "permitted", Type: "TokenPermissions"},
				{Name: "spender", Type: "address"},
				{Name: "nonce", Type: "uint256"},
				{Name: "deadline", Type: "uint256"},
			},
			"TokenPermissions": []apitypes.Type{
				{Name: "token", Type: "address"},
				{Name: "amount", Type: "uint256"},
			},
		},
		PrimaryType: "PermitTransferFrom",
		Domain: apitypes.TypedDataDomain{
			Name:              "Permit2",
			ChainId:           (*math.HexOrDecimal256)(b.chainID),
			VerifyingContract: b.permit2.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"permitted": map[string]interface{}{
				"token":  permit.Permitted.Token.Hex(),
				"amount": permit.Permitted.Amount.String(),
			},
			"spender":  spender.Hex(),
			"nonce":    permit.Nonce.String(),
			"deadline": permit.Deadline.String(),
		},
	}
}

// Build creates a permit for token/amount and signs it for the spender.
func (b *Builder) Build(signer Signer, token common.Address, amount *big.Int, spender common.Address) (Authorization, error) {
	permit := b.NewPermit(token, amount)

	sig, err := signer.SignTypedData(b.TypedData(permit, spender))
	if err != nil {
		return Authorization{}, manorerr.Wrap(err, manorerr.ErrGeneral, "failed to sign permit")
	}

	return Authorization{Permit: permit, Signature: sig}, nil
}

// KeySigner signs typed data with a local ECDSA private key.
type KeySigner struct {
	key *ecdsa.PrivateKey
}

// NewKeySigner wraps a private key for local EIP-712 signing.
func NewKeySigner(key *ecdsa.PrivateKey) *KeySigner {
	return &KeySigner{key: key}
}

// SignTypedData hashes the typed data per EIP-712 and signs the digest. The
// recovery byte is shifted to the 27/28 convention contracts expect.
func (s *KeySigner) SignTypedData(data apitypes.TypedData) ([]byte, error) {
	hash, _, err := apitypes.TypedDataAndHash(data)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrInvalidInput, "failed to hash typed data")
	}

	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return nil, manorerr.Wrap(err, manorerr.ErrGeneral, "signing failed")
	}

	sig[64] += 27
	return sig, nil
}

// Address returns the signer's externally owned account address.
func (s *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}
