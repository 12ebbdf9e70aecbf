package account

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/secp256r1"
	"github.com/pkg/errors"

	"github.com/hoops-finance/hoops/common/hash"
)

type clientData struct {
	Challenge string `json:"challenge"`
}

func parsePasskey(pubkey []byte) (*big.Int, *big.Int, error) {
	if len(pubkey) != PasskeyLength || pubkey[0] != 0x04 {
		return nil, nil, errors.Wrapf(ErrInvalidArgument, "passkey of %v bytes", len(pubkey))
	}
	x := new(big.Int).SetBytes(pubkey[1:33])
	y := new(big.Int).SetBytes(pubkey[33:])
	return x, y, nil
}

// Challenge returns the client data challenge a passkey signs for the payload
func Challenge(payload hash.Hash256) string {
	return base64.RawURLEncoding.EncodeToString(payload[:])
}

// SignedDigest returns the digest a WebAuthn authenticator signs
func SignedDigest(authenticatorData []byte, clientDataJSON []byte) []byte {
	cdh := sha256.Sum256(clientDataJSON)
	msg := make([]byte, 0, len(authenticatorData)+len(cdh))
	msg = append(msg, authenticatorData...)
	msg = append(msg, cdh[:]...)
	digest := sha256.Sum256(msg)
	return digest[:]
}

// verifyPasskey checks the signature first and the challenge after it
func verifyPasskey(pubkey []byte, payload hash.Hash256, sig *Secp256r1Signature) error {
	x, y, err := parsePasskey(pubkey)
	if err != nil {
		return err
	}
	if len(sig.Signature) != SignatureLength {
		return errors.Wrapf(ErrInvalidArgument, "signature of %v bytes", len(sig.Signature))
	}
	r := new(big.Int).SetBytes(sig.Signature[:32])
	s := new(big.Int).SetBytes(sig.Signature[32:])
	if !secp256r1.Verify(SignedDigest(sig.AuthenticatorData, sig.ClientDataJSON), r, s, x, y) {
		return errors.Wrap(ErrNotAuthorized, "passkey signature")
	}

	var cd clientData
	if err := json.Unmarshal(sig.ClientDataJSON, &cd); err != nil {
		return ErrJsonParseError.Wrap(err)
	}
	if cd.Challenge != Challenge(payload) {
		return errors.Wrapf(ErrClientDataJsonChallengeIncorrect, "challenge %v", cd.Challenge)
	}
	return nil
}
