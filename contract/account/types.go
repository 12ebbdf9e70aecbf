package account

import (
	"io"

	"github.com/hoops-finance/hoops/common/bin"
)

// PasskeyLength is the size of an uncompressed P-256 public key
const PasskeyLength = 65

// SignatureLength is the size of a r||s P-256 signature
const SignatureLength = 64

// Secp256r1Signature is the WebAuthn assertion a passkey account checks.
// It is the credential a transaction carries for the account.
type Secp256r1Signature struct {
	AuthenticatorData []byte
	ClientDataJSON    []byte
	Signature         []byte
}

func (s *Secp256r1Signature) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Bytes(w, s.AuthenticatorData); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, s.ClientDataJSON); err != nil {
		return sum, err
	}
	if sum, err := sw.Bytes(w, s.Signature); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Secp256r1Signature) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Bytes(r, &s.AuthenticatorData); err != nil {
		return sum, err
	}
	if sum, err := sr.Bytes(r, &s.ClientDataJSON); err != nil {
		return sum, err
	}
	if sum, err := sr.Bytes(r, &s.Signature); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
