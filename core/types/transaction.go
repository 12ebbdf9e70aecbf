package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hoops-finance/hoops/common"
	"github.com/hoops-finance/hoops/common/bin"
	"github.com/hoops-finance/hoops/common/hash"
)

// Transaction is a top level invocation submitted to the host
type Transaction struct {
	Timestamp   uint64
	Seq         uint64
	From        common.Address
	To          common.Address
	Method      string
	Args        []interface{}
	Signers     []common.Address
	Credentials map[common.Address][]byte
}

// NewTransaction returns a Transaction signed by from
func NewTransaction(from common.Address, to common.Address, method string, args ...interface{}) *Transaction {
	return &Transaction{
		From:   from,
		To:     to,
		Method: method,
		Args:   args,
	}
}

// WithCredential attaches the credential a custom account checks
func (s *Transaction) WithCredential(addr common.Address, cred []byte) *Transaction {
	if s.Credentials == nil {
		s.Credentials = map[common.Address][]byte{}
	}
	s.Credentials[addr] = cred
	return s
}

// IsSigner returns the address signed the transaction, From always has
func (s *Transaction) IsSigner(addr common.Address) bool {
	if addr == s.From {
		return true
	}
	for _, v := range s.Signers {
		if v == addr {
			return true
		}
	}
	return false
}

// WriteTo writes the signed part of the transaction, credentials excluded
func (s *Transaction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint64(w, s.Timestamp); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.Seq); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.From); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.To); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Method); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, fmt.Sprint(s.Args...)); err != nil {
		return sum, err
	}
	if sum, err := sw.Addresses(w, s.Signers); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

// Hash returns the payload custom accounts sign
func (s *Transaction) Hash() hash.Hash256 {
	var buffer bytes.Buffer
	if _, err := s.WriteTo(&buffer); err != nil {
		panic(err)
	}
	return hash.Hash(buffer.Bytes())
}
