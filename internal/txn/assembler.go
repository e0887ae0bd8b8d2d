// Package txn wraps instruction lists into signed transactions.
package txn

import (
	stderrors "errors"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/errors"
)

// ErrNoInstructions is returned when Assemble is called with an empty list.
var ErrNoInstructions = stderrors.New("no instructions to assemble")

// Assemble bundles instructions, in the given order, into a transaction
// paid for and signed by the supplied key. The signing key is passed
// explicitly on every call; nothing here holds key material.
//
// The recent blockhash has a finite validity window: assemble and submit
// promptly after fetching it, and never cache it across calls.
func Assemble(
	instructions []solana.Instruction,
	payer solana.PublicKey,
	signer solana.PrivateKey,
	recent solana.Hash,
) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, ErrNoInstructions
	}

	tx, err := solana.NewTransaction(
		instructions,
		recent,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, errors.Wrap(err, "build transaction")
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if signer.PublicKey().Equals(key) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	return tx, nil
}
