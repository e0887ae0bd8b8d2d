// Package addr derives the program-owned addresses the OpenBook v2 client
// needs. Every derivation is a pure function of its inputs.
package addr

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Seed labels fixed by the on-chain program.
const (
	openOrdersIndexerSeed = "OpenOrdersIndexer"
	openOrdersSeed        = "OpenOrders"
)

// OpenOrdersIndexer derives the per-owner indexer account that enumerates
// all open-orders accounts belonging to the owner.
func OpenOrdersIndexer(programID, owner solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(openOrdersIndexerSeed), owner.Bytes()},
		programID,
	)
	return pda, err
}

// OpenOrdersAccount derives the owner's numbered open-orders account. The
// account number is encoded little-endian, matching the on-chain seeds.
func OpenOrdersAccount(programID, owner solana.PublicKey, accountNum uint32) (solana.PublicKey, error) {
	var num [4]byte
	binary.LittleEndian.PutUint32(num[:], accountNum)
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(openOrdersSeed), owner.Bytes(), num[:]},
		programID,
	)
	return pda, err
}

// AssociatedTokenAccount derives the owner's associated token account for
// the given mint (standard SPL convention).
func AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return ata, err
}
