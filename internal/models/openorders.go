package models

import (
	"github.com/gagliardetto/solana-go"
)

// OpenOrdersDiscriminator tags OpenOrdersAccount accounts (first 8 bytes).
var OpenOrdersDiscriminator = AccountDiscriminator("OpenOrdersAccount")

// OpenOrdersOwnerOffset is the byte offset of the owner key inside an
// OpenOrdersAccount payload; the filtered program scan matches on it.
const OpenOrdersOwnerOffset = 8

// OpenOrdersAccount is the header of a per-owner order-tracking account.
// An owner may hold several, distinguished by AccountNum; a logical account
// is addressed by Name. Position and resting-order data past the header are
// not needed by the client and are left undecoded.
type OpenOrdersAccount struct {
	Owner      solana.PublicKey
	Market     solana.PublicKey
	RawName    [32]byte
	Delegate   solana.PublicKey // zero key means unset
	AccountNum uint32
	Bump       uint8
}

// DecodeOpenOrdersAccount deserializes the header of an OpenOrdersAccount
// payload, verifying the leading discriminator.
func DecodeOpenOrdersAccount(data []byte) (*OpenOrdersAccount, error) {
	r := newReader(data)
	if err := r.checkDiscriminator(OpenOrdersDiscriminator); err != nil {
		return nil, err
	}

	a := &OpenOrdersAccount{}
	var err error
	if a.Owner, err = r.pubkey(); err != nil {
		return nil, err
	}
	if a.Market, err = r.pubkey(); err != nil {
		return nil, err
	}
	name, err := r.bytes(32)
	if err != nil {
		return nil, err
	}
	copy(a.RawName[:], name)
	if a.Delegate, err = r.pubkey(); err != nil {
		return nil, err
	}
	if a.AccountNum, err = r.u32(); err != nil {
		return nil, err
	}
	if a.Bump, err = r.u8(); err != nil {
		return nil, err
	}
	// version, padding, position and the resting-order slab follow

	return a, nil
}

// Name returns the account's logical name with zero padding removed.
func (a *OpenOrdersAccount) Name() string {
	return trimName(a.RawName[:])
}
