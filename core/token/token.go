// Package token defines the external fungible-token collaborator consumed by
// the vesting core. The core never assumes a transfer succeeds; a failed
// transfer aborts the enclosing operation.
package token

import "math/big"

// Transferor moves tokens between external holders and the pooled vesting
// holdings, and reports holder balances.
type Transferor interface {
	// TransferIn debits the holder and credits the pooled holdings.
	TransferIn(from string, amount *big.Int) error
	// TransferOut debits the pooled holdings and credits the holder.
	TransferOut(to string, amount *big.Int) error
	// BalanceOf reports the holder's balance.
	BalanceOf(holder string) (*big.Int, error)
}
