package model

import "math/big"

// Accounts aggregates the ledger totals of one beneficiary. Vested is the
// remaining claimable total and decreases on withdraw and revoke; the other
// three are cumulative and never decrease.
type Accounts struct {
	Vested    *big.Int `json:"vested"`
	Released  *big.Int `json:"released"`
	Withdrawn *big.Int `json:"withdrawn"`
	Revoked   *big.Int `json:"revoked"`
}

// ZeroAccounts returns an Accounts value with all totals at zero.
func ZeroAccounts() Accounts {
	return Accounts{
		Vested:    big.NewInt(0),
		Released:  big.NewInt(0),
		Withdrawn: big.NewInt(0),
		Revoked:   big.NewInt(0),
	}
}

// Clone returns a deep copy.
func (a Accounts) Clone() Accounts {
	return Accounts{
		Vested:    new(big.Int).Set(a.Vested),
		Released:  new(big.Int).Set(a.Released),
		Withdrawn: new(big.Int).Set(a.Withdrawn),
		Revoked:   new(big.Int).Set(a.Revoked),
	}
}
