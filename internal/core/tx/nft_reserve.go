package tx

import "github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"

// adjustOwnerCount changes accountID's OwnerCount by delta (which may be
// negative), never letting it underflow below zero.
//
// accountID's root is often not the transaction's own source account (an
// offer being cancelled during NFTokenBurn may belong to someone else
// entirely), so two paths exist: if accountID is the source account, the
// already-loaded ctx.Account is mutated in place and left for the engine
// to persist at the end of Apply, the same way every other transaction
// type in this package updates its own account; otherwise the account is
// read, patched, and written back immediately, the same pattern
// apply_escrow.go and amm.go already use for a transaction's secondary
// accounts (destAccount, ammAccount, ...).
func adjustOwnerCount(ctx *ApplyContext, accountID [20]byte, delta int) error {
	if accountID == ctx.AccountID {
		ctx.Account.OwnerCount = clampOwnerCount(ctx.Account.OwnerCount, delta)
		return nil
	}

	data, err := ctx.View.Read(keylet.Account(accountID))
	if err != nil {
		return err
	}
	account, err := ParseAccountRootFromBytes(data)
	if err != nil {
		return err
	}
	account.OwnerCount = clampOwnerCount(account.OwnerCount, delta)

	updated, err := serializeAccountRoot(account)
	if err != nil {
		return err
	}
	return ctx.View.Update(keylet.Account(accountID), updated)
}

func clampOwnerCount(count uint32, delta int) uint32 {
	if delta >= 0 {
		return count + uint32(delta)
	}
	dec := uint32(-delta)
	if dec > count {
		return 0
	}
	return count - dec
}

// reserveForOneMoreObject reports whether account can absorb the reserve
// cost of one additional owned object (an NFTokenOffer, most commonly)
// given its current balance and owner count.
func reserveForOneMoreObject(ctx *ApplyContext, balance uint64, ownerCount uint32) Result {
	return ctx.CheckReserveIncrease(balance, ownerCount)
}

// loadAccountRoot reads and parses any account's root entry by ID.
func loadAccountRoot(view LedgerView, accountID [20]byte) (*AccountRoot, error) {
	data, err := view.Read(keylet.Account(accountID))
	if err != nil {
		return nil, err
	}
	return ParseAccountRootFromBytes(data)
}

// saveAccountRoot writes account back to accountID's root entry. Never
// call this for ctx.AccountID itself — the engine owns persisting
// ctx.Account once Apply returns, the same convention every Appliable in
// this package already follows.
func saveAccountRoot(view LedgerView, accountID [20]byte, account *AccountRoot) error {
	data, err := serializeAccountRoot(account)
	if err != nil {
		return err
	}
	return view.Update(keylet.Account(accountID), data)
}
