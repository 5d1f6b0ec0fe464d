package tx

// AccountOwnsNFTokens reports whether accountID still holds any NFToken,
// i.e. has at least one NFTokenPage. An account-deletion transaction must
// refuse to delete such an account, the same way it refuses to delete an
// account that still owns any other ledger object.
func AccountOwnsNFTokens(view LedgerView, accountID [20]byte) (bool, error) {
	count, err := countNFTokenPages(view, accountID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AccountIsLiveNFTokenIssuer reports whether accountID is still the issuer
// of any outstanding (unburned) NFToken: MintedNFTokens exceeds
// BurnedNFTokens. An issuer with tokens still circulating cannot be
// deleted, since deleting it would strand those tokens' cipher-derived
// issuer reference.
func AccountIsLiveNFTokenIssuer(view LedgerView, accountID [20]byte) (bool, error) {
	account, err := loadAccountRoot(view, accountID)
	if err != nil {
		return false, err
	}
	return account.MintedNFTokens > account.BurnedNFTokens, nil
}

// NFTokenBlocksAccountDeletion combines both outstanding-token checks an
// AccountDelete transaction must run before it may proceed. Outstanding
// NFTokenOffers are deliberately not checked here: unlike pages, a
// standing offer has no bearing on whether the account can safely vanish,
// since whichever side still exists simply finds the offer gone (the same
// treatment AccountDelete already gives other accounts' Offer objects).
func NFTokenBlocksAccountDeletion(view LedgerView, accountID [20]byte) (bool, error) {
	ownsTokens, err := AccountOwnsNFTokens(view, accountID)
	if err != nil {
		return false, err
	}
	if ownsTokens {
		return true, nil
	}
	return AccountIsLiveNFTokenIssuer(view, accountID)
}
