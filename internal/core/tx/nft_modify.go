package tx

// RequiredAmendments returns the amendments required for this transaction type.
func (n *NFTokenModify) RequiredAmendments() []string {
	return []string{AmendmentDynamicNFT}
}

// Apply rewrites the URI stored for an existing NFToken. Only the token's
// issuer may do this, and only when the token was minted with the mutable
// flag set. Reference: rippled NFTokenModify.cpp doApply.
func (n *NFTokenModify) Apply(ctx *ApplyContext) Result {
	tokenID, err := hexDecodeFixed32(n.NFTokenID)
	if err != nil {
		return TemINVALID
	}

	ownerID := ctx.AccountID
	if n.Owner != "" {
		decoded, err := decodeAccountID(n.Owner)
		if err != nil {
			return TemINVALID
		}
		ownerID = decoded
	}

	if !nftIsMutable(tokenID) {
		return TecNO_PERMISSION
	}
	issuerID := nftIDIssuer(tokenID)
	if issuerID != ctx.AccountID {
		return TecNO_PERMISSION
	}

	pageKeylet, page, idx, found, err := findNFToken(ctx.View, ownerID, tokenID)
	if err != nil {
		return TefINTERNAL
	}
	if !found {
		return TecNO_ENTRY
	}

	page.Tokens[idx].URI = n.URI
	encoded := serializeNFTokenPage(page)
	if err := ctx.View.Update(pageKeylet, encoded); err != nil {
		return TefINTERNAL
	}

	return TesSUCCESS
}
