package tx

import (
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

// NFTokenBurn permanently destroys an NFToken.
type NFTokenBurn struct {
	BaseTx

	// NFTokenID is the token to destroy (required).
	NFTokenID string `json:"NFTokenID" xrpl:"NFTokenID"`

	// Owner is the token's current holder, required only when Account is
	// not the holder (the issuer or an authorized minter burning on behalf
	// of someone else, via the Burnable flag).
	Owner string `json:"Owner,omitempty" xrpl:"Owner,omitempty"`
}

func init() {
	Register(TypeNFTokenBurn, func() Transaction {
		return &NFTokenBurn{BaseTx: *NewBaseTx(TypeNFTokenBurn, "")}
	})
}

// NewNFTokenBurn creates a new NFTokenBurn transaction.
func NewNFTokenBurn(account, nftokenID string) *NFTokenBurn {
	return &NFTokenBurn{
		BaseTx:    *NewBaseTx(TypeNFTokenBurn, account),
		NFTokenID: nftokenID,
	}
}

// TxType returns the transaction type.
func (b *NFTokenBurn) TxType() Type {
	return TypeNFTokenBurn
}

// Validate validates the NFTokenBurn transaction.
func (b *NFTokenBurn) Validate() error {
	if err := b.BaseTx.Validate(); err != nil {
		return err
	}
	if b.GetFlags() != 0 {
		return errors.New("temINVALID_FLAG: NFTokenBurn does not accept flags")
	}
	if b.NFTokenID == "" {
		return errors.New("temMALFORMED: NFTokenID is required")
	}
	return nil
}

// Flatten returns a flat map of all transaction fields.
func (b *NFTokenBurn) Flatten() (map[string]any, error) {
	return ReflectFlatten(b)
}

// RequiredAmendments returns the amendments required for this transaction type.
func (b *NFTokenBurn) RequiredAmendments() []string {
	return []string{AmendmentNonFungibleTokensV1}
}

// Apply destroys the named token: every outstanding offer against it is
// cancelled first (so neither directory is left pointing at a token that
// no longer exists), the token is removed from its owner's page chain, and
// the issuer's burned-token counter is incremented.
// Reference: rippled NFTokenBurn.cpp preclaim/doApply.
func (b *NFTokenBurn) Apply(ctx *ApplyContext) Result {
	var tokenID [32]byte
	decoded, err := hexDecodeFixed32(b.NFTokenID)
	if err != nil {
		return TemINVALID
	}
	tokenID = decoded

	ownerID := ctx.AccountID
	if b.Owner != "" {
		decoded, err := decodeAccountID(b.Owner)
		if err != nil {
			return TemINVALID
		}
		ownerID = decoded
	}

	issuerID := nftIDIssuer(tokenID)
	_, _, _, found, err := findNFToken(ctx.View, ownerID, tokenID)
	if err != nil {
		return TefINTERNAL
	}
	if !found {
		return TecNO_ENTRY
	}

	if ownerID != ctx.AccountID {
		isIssuer := issuerID == ctx.AccountID
		isAuthorizedMinter := false
		if !isIssuer {
			issuerData, err := ctx.View.Read(keylet.Account(issuerID))
			if err == nil {
				if issuerAccount, err := ParseAccountRootFromBytes(issuerData); err == nil {
					minterID, err := decodeAccountID(issuerAccount.NFTokenMinter)
					isAuthorizedMinter = err == nil && issuerAccount.NFTokenMinter != "" && minterID == ctx.AccountID
				}
			}
		}
		if !isIssuer && !isAuthorizedMinter && !nftIsBurnable(tokenID) {
			return TecNO_PERMISSION
		}
	}

	buyOffers, err := collectTokenOffers(ctx.View, tokenID, false, maxNFTokenOfferCancelCount)
	if err != nil {
		return TefINTERNAL
	}
	sellOffers, err := collectTokenOffers(ctx.View, tokenID, true, maxNFTokenOfferCancelCount-len(buyOffers))
	if err != nil {
		return TefINTERNAL
	}

	cancelled := 0
	for _, offerKeylet := range append(buyOffers, sellOffers...) {
		offer, ok, err := readNFTokenOffer(ctx.View, offerKeylet)
		if err != nil {
			return TefINTERNAL
		}
		if !ok {
			continue
		}
		if err := removeNFTokenOffer(ctx.View, offerKeylet, offer); err != nil {
			return TefINTERNAL
		}
		if err := adjustOwnerCount(ctx, offer.Owner, -1); err != nil {
			return TefINTERNAL
		}
		cancelled++
	}

	pagesDelta, err := removeNFTokenFromPages(ctx.View, ownerID, tokenID)
	if err != nil {
		return TefINTERNAL
	}

	// Only a destroyed page frees an owned object (spec §4.F); a token
	// removed from a page that still holds others afterward must leave
	// OwnerCount untouched.
	if pagesDelta != 0 {
		if err := adjustOwnerCount(ctx, ownerID, pagesDelta); err != nil {
			return TefINTERNAL
		}
	}

	if issuerID == ctx.AccountID {
		ctx.Account.BurnedNFTokens++
	} else {
		issuerData, err := ctx.View.Read(keylet.Account(issuerID))
		if err != nil {
			return TefINTERNAL
		}
		issuerAccount, err := ParseAccountRootFromBytes(issuerData)
		if err != nil {
			return TefINTERNAL
		}
		issuerAccount.BurnedNFTokens++
		issuerBytes, err := serializeAccountRoot(issuerAccount)
		if err != nil {
			return TefINTERNAL
		}
		if err := ctx.View.Update(keylet.Account(issuerID), issuerBytes); err != nil {
			return TefINTERNAL
		}
	}

	return TesSUCCESS
}

// hexDecodeFixed32 decodes a 64-character hex string into a [32]byte,
// rejecting anything else.
func hexDecodeFixed32(s string) ([32]byte, error) {
	var out [32]byte
	if len(s) != 64 {
		return out, errors.New("expected 32-byte hex value")
	}
	for i := 0; i < 32; i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return out, errors.New("invalid hex digit")
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
