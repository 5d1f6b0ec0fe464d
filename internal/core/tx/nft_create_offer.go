package tx

import (
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

const tfSellNFToken uint32 = 0x00000001

// NFTokenCreateOfferFlagSellNFToken is the exported name for tfSellNFToken,
// matching OfferCreate's/AccountSet's own flag-constant naming.
const NFTokenCreateOfferFlagSellNFToken = tfSellNFToken

// NFTokenCreateOffer creates a standing buy or sell offer for an NFToken.
//
// Unlike the generic Offer book, funds (or the token itself) are never
// escrowed when the offer is created — only when it is later accepted
// (nft_accept_offer.go). A sell offer merely asserts the owner's
// willingness to part with a token it still freely controls; a buy offer
// merely asserts the buyer's willingness to pay, checked against their
// balance again at acceptance time, not reserved against it now.
type NFTokenCreateOffer struct {
	BaseTx

	// NFTokenID is the token this offer is for (required).
	NFTokenID string `json:"NFTokenID" xrpl:"NFTokenID"`

	// Amount is the price (required; XRP or an issued amount).
	Amount Amount `json:"Amount" xrpl:"Amount"`

	// Owner is the token's current holder (required for a buy offer;
	// forbidden for a sell offer, where Account itself is the owner).
	Owner string `json:"Owner,omitempty" xrpl:"Owner,omitempty"`

	// Destination restricts who may accept this offer (optional).
	Destination string `json:"Destination,omitempty" xrpl:"Destination,omitempty"`

	// Expiration is when the offer stops being acceptable (optional).
	Expiration *uint32 `json:"Expiration,omitempty" xrpl:"Expiration,omitempty"`
}

func init() {
	Register(TypeNFTokenCreateOffer, func() Transaction {
		return &NFTokenCreateOffer{BaseTx: *NewBaseTx(TypeNFTokenCreateOffer, "")}
	})
}

// NewNFTokenCreateOffer creates a new NFTokenCreateOffer transaction.
func NewNFTokenCreateOffer(account, nftokenID string, amount Amount) *NFTokenCreateOffer {
	return &NFTokenCreateOffer{
		BaseTx:    *NewBaseTx(TypeNFTokenCreateOffer, account),
		NFTokenID: nftokenID,
		Amount:    amount,
	}
}

// TxType returns the transaction type.
func (o *NFTokenCreateOffer) TxType() Type {
	return TypeNFTokenCreateOffer
}

// Validate validates the NFTokenCreateOffer transaction.
// Reference: rippled NFTokenCreateOffer.cpp preflight
func (o *NFTokenCreateOffer) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}

	if o.GetFlags()&^tfSellNFToken != 0 {
		return errors.New("temINVALID_FLAG: NFTokenCreateOffer flags out of range")
	}
	isSell := o.GetFlags()&tfSellNFToken != 0

	if o.NFTokenID == "" {
		return errors.New("temMALFORMED: NFTokenID is required")
	}

	if o.Amount.IsNegative() {
		return errors.New("temBAD_AMOUNT: Amount cannot be negative")
	}
	if !isSell && o.Amount.IsZero() {
		return errors.New("temBAD_AMOUNT: buy offers must be non-zero")
	}

	if isSell && o.Owner != "" {
		return errors.New("temMALFORMED: Owner is not valid on a sell offer")
	}
	if !isSell && o.Owner == "" {
		return errors.New("temMALFORMED: Owner is required on a buy offer")
	}
	if o.Owner != "" && o.Owner == o.Account {
		return errors.New("temMALFORMED: Owner cannot be the offering account")
	}

	if o.Destination != "" && o.Destination == o.Account {
		return errors.New("temMALFORMED: Destination cannot be the offering account")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields.
func (o *NFTokenCreateOffer) Flatten() (map[string]any, error) {
	return ReflectFlatten(o)
}

// RequiredAmendments returns the amendments required for this transaction type.
func (o *NFTokenCreateOffer) RequiredAmendments() []string {
	return []string{AmendmentNonFungibleTokensV1}
}

// Apply records a standing offer against an existing NFToken.
// Reference: rippled NFTokenCreateOffer.cpp preclaim/doApply.
func (o *NFTokenCreateOffer) Apply(ctx *ApplyContext) Result {
	tokenID, err := hexDecodeFixed32(o.NFTokenID)
	if err != nil {
		return TemINVALID
	}
	isSell := o.GetFlags()&tfSellNFToken != 0

	if nftIsOnlyXRP(tokenID) && !o.Amount.IsNative() {
		return TecNFTOKEN_OFFER_TYPE_MISMATCH
	}

	if isSell {
		_, _, _, found, err := findNFToken(ctx.View, ctx.AccountID, tokenID)
		if err != nil {
			return TefINTERNAL
		}
		if !found {
			return TecNO_ENTRY
		}
		issuerID := nftIDIssuer(tokenID)
		if issuerID != ctx.AccountID && !nftIsTransferable(tokenID) {
			return TefNFTOKEN_IS_NOT_TRANSFERABLE
		}
	} else {
		ownerID, err := decodeAccountID(o.Owner)
		if err != nil {
			return TemINVALID
		}
		_, _, _, found, err := findNFToken(ctx.View, ownerID, tokenID)
		if err != nil {
			return TefINTERNAL
		}
		if !found {
			return TecNO_ENTRY
		}
		if ownerID == ctx.AccountID {
			return TecCANT_ACCEPT_OWN_NFTOKEN_OFFER
		}
		issuerID := nftIDIssuer(tokenID)
		if issuerID != ownerID && !nftIsTransferable(tokenID) {
			return TefNFTOKEN_IS_NOT_TRANSFERABLE
		}
	}

	if result := ctx.CheckReserveIncrease(ctx.Account.Balance, ctx.Account.OwnerCount); result != TesSUCCESS {
		return result
	}

	var destPtr *[20]byte
	if o.Destination != "" {
		dst, err := decodeAccountID(o.Destination)
		if err != nil {
			return TemINVALID
		}
		destPtr = &dst
	}

	// Owner on the offer object always names whoever created it — the
	// seller for a sell offer, the prospective buyer for a buy offer — not
	// the token's current holder (o.Owner, used only to locate the token
	// for a buy offer's preclaim checks above).
	offer := &NFTokenOfferData{
		Owner:       ctx.AccountID,
		TokenID:     tokenID,
		Amount:      o.Amount,
		Destination: destPtr,
		Expiration:  o.Expiration,
		IsSellOffer: isSell,
	}
	offerKeylet := keylet.NFTokenOffer(ctx.AccountID, ctx.Account.Sequence-1)
	if err := createNFTokenOffer(ctx.View, offerKeylet, offer); err != nil {
		return TecDIR_FULL
	}
	ctx.Account.OwnerCount++

	return TesSUCCESS
}
