package tx

import (
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/entry"
	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

// NFTokenAcceptOffer settles a standing offer, either directly (the caller
// is the offer's counterparty) or brokered (the caller matches an existing
// buy offer against an existing sell offer and keeps the spread).
type NFTokenAcceptOffer struct {
	BaseTx

	// NFTokenSellOffer is the sell offer to accept (optional).
	NFTokenSellOffer string `json:"NFTokenSellOffer,omitempty" xrpl:"NFTokenSellOffer,omitempty"`

	// NFTokenBuyOffer is the buy offer to accept (optional).
	NFTokenBuyOffer string `json:"NFTokenBuyOffer,omitempty" xrpl:"NFTokenBuyOffer,omitempty"`

	// NFTokenBrokerFee is the broker's cut of a brokered match (optional,
	// only meaningful when both offer fields are set).
	NFTokenBrokerFee *Amount `json:"NFTokenBrokerFee,omitempty" xrpl:"NFTokenBrokerFee,omitempty"`
}

func init() {
	Register(TypeNFTokenAcceptOffer, func() Transaction {
		return &NFTokenAcceptOffer{BaseTx: *NewBaseTx(TypeNFTokenAcceptOffer, "")}
	})
}

// NewNFTokenAcceptOffer creates a new NFTokenAcceptOffer transaction.
func NewNFTokenAcceptOffer(account string) *NFTokenAcceptOffer {
	return &NFTokenAcceptOffer{BaseTx: *NewBaseTx(TypeNFTokenAcceptOffer, account)}
}

// TxType returns the transaction type.
func (a *NFTokenAcceptOffer) TxType() Type {
	return TypeNFTokenAcceptOffer
}

// Validate validates the NFTokenAcceptOffer transaction.
// Reference: rippled NFTokenAcceptOffer.cpp preflight
func (a *NFTokenAcceptOffer) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	if a.GetFlags() != 0 {
		return errors.New("temINVALID_FLAG: NFTokenAcceptOffer does not accept flags")
	}
	if a.NFTokenSellOffer == "" && a.NFTokenBuyOffer == "" {
		return errors.New("temMALFORMED: at least one of NFTokenSellOffer/NFTokenBuyOffer is required")
	}
	if a.NFTokenBrokerFee != nil {
		if a.NFTokenSellOffer == "" || a.NFTokenBuyOffer == "" {
			return errors.New("temMALFORMED: NFTokenBrokerFee requires both offers")
		}
		if a.NFTokenBrokerFee.IsNegative() || a.NFTokenBrokerFee.IsZero() {
			return errors.New("temMALFORMED: NFTokenBrokerFee must be positive")
		}
	}
	return nil
}

// Flatten returns a flat map of all transaction fields.
func (a *NFTokenAcceptOffer) Flatten() (map[string]any, error) {
	return ReflectFlatten(a)
}

// RequiredAmendments returns the amendments required for this transaction type.
func (a *NFTokenAcceptOffer) RequiredAmendments() []string {
	return []string{AmendmentNonFungibleTokensV1}
}

// Apply settles the named offer(s), moving the token to its new owner and
// paying whoever is owed. Reference: rippled NFTokenAcceptOffer.cpp
// preclaim/doApply.
func (a *NFTokenAcceptOffer) Apply(ctx *ApplyContext) Result {
	var sellKeylet, buyKeylet keylet.Keylet
	var sellOffer, buyOffer *NFTokenOfferData
	var haveSell, haveBuy bool

	if a.NFTokenSellOffer != "" {
		id, err := hexDecodeFixed32(a.NFTokenSellOffer)
		if err != nil {
			return TemINVALID
		}
		sellKeylet = keylet.Keylet{Type: entry.TypeNFTokenOffer, Key: id}
		offer, ok, err := readNFTokenOffer(ctx.View, sellKeylet)
		if err != nil {
			return TefINTERNAL
		}
		if !ok || !offer.IsSellOffer {
			return TecOBJECT_NOT_FOUND
		}
		if offer.Expiration != nil && *offer.Expiration <= ctx.Config.ParentCloseTime {
			return TecEXPIRED
		}
		sellOffer, haveSell = offer, true
	}

	if a.NFTokenBuyOffer != "" {
		id, err := hexDecodeFixed32(a.NFTokenBuyOffer)
		if err != nil {
			return TemINVALID
		}
		buyKeylet = keylet.Keylet{Type: entry.TypeNFTokenOffer, Key: id}
		offer, ok, err := readNFTokenOffer(ctx.View, buyKeylet)
		if err != nil {
			return TefINTERNAL
		}
		if !ok || offer.IsSellOffer {
			return TecOBJECT_NOT_FOUND
		}
		if offer.Expiration != nil && *offer.Expiration <= ctx.Config.ParentCloseTime {
			return TecEXPIRED
		}
		buyOffer, haveBuy = offer, true
	}

	switch {
	case haveSell && haveBuy:
		return a.applyBrokered(ctx, sellKeylet, sellOffer, buyKeylet, buyOffer)
	case haveSell:
		return a.applyDirect(ctx, sellKeylet, sellOffer, true)
	default:
		return a.applyDirect(ctx, buyKeylet, buyOffer, false)
	}
}

// applyDirect settles a single offer against ctx.Account: the caller
// itself is the counterparty (the buyer accepting a sell offer, or the
// current owner accepting a buy offer).
func (a *NFTokenAcceptOffer) applyDirect(ctx *ApplyContext, offerKeylet keylet.Keylet, offer *NFTokenOfferData, isSellOffer bool) Result {
	if offer.Destination != nil && *offer.Destination != ctx.AccountID {
		return TecNO_PERMISSION
	}

	var buyer, seller [20]byte
	if isSellOffer {
		seller = offer.Owner
		buyer = ctx.AccountID
	} else {
		buyer = offer.Owner
		seller = ctx.AccountID
	}

	if _, _, _, found, err := findNFToken(ctx.View, seller, offer.TokenID); err != nil {
		return TefINTERNAL
	} else if !found {
		return TecNO_ENTRY
	}

	// Offers are deleted before funds move (spec §4.E, §5): settlement's
	// reserve check on the buyer must see the accepted offer already gone,
	// not still counted against the buyer's owned-object total.
	if err := removeNFTokenOffer(ctx.View, offerKeylet, offer); err != nil {
		return TefINTERNAL
	}
	if err := adjustOwnerCount(ctx, offer.Owner, -1); err != nil {
		return TefINTERNAL
	}

	if result := settleNFTokenSale(ctx, offer.TokenID, buyer, seller, offer.Amount); result != TesSUCCESS {
		return result
	}

	return TesSUCCESS
}

// applyBrokered matches an independent buy offer against an independent
// sell offer; ctx.Account is neither party, and keeps the spread between
// what the buyer bid and what the seller asked (capped, when present, at
// NFTokenBrokerFee).
func (a *NFTokenAcceptOffer) applyBrokered(ctx *ApplyContext, sellKeylet keylet.Keylet, sellOffer *NFTokenOfferData, buyKeylet keylet.Keylet, buyOffer *NFTokenOfferData) Result {
	if sellOffer.TokenID != buyOffer.TokenID {
		return TecNFTOKEN_BUY_SELL_MISMATCH
	}
	if sellOffer.Destination != nil && *sellOffer.Destination != buyOffer.Owner {
		return TecNO_PERMISSION
	}
	if buyOffer.Destination != nil && *buyOffer.Destination != ctx.AccountID {
		return TecNO_PERMISSION
	}
	if buyOffer.Amount.IsNative() != sellOffer.Amount.IsNative() ||
		(!buyOffer.Amount.IsNative() && (buyOffer.Amount.Currency != sellOffer.Amount.Currency || buyOffer.Amount.Issuer != sellOffer.Amount.Issuer)) {
		return TecNFTOKEN_BUY_SELL_MISMATCH
	}
	if buyOffer.Amount.Compare(sellOffer.Amount) < 0 {
		return TecINSUFFICIENT_PAYMENT
	}

	seller, buyer := sellOffer.Owner, buyOffer.Owner
	if _, _, _, found, err := findNFToken(ctx.View, seller, sellOffer.TokenID); err != nil {
		return TefINTERNAL
	} else if !found {
		return TecNO_ENTRY
	}

	// Offers are deleted before funds move (spec §4.E, §5), same as
	// applyDirect: by the time settleNFTokenSale checks the buyer's
	// reserve, the buy offer it is about to free must already be gone.
	if err := removeNFTokenOffer(ctx.View, sellKeylet, sellOffer); err != nil {
		return TefINTERNAL
	}
	if err := adjustOwnerCount(ctx, sellOffer.Owner, -1); err != nil {
		return TefINTERNAL
	}
	if err := removeNFTokenOffer(ctx.View, buyKeylet, buyOffer); err != nil {
		return TefINTERNAL
	}
	if err := adjustOwnerCount(ctx, buyOffer.Owner, -1); err != nil {
		return TefINTERNAL
	}

	fee := a.NFTokenBrokerFee
	if fee != nil {
		spread, err := buyOffer.Amount.Sub(sellOffer.Amount)
		if err != nil {
			return TefINTERNAL
		}
		if fee.Compare(spread) > 0 {
			return TecINSUFFICIENT_PAYMENT
		}
		if err := payNFTokenAmount(ctx, buyer, ctx.AccountID, *fee); err != nil {
			return TecINSUFFICIENT_FUNDS
		}
	}

	if result := settleNFTokenSale(ctx, sellOffer.TokenID, buyer, seller, sellOffer.Amount); result != TesSUCCESS {
		return result
	}

	return TesSUCCESS
}

// settleNFTokenSale pays seller (net of the issuer's transfer fee on
// secondary sales), moves the token from seller's page chain to buyer's,
// and deducts/credits reserve for the owner-count change on both sides.
// Reference: rippled NFTokenAcceptOffer.cpp's transferHelper and the
// TransferFee field ciphered into every NFToken ID.
func settleNFTokenSale(ctx *ApplyContext, tokenID [32]byte, buyer, seller [20]byte, price Amount) Result {
	issuerID := nftIDIssuer(tokenID)
	transferFee := nftIDTransferFee(tokenID)

	net := price
	if transferFee > 0 && issuerID != seller && !price.IsZero() {
		cut := price.MulRatio(uint32(transferFee), 100000, false)
		remainder, err := price.Sub(cut)
		if err != nil {
			return TefINTERNAL
		}
		net = remainder
		if !cut.IsZero() {
			if err := payNFTokenAmount(ctx, buyer, issuerID, cut); err != nil {
				return TecINSUFFICIENT_FUNDS
			}
		}
	}

	if !net.IsZero() {
		if err := payNFTokenAmount(ctx, buyer, seller, net); err != nil {
			return TecINSUFFICIENT_FUNDS
		}
	}

	_, page, idx, found, err := findNFToken(ctx.View, seller, tokenID)
	if err != nil {
		return TefINTERNAL
	}
	if !found {
		return TecNO_ENTRY
	}
	uri := page.Tokens[idx].URI

	// Page-vs-token accounting (spec §4.F): removing/inserting a token only
	// changes OwnerCount when it actually destroys/creates a page, not on
	// every single token move.
	sellerPagesDelta, err := removeNFTokenFromPages(ctx.View, seller, tokenID)
	if err != nil {
		return TefINTERNAL
	}
	if sellerPagesDelta != 0 {
		if err := adjustOwnerCount(ctx, seller, sellerPagesDelta); err != nil {
			return TefINTERNAL
		}
	}

	buyerPageCreated, err := insertNFTokenIntoPages(ctx.View, buyer, tokenID, uri)
	if err != nil {
		if errors.Is(err, errNoSuitableNFTokenPage) {
			return TecNO_SUITABLE_NFTOKEN_PAGE
		}
		return TefINTERNAL
	}
	if buyerPageCreated {
		if result := ensureReserveForNFToken(ctx, buyer); result != TesSUCCESS {
			return result
		}
		if err := adjustOwnerCount(ctx, buyer, 1); err != nil {
			return TefINTERNAL
		}
	}

	return TesSUCCESS
}

// ensureReserveForNFToken checks that buyer can absorb the reserve cost of
// one more owned NFToken page slot, once a new page has actually been
// created for the transferred token.
func ensureReserveForNFToken(ctx *ApplyContext, buyer [20]byte) Result {
	account, err := loadAnyAccount(ctx, buyer)
	if err != nil {
		return TecNO_DST
	}
	return ctx.CheckReserveIncrease(account.Balance, account.OwnerCount)
}
