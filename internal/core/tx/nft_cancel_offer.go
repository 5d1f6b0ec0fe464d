package tx

import (
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/entry"
	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

// NFTokenCancelOffer removes one or more standing NFToken offers.
type NFTokenCancelOffer struct {
	BaseTx

	// NFTokenOffers lists the offer IDs to cancel (required, 1-500 entries,
	// no duplicates).
	NFTokenOffers []string `json:"NFTokenOffers" xrpl:"NFTokenOffers"`
}

func init() {
	Register(TypeNFTokenCancelOffer, func() Transaction {
		return &NFTokenCancelOffer{BaseTx: *NewBaseTx(TypeNFTokenCancelOffer, "")}
	})
}

// NewNFTokenCancelOffer creates a new NFTokenCancelOffer transaction.
func NewNFTokenCancelOffer(account string, offers []string) *NFTokenCancelOffer {
	return &NFTokenCancelOffer{
		BaseTx:        *NewBaseTx(TypeNFTokenCancelOffer, account),
		NFTokenOffers: offers,
	}
}

// TxType returns the transaction type.
func (c *NFTokenCancelOffer) TxType() Type {
	return TypeNFTokenCancelOffer
}

// Validate validates the NFTokenCancelOffer transaction.
// Reference: rippled NFTokenCancelOffer.cpp preflight
func (c *NFTokenCancelOffer) Validate() error {
	if err := c.BaseTx.Validate(); err != nil {
		return err
	}
	if c.GetFlags() != 0 {
		return errors.New("temINVALID_FLAG: NFTokenCancelOffer does not accept flags")
	}
	if len(c.NFTokenOffers) == 0 {
		return errors.New("temMALFORMED: NFTokenOffers must not be empty")
	}
	if len(c.NFTokenOffers) > maxNFTokenOfferCancelCount {
		return errors.New("temMALFORMED: NFTokenOffers exceeds maximum length")
	}
	seen := make(map[string]bool, len(c.NFTokenOffers))
	for _, id := range c.NFTokenOffers {
		if id == "" {
			return errors.New("temMALFORMED: NFTokenOffers entry is empty")
		}
		if seen[id] {
			return errors.New("temMALFORMED: NFTokenOffers contains a duplicate")
		}
		seen[id] = true
	}
	return nil
}

// Flatten returns a flat map of all transaction fields.
func (c *NFTokenCancelOffer) Flatten() (map[string]any, error) {
	return ReflectFlatten(c)
}

// RequiredAmendments returns the amendments required for this transaction type.
func (c *NFTokenCancelOffer) RequiredAmendments() []string {
	return []string{AmendmentNonFungibleTokensV1}
}

// Apply removes every listed offer. Anyone may cancel an offer that has
// expired; otherwise only the offer's own creator, or the token's current
// owner (for a buy offer) / prospective buyer is not entitled — only the
// creator or an already-expired offer qualifies, matching rippled's
// "owner, or anyone if expired" rule.
// Reference: rippled NFTokenCancelOffer.cpp doApply.
func (c *NFTokenCancelOffer) Apply(ctx *ApplyContext) Result {
	for _, idHex := range c.NFTokenOffers {
		offerID, err := hexDecodeFixed32(idHex)
		if err != nil {
			return TemINVALID
		}
		offerKeylet := keylet.Keylet{Type: entry.TypeNFTokenOffer, Key: offerID}

		offer, ok, err := readNFTokenOffer(ctx.View, offerKeylet)
		if err != nil {
			return TefINTERNAL
		}
		if !ok {
			return TecOBJECT_NOT_FOUND
		}

		expired := offer.Expiration != nil && *offer.Expiration <= ctx.Config.ParentCloseTime
		if offer.Owner != ctx.AccountID && !expired {
			return TecNO_PERMISSION
		}

		if err := removeNFTokenOffer(ctx.View, offerKeylet, offer); err != nil {
			return TefINTERNAL
		}
		if err := adjustOwnerCount(ctx, offer.Owner, -1); err != nil {
			return TefINTERNAL
		}
	}

	return TesSUCCESS
}
