package tx

import (
	"encoding/hex"
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

// NFTokenMint issues a new NFToken.
type NFTokenMint struct {
	BaseTx

	// NFTokenTaxon groups tokens minted by the same issuer (required, caller
	// chosen, stored ciphered inside the resulting token ID).
	NFTokenTaxon uint32 `json:"NFTokenTaxon" xrpl:"NFTokenTaxon"`

	// Issuer is the account on whose behalf this token is minted, when the
	// minter is not the issuer themselves (optional; requires the issuer to
	// have named Account as its NFTokenMinter).
	Issuer string `json:"Issuer,omitempty" xrpl:"Issuer,omitempty"`

	// TransferFee is the fee, in hundredths of a basis point, the issuer
	// collects on every secondary sale (optional, 0 if absent, max 50000).
	TransferFee uint16 `json:"TransferFee,omitempty" xrpl:"TransferFee,omitempty"`

	// URI is an arbitrary hex-encoded pointer to the token's metadata
	// (optional, max 256 bytes decoded).
	URI string `json:"URI,omitempty" xrpl:"URI,omitempty"`

	// Amount, when present, offers the freshly minted token for immediate
	// sale at mint time (requires tfSellNFToken).
	Amount *Amount `json:"Amount,omitempty" xrpl:"Amount,omitempty"`

	// Destination restricts who may accept the Amount sell offer above.
	Destination string `json:"Destination,omitempty" xrpl:"Destination,omitempty"`

	// Expiration, when present, is when the Amount sell offer above expires.
	Expiration *uint32 `json:"Expiration,omitempty" xrpl:"Expiration,omitempty"`
}

func init() {
	Register(TypeNFTokenMint, func() Transaction {
		return &NFTokenMint{BaseTx: *NewBaseTx(TypeNFTokenMint, "")}
	})
}

// NewNFTokenMint creates a new NFTokenMint transaction.
func NewNFTokenMint(account string, taxon uint32) *NFTokenMint {
	return &NFTokenMint{
		BaseTx:       *NewBaseTx(TypeNFTokenMint, account),
		NFTokenTaxon: taxon,
	}
}

// TxType returns the transaction type.
func (m *NFTokenMint) TxType() Type {
	return TypeNFTokenMint
}

// Validate validates the NFTokenMint transaction.
// Reference: rippled NFTokenMint.cpp preflight
func (m *NFTokenMint) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}

	if m.GetFlags()&^uint32(nftFlagBurnable|nftFlagOnlyXRP|nftFlagTrustLine|nftFlagTransferable|nftFlagMutable) != 0 {
		return errors.New("temINVALID_FLAG: NFTokenMint flags out of range")
	}

	if m.TransferFee > maxNFTokenTransferFee {
		return errors.New("temBAD_NFTOKEN_TRANSFER_FEE: TransferFee exceeds maximum")
	}
	if m.TransferFee > 0 && m.GetFlags()&uint32(nftFlagTransferable) == 0 {
		return errors.New("temMALFORMED: TransferFee requires tfTransferable")
	}

	if m.URI != "" {
		decoded, err := hex.DecodeString(m.URI)
		if err != nil {
			return errors.New("temMALFORMED: URI must be valid hex")
		}
		if len(decoded) > maxTokenURILength {
			return errors.New("temMALFORMED: URI too long")
		}
	}

	if m.Amount != nil {
		if m.Amount.IsNegative() {
			return errors.New("temBAD_AMOUNT: Amount cannot be negative")
		}
		if m.GetFlags()&uint32(nftFlagOnlyXRP) != 0 && !m.Amount.IsNative() {
			return errors.New("temBAD_AMOUNT: tfOnlyXRP requires an XRP Amount")
		}
	} else {
		if m.Destination != "" {
			return errors.New("temMALFORMED: Destination requires Amount")
		}
		if m.Expiration != nil {
			return errors.New("temMALFORMED: Expiration requires Amount")
		}
	}

	if m.Destination != "" && m.Destination == m.Account {
		return errors.New("temMALFORMED: Destination cannot be the minting account")
	}

	return nil
}

// Flatten returns a flat map of all transaction fields.
func (m *NFTokenMint) Flatten() (map[string]any, error) {
	return ReflectFlatten(m)
}

// RequiredAmendments returns the amendments required for this transaction type.
func (m *NFTokenMint) RequiredAmendments() []string {
	return []string{AmendmentNonFungibleTokensV1}
}

// Apply mints a fresh NFToken, assigning it the issuer's next token
// sequence, inserting it into the owner's page chain, and — if Amount was
// given — creating the matching sell offer in the same transaction.
// Reference: rippled NFTokenMint.cpp preclaim/doApply.
func (m *NFTokenMint) Apply(ctx *ApplyContext) Result {
	issuerID := ctx.AccountID
	if m.Issuer != "" {
		decoded, err := decodeAccountID(m.Issuer)
		if err != nil {
			return TemINVALID
		}
		issuerID = decoded
	}

	var issuerAccount *AccountRoot
	if issuerID == ctx.AccountID {
		issuerAccount = ctx.Account
	} else {
		issuerData, err := ctx.View.Read(keylet.Account(issuerID))
		if err != nil {
			return TecNO_ISSUER
		}
		issuerAccount, err = ParseAccountRootFromBytes(issuerData)
		if err != nil {
			return TefINTERNAL
		}
		minterID, err := decodeAccountID(issuerAccount.NFTokenMinter)
		if issuerAccount.NFTokenMinter == "" || err != nil || minterID != ctx.AccountID {
			return TecNO_PERMISSION
		}
	}

	if issuerAccount.MintedNFTokens == 0xFFFFFFFF {
		return TecMAX_SEQUENCE_REACHED
	}
	tokenSeq := issuerAccount.MintedNFTokens

	flags := uint16(m.GetFlags())
	tokenID := buildNFTokenID(flags, m.TransferFee, issuerID, m.NFTokenTaxon, tokenSeq)

	pageCreated, err := insertNFTokenIntoPages(ctx.View, ctx.AccountID, tokenID, m.URI)
	if err != nil {
		if errors.Is(err, errNoSuitableNFTokenPage) {
			return TecNO_SUITABLE_NFTOKEN_PAGE
		}
		return TefINTERNAL
	}

	issuerAccount.MintedNFTokens++
	if issuerID != ctx.AccountID {
		issuerBytes, err := serializeAccountRoot(issuerAccount)
		if err != nil {
			return TefINTERNAL
		}
		if err := ctx.View.Update(keylet.Account(issuerID), issuerBytes); err != nil {
			return TefINTERNAL
		}
	}

	// Reserve is only at stake when this mint actually created a new page —
	// the common case of a token landing on a page that already existed
	// (spec §4.B step 2) adds no owned object and must not touch OwnerCount.
	if pageCreated {
		priorOwnerCount := ctx.Account.OwnerCount
		if result := ctx.CheckReserveIncrease(ctx.Account.Balance, priorOwnerCount); result != TesSUCCESS {
			return result
		}
		ctx.Account.OwnerCount++
	}

	if m.Amount != nil {
		var destPtr *[20]byte
		if m.Destination != "" {
			dst, err := decodeAccountID(m.Destination)
			if err != nil {
				return TemINVALID
			}
			destPtr = &dst
		}

		offer := &NFTokenOfferData{
			Owner:       ctx.AccountID,
			TokenID:     tokenID,
			Amount:      *m.Amount,
			Destination: destPtr,
			Expiration:  m.Expiration,
			IsSellOffer: true,
		}
		// The mint's own sequence is already consumed by the time Apply
		// runs (the engine increments it ahead of dispatch), matching the
		// offerSequence derivation offer.go's OfferCreate.Apply uses.
		offerKeylet := keylet.NFTokenOffer(ctx.AccountID, ctx.Account.Sequence-1)
		if err := createNFTokenOffer(ctx.View, offerKeylet, offer); err != nil {
			return TecDIR_FULL
		}
		ctx.Account.OwnerCount++
	}

	return TesSUCCESS
}
