package tx

import (
	"encoding/binary"
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/entry"
	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
	"github.com/LeJamon/goXRPLd/internal/core/tx/sle"
)

// NFTokenOfferData is the parsed form of an NFTokenOffer ledger entry: a
// standing offer to buy or sell a single NFToken, discoverable from three
// places at once (the owner's generic directory, and the token's own
// buy-side or sell-side sub-directory) so that acceptance and cancellation
// never need a full-ledger scan to find it.
type NFTokenOfferData struct {
	Owner          [20]byte
	TokenID        [32]byte
	Amount         Amount
	Destination    *[20]byte
	Expiration     *uint32
	IsSellOffer    bool
	OwnerNode      uint64 // page index within the owner's generic directory
	TokenDirNode   uint64 // page index within the token's buy/sell directory
}

// serializeAmount and parseAmount hand-roll the wire form of sle.Amount:
// Amount exposes its value only through accessor methods (Value, Mantissa,
// Exponent, IsNative, Currency, Issuer — see sle/amount.go), never as
// public fields to copy directly, and binarycodec.Encode/Decode (the
// generic path sle/directory.go and account_root.go's write side reach
// for) has no working implementation anywhere in this tree to route
// through, so offer amounts round-trip through this fixed layout instead.
func serializeAmount(a Amount) []byte {
	if a.IsNative() {
		buf := make([]byte, 9)
		buf[0] = 1
		binary.BigEndian.PutUint64(buf[1:], uint64(a.Drops()))
		return buf
	}
	currency := []byte(a.Currency)
	issuer := []byte(a.Issuer)
	buf := make([]byte, 0, 1+8+4+1+len(currency)+1+len(issuer))
	buf = append(buf, 0)
	var mantissa [8]byte
	binary.BigEndian.PutUint64(mantissa[:], uint64(a.Mantissa()))
	buf = append(buf, mantissa[:]...)
	var exponent [4]byte
	binary.BigEndian.PutUint32(exponent[:], uint32(int32(a.Exponent())))
	buf = append(buf, exponent[:]...)
	buf = append(buf, byte(len(currency)))
	buf = append(buf, currency...)
	buf = append(buf, byte(len(issuer)))
	buf = append(buf, issuer...)
	return buf
}

func parseAmount(data []byte) (Amount, int, error) {
	if len(data) < 1 {
		return Amount{}, 0, errors.New("amount: empty data")
	}
	if data[0] == 1 {
		if len(data) < 9 {
			return Amount{}, 0, errors.New("amount: truncated XRP amount")
		}
		drops := int64(binary.BigEndian.Uint64(data[1:9]))
		return NewXRPAmount(drops), 9, nil
	}
	if len(data) < 13 {
		return Amount{}, 0, errors.New("amount: truncated issued amount")
	}
	mantissa := int64(binary.BigEndian.Uint64(data[1:9]))
	exponent := int(int32(binary.BigEndian.Uint32(data[9:13])))
	offset := 13
	if offset >= len(data) {
		return Amount{}, 0, errors.New("amount: truncated currency length")
	}
	currencyLen := int(data[offset])
	offset++
	if offset+currencyLen > len(data) {
		return Amount{}, 0, errors.New("amount: truncated currency")
	}
	currency := string(data[offset : offset+currencyLen])
	offset += currencyLen
	if offset >= len(data) {
		return Amount{}, 0, errors.New("amount: truncated issuer length")
	}
	issuerLen := int(data[offset])
	offset++
	if offset+issuerLen > len(data) {
		return Amount{}, 0, errors.New("amount: truncated issuer")
	}
	issuer := string(data[offset : offset+issuerLen])
	offset += issuerLen
	return NewIssuedAmount(mantissa, exponent, currency, issuer), offset, nil
}

// serializeNFTokenOffer encodes an NFTokenOfferData to ledger-entry bytes.
func serializeNFTokenOffer(o *NFTokenOfferData) []byte {
	amountBytes := serializeAmount(o.Amount)
	buf := make([]byte, 0, 20+32+len(amountBytes)+1+32)
	buf = append(buf, o.Owner[:]...)
	buf = append(buf, o.TokenID[:]...)
	buf = append(buf, amountBytes...)

	var flags byte
	if o.IsSellOffer {
		flags |= 0x01
	}
	buf = append(buf, flags)

	if o.Destination != nil {
		buf = append(buf, 1)
		buf = append(buf, o.Destination[:]...)
	} else {
		buf = append(buf, 0)
	}
	if o.Expiration != nil {
		var exp [4]byte
		binary.BigEndian.PutUint32(exp[:], *o.Expiration)
		buf = append(buf, 1)
		buf = append(buf, exp[:]...)
	} else {
		buf = append(buf, 0)
	}

	var ownerNode, tokenDirNode [8]byte
	binary.BigEndian.PutUint64(ownerNode[:], o.OwnerNode)
	binary.BigEndian.PutUint64(tokenDirNode[:], o.TokenDirNode)
	buf = append(buf, ownerNode[:]...)
	buf = append(buf, tokenDirNode[:]...)

	return buf
}

// parseNFTokenOffer decodes bytes produced by serializeNFTokenOffer.
func parseNFTokenOffer(data []byte) (*NFTokenOfferData, error) {
	if len(data) < 52 {
		return nil, errors.New("NFTokenOffer: data too short")
	}
	o := &NFTokenOfferData{}
	copy(o.Owner[:], data[0:20])
	copy(o.TokenID[:], data[20:52])

	offset := 52
	amount, consumed, err := parseAmount(data[offset:])
	if err != nil {
		return nil, err
	}
	o.Amount = amount
	offset += consumed

	if offset >= len(data) {
		return nil, errors.New("NFTokenOffer: truncated flags")
	}
	o.IsSellOffer = data[offset]&0x01 != 0
	offset++

	if offset >= len(data) {
		return nil, errors.New("NFTokenOffer: truncated destination marker")
	}
	hasDestination := data[offset]
	offset++
	if hasDestination == 1 {
		if offset+20 > len(data) {
			return nil, errors.New("NFTokenOffer: truncated destination")
		}
		var dst [20]byte
		copy(dst[:], data[offset:offset+20])
		o.Destination = &dst
		offset += 20
	}

	if offset >= len(data) {
		return nil, errors.New("NFTokenOffer: truncated expiration marker")
	}
	hasExpiration := data[offset]
	offset++
	if hasExpiration == 1 {
		if offset+4 > len(data) {
			return nil, errors.New("NFTokenOffer: truncated expiration")
		}
		exp := binary.BigEndian.Uint32(data[offset:])
		o.Expiration = &exp
		offset += 4
	}

	if offset+16 > len(data) {
		return nil, errors.New("NFTokenOffer: truncated node indexes")
	}
	o.OwnerNode = binary.BigEndian.Uint64(data[offset:])
	o.TokenDirNode = binary.BigEndian.Uint64(data[offset+8:])

	return o, nil
}

// tokenOfferDirKeylet returns the per-token buy or sell sub-directory
// keylet an offer belongs in.
func tokenOfferDirKeylet(tokenID [32]byte, isSellOffer bool) keylet.Keylet {
	if isSellOffer {
		return keylet.NFTokenSellOffers(tokenID)
	}
	return keylet.NFTokenBuyOffers(tokenID)
}

// createNFTokenOffer writes a new NFTokenOffer object and links it into the
// three directories that make it discoverable: the owner's generic owner
// directory (so AccountObjects and deletion obligations see it), and the
// token's buy or sell sub-directory (so offer lookup and brokered matching
// don't require scanning every offer ever created).
//
// Built on sle.DirInsert/DirRemove, the same three-index idiom
// mptoken_helpers.go and offer.go already use for their own objects;
// ctx.View satisfies sle.LedgerView directly since it is a strict
// superset of the five methods that interface asks for.
func createNFTokenOffer(view LedgerView, offerKeylet keylet.Keylet, offer *NFTokenOfferData) error {
	ownerDirKeylet := keylet.OwnerDir(offer.Owner)
	ownerResult, err := sle.DirInsert(view, ownerDirKeylet, offerKeylet.Key, func(dn *sle.DirectoryNode) {
		dn.Owner = offer.Owner
	})
	if err != nil {
		return err
	}
	offer.OwnerNode = ownerResult.Page

	tokenDirKeylet := tokenOfferDirKeylet(offer.TokenID, offer.IsSellOffer)
	tokenResult, err := sle.DirInsert(view, tokenDirKeylet, offerKeylet.Key, func(dn *sle.DirectoryNode) {})
	if err != nil {
		return err
	}
	offer.TokenDirNode = tokenResult.Page

	return view.Insert(offerKeylet, serializeNFTokenOffer(offer))
}

// removeNFTokenOffer erases an NFTokenOffer and unlinks it from both the
// owner's directory and its token's buy/sell sub-directory. This is the
// step every predecessor implementation skipped: erasing only the raw
// offer object leaves two stale directory entries pointing at nothing,
// which corrupts AccountObjects output and, worse, future offer scans that
// assume every listed key still resolves to a live object.
func removeNFTokenOffer(view LedgerView, offerKeylet keylet.Keylet, offer *NFTokenOfferData) error {
	ownerDirKeylet := keylet.OwnerDir(offer.Owner)
	if _, err := sle.DirRemove(view, ownerDirKeylet, offer.OwnerNode, offerKeylet.Key, true); err != nil {
		return err
	}

	tokenDirKeylet := tokenOfferDirKeylet(offer.TokenID, offer.IsSellOffer)
	if _, err := sle.DirRemove(view, tokenDirKeylet, offer.TokenDirNode, offerKeylet.Key, false); err != nil {
		return err
	}

	return view.Erase(offerKeylet)
}

// readNFTokenOffer loads and parses an NFTokenOffer by keylet, reporting
// ok=false (not an error) if no such offer exists.
func readNFTokenOffer(view LedgerView, offerKeylet keylet.Keylet) (*NFTokenOfferData, bool, error) {
	exists, err := view.Exists(offerKeylet)
	if err != nil || !exists {
		return nil, false, err
	}
	data, err := view.Read(offerKeylet)
	if err != nil {
		return nil, false, err
	}
	offer, err := parseNFTokenOffer(data)
	if err != nil {
		return nil, false, err
	}
	return offer, true, nil
}

// collectTokenOffers walks a token's buy or sell sub-directory and returns
// every offer keylet it currently lists, up to limit entries (0 means
// unlimited). Used by brokered-match candidate selection and by
// NFTokenBurn's "cancel every outstanding offer first" obligation.
func collectTokenOffers(view LedgerView, tokenID [32]byte, isSellOffer bool, limit int) ([]keylet.Keylet, error) {
	dirKeylet := tokenOfferDirKeylet(tokenID, isSellOffer)
	exists, err := view.Exists(dirKeylet)
	if err != nil || !exists {
		return nil, err
	}

	var offers []keylet.Keylet
	page := dirKeylet
	for {
		data, err := view.Read(page)
		if err != nil {
			return nil, err
		}
		dir, err := sle.ParseDirectoryNode(data)
		if err != nil {
			return nil, err
		}
		for _, idx := range dir.Indexes {
			offers = append(offers, keylet.Keylet{Type: entry.TypeNFTokenOffer, Key: idx})
			if limit > 0 && len(offers) >= limit {
				return offers, nil
			}
		}
		if dir.IndexNext == 0 {
			break
		}
		page = keylet.DirPage(dirKeylet.Key, dir.IndexNext)
	}
	return offers, nil
}
