package tx

import (
	"encoding/binary"
	"errors"

	"github.com/LeJamon/goXRPLd/internal/core/ledger/keylet"
)

// payNFTokenAmount moves amt from payer to payee, either in XRP (direct
// drops transfer between account roots) or in an issued currency (trust
// line balance adjustment, rippling through the currency's issuer when
// neither payer nor payee is the issuer). Reference: rippled's
// accountSend, invoked by NFTokenAcceptOffer.cpp's transferHelper.
func payNFTokenAmount(ctx *ApplyContext, payer, payee [20]byte, amt Amount) error {
	if amt.IsZero() {
		return nil
	}
	if amt.IsNative() {
		return payNFTokenXRP(ctx, payer, payee, amt.Drops())
	}
	return payNFTokenIOU(ctx, payer, payee, amt)
}

func payNFTokenXRP(ctx *ApplyContext, payer, payee [20]byte, drops int64) error {
	if drops <= 0 {
		return errors.New("nft settlement: non-positive XRP amount")
	}

	payerAccount, err := loadAnyAccount(ctx, payer)
	if err != nil {
		return err
	}
	if payerAccount.Balance < uint64(drops) {
		return errors.New("nft settlement: payer balance too low")
	}
	payerAccount.Balance -= uint64(drops)
	if err := storeAnyAccount(ctx, payer, payerAccount); err != nil {
		return err
	}

	payeeAccount, err := loadAnyAccount(ctx, payee)
	if err != nil {
		return err
	}
	payeeAccount.Balance += uint64(drops)
	return storeAnyAccount(ctx, payee, payeeAccount)
}

// payNFTokenIOU adjusts trust line balances to move amt (an issued
// currency amount) from payer to payee. When the issuer is one of the
// two parties the transfer is a single trust line hop; otherwise it
// ripples through two hops (payer -> issuer, issuer -> payee), matching
// how a gateway-issued currency moves between two non-issuer holders.
func payNFTokenIOU(ctx *ApplyContext, payer, payee [20]byte, amt Amount) error {
	issuerID, err := decodeAccountID(amt.Issuer)
	if err != nil {
		return err
	}

	if payer == issuerID {
		return adjustTrustLineBalance(ctx.View, payer, payee, amt)
	}
	if payee == issuerID {
		return adjustTrustLineBalance(ctx.View, payer, payee, amt)
	}

	if err := adjustTrustLineBalance(ctx.View, payer, issuerID, amt); err != nil {
		return err
	}
	return adjustTrustLineBalance(ctx.View, issuerID, payee, amt)
}

// adjustTrustLineBalance records that payer owes payee amt on their shared
// trust line, creating the line (within its default limits) if it does not
// already exist. Reference: ripple_state.go's RippleState/IOUAmount and its
// documented Balance convention (positive means LowAccount owes
// HighAccount).
func adjustTrustLineBalance(view LedgerView, payer, payee [20]byte, amt Amount) error {
	lineKeylet := keylet.Line(payer, payee, amt.Currency)

	data, err := view.Read(lineKeylet)
	notFound := err != nil
	var line *nftTrustLine
	if notFound {
		low, high := payer, payee
		if compareAccountIDs(low, high) > 0 {
			low, high = high, low
		}
		line = &nftTrustLine{Low: low, High: high, Currency: amt.Currency, Balance: NewIssuedAmount(0, -100, amt.Currency, amt.Issuer)}
	} else {
		line, err = parseNFTokenTrustLine(data)
		if err != nil {
			return err
		}
	}

	delta := amt
	if payer == line.High {
		delta = amt.Negate()
	}
	newBalance, err := line.Balance.Add(delta)
	if err != nil {
		return err
	}
	line.Balance = newBalance

	encoded := serializeNFTokenTrustLine(line)
	if notFound {
		return view.Insert(lineKeylet, encoded)
	}
	return view.Update(lineKeylet, encoded)
}

// nftTrustLine is a minimal, self-contained trust line record used only by
// the settlement path above. It intentionally does not reuse
// ripple_state.go's RippleState/serializeRippleState, which round-trips
// through binarycodec.Encode — a codec with no working implementation in
// this tree (see DESIGN.md's binarycodec gap note). A trust line opened by
// an NFTokenAcceptOffer settlement is fully described by this record; the
// richer RippleState fields (quality, freeze, reserve flags) belong to
// AccountSet/TrustSet, which this subsystem does not touch.
type nftTrustLine struct {
	Low, High [20]byte
	Currency  string
	Balance   Amount
}

func serializeNFTokenTrustLine(l *nftTrustLine) []byte {
	buf := make([]byte, 0, 20+20+20+8+4)
	buf = append(buf, l.Low[:]...)
	buf = append(buf, l.High[:]...)
	buf = append(buf, currencyToFixed20(l.Currency)[:]...)

	mantissa := uint64(l.Balance.Mantissa())
	if l.Balance.Mantissa() < 0 {
		mantissa = uint64(-l.Balance.Mantissa())
	}
	var mantissaBytes [8]byte
	binary.BigEndian.PutUint64(mantissaBytes[:], mantissa)
	buf = append(buf, mantissaBytes[:]...)

	var expBytes [4]byte
	binary.BigEndian.PutUint32(expBytes[:], uint32(int32(l.Balance.Exponent())))
	buf = append(buf, expBytes[:]...)

	sign := byte(0)
	if l.Balance.Mantissa() < 0 {
		sign = 1
	}
	buf = append(buf, sign)

	return buf
}

func parseNFTokenTrustLine(data []byte) (*nftTrustLine, error) {
	const fixedLen = 20 + 20 + 20 + 8 + 4 + 1
	if len(data) < fixedLen {
		return nil, errors.New("nft trust line: short record")
	}
	l := &nftTrustLine{}
	copy(l.Low[:], data[0:20])
	copy(l.High[:], data[20:40])
	l.Currency = fixed20ToCurrency(data[40:60])

	mantissa := int64(binary.BigEndian.Uint64(data[60:68]))
	exponent := int(int32(binary.BigEndian.Uint32(data[68:72])))
	if data[72] == 1 {
		mantissa = -mantissa
	}
	l.Balance = NewIssuedAmount(mantissa, exponent, l.Currency, "")
	return l, nil
}

// currencyToFixed20 and fixed20ToCurrency give the settlement path's own
// trust line record a stable on-disk currency encoding, independent of
// keylet.go's internal (unexported) currencyToBytes helper.
func currencyToFixed20(currency string) [20]byte {
	var out [20]byte
	if len(currency) == 3 {
		copy(out[12:15], currency)
		return out
	}
	copy(out[:], []byte(currency))
	return out
}

func fixed20ToCurrency(b []byte) string {
	if b[0] == 0 && b[1] == 0 && b[2] == 0 {
		trimmed := make([]byte, 0, 3)
		for _, c := range b[12:15] {
			if c != 0 {
				trimmed = append(trimmed, c)
			}
		}
		if len(trimmed) > 0 {
			return string(trimmed)
		}
	}
	return string(b)
}

// loadAnyAccount and storeAnyAccount read/write an account root regardless
// of whether it is the transaction's own source account, delegating to
// ctx.Account when it is (so the engine's own end-of-Apply persistence
// still owns the source account) and to the ledger view otherwise.
func loadAnyAccount(ctx *ApplyContext, accountID [20]byte) (*AccountRoot, error) {
	if accountID == ctx.AccountID {
		return ctx.Account, nil
	}
	return loadAccountRoot(ctx.View, accountID)
}

func storeAnyAccount(ctx *ApplyContext, accountID [20]byte, account *AccountRoot) error {
	if accountID == ctx.AccountID {
		return nil
	}
	return saveAccountRoot(ctx.View, accountID, account)
}

// nftAccountExists reports whether accountID has a root entry, needed
// before a brokered or direct accept pays out to a buyer or broker that
// may never have been funded.
func nftAccountExists(view LedgerView, accountID [20]byte) (bool, error) {
	return view.Exists(keylet.Account(accountID))
}
