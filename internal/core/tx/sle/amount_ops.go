package sle

import (
	"bytes"
	"fmt"
	"math/big"
)

// IOUAmount is a big.Float view of an issued-currency amount, used where
// callers need arbitrary-precision arithmetic rather than the mantissa/
// exponent encoding Amount stores internally.
type IOUAmount struct {
	Value    *big.Float
	Currency string
	Issuer   string
}

// ToIOU converts an Amount to an IOUAmount.
// For native XRP amounts, Value holds the drops as an integer; Currency and
// Issuer are left empty since XRP has neither.
func (a Amount) ToIOU() IOUAmount {
	if a.IsNative() {
		return IOUAmount{Value: new(big.Float).SetInt64(a.Drops())}
	}
	return IOUAmount{
		Value:    mantissaExponentToBigFloat(a.iou.Mantissa(), a.iou.Exponent()),
		Currency: a.Currency,
		Issuer:   a.Issuer,
	}
}

// mantissaExponentToBigFloat reconstructs mantissa * 10^exponent as a big.Float.
func mantissaExponentToBigFloat(mantissa int64, exponent int) *big.Float {
	v := new(big.Float).SetPrec(128).SetInt64(mantissa)
	if exponent > 0 {
		scale := new(big.Float).SetPrec(128).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exponent)), nil))
		v.Mul(v, scale)
	} else if exponent < 0 {
		scale := new(big.Float).SetPrec(128).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-exponent)), nil))
		v.Quo(v, scale)
	}
	return v
}

// FormatIOUValue renders a big.Float as the mantissa/exponent decimal string
// used by Amount's IOU representation.
func FormatIOUValue(v *big.Float) string {
	if v == nil {
		return "0"
	}
	return v.Text('f', -1)
}

// CompareAccountIDs compares two 20-byte account IDs lexicographically.
// Returns -1, 0, or 1.
func CompareAccountIDs(a, b [20]byte) int {
	return bytes.Compare(a[:], b[:])
}

// CompareAccountIDsForLine compares two account IDs for trust line ordering.
// The "low" account is the one that sorts first lexicographically.
func CompareAccountIDsForLine(a, b [20]byte) int {
	return bytes.Compare(a[:], b[:])
}

// FormatDrops formats a uint64 drops value as a string
func FormatDrops(drops uint64) string {
	return fmt.Sprintf("%d", drops)
}

// SubtractAmount subtracts b from a, returning the result.
// Both amounts must be the same type (both XRP or same IOU currency).
// Negative XRP results clamp to zero, matching rippled's unsigned drops.
func SubtractAmount(a, b Amount) Amount {
	result, err := a.Sub(b)
	if err != nil {
		return a
	}
	if result.IsNative() && result.IsNegative() {
		return NewXRPAmountFromInt(0)
	}
	return result
}

// ApplyTransferFee applies a transfer rate to an amount.
// transferRate is the rate as uint32 (1000000000 = no fee, 1100000000 = 10% fee).
func ApplyTransferFee(amount Amount, transferRate uint32) Amount {
	if transferRate == 0 || transferRate == 1000000000 {
		return amount
	}
	if amount.IsNative() {
		return amount // No transfer fee on XRP
	}
	return amount.MulRatio(transferRate, 1000000000, true)
}

// EncodeAccountIDSafe encodes a 20-byte account ID, returning empty string on error
func EncodeAccountIDSafe(accountID [20]byte) string {
	s, _ := EncodeAccountID(accountID)
	return s
}

// CalculateQuality calculates the quality (exchange rate) for an offer.
// Quality = TakerPays / TakerGets
func CalculateQuality(takerPays, takerGets Amount) uint64 {
	return GetRate(takerGets, takerPays)
}
