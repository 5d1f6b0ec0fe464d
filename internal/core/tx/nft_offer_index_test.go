package tx

import "testing"

func TestSerializeParseAmountXRP(t *testing.T) {
	amt := NewXRPAmount(123456789)
	encoded := serializeAmount(amt)
	decoded, consumed, err := parseAmount(encoded)
	if err != nil {
		t.Fatalf("parseAmount() error = %v", err)
	}
	if consumed != len(encoded) {
		t.Errorf("consumed = %d, want %d", consumed, len(encoded))
	}
	if !decoded.IsNative() {
		t.Error("expected native amount")
	}
	if decoded.Drops() != amt.Drops() {
		t.Errorf("Drops() = %d, want %d", decoded.Drops(), amt.Drops())
	}
}

func TestSerializeParseAmountIssued(t *testing.T) {
	amt := NewIssuedAmount(5000, -2, "USD", "rIssuerAddress")
	encoded := serializeAmount(amt)
	decoded, consumed, err := parseAmount(encoded)
	if err != nil {
		t.Fatalf("parseAmount() error = %v", err)
	}
	if consumed != len(encoded) {
		t.Errorf("consumed = %d, want %d", consumed, len(encoded))
	}
	if decoded.IsNative() {
		t.Error("expected issued amount")
	}
	if decoded.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", decoded.Currency)
	}
	if decoded.Issuer != "rIssuerAddress" {
		t.Errorf("Issuer = %q, want rIssuerAddress", decoded.Issuer)
	}
	if decoded.Mantissa() != amt.Mantissa() || decoded.Exponent() != amt.Exponent() {
		t.Errorf("mantissa/exponent = %d/%d, want %d/%d",
			decoded.Mantissa(), decoded.Exponent(), amt.Mantissa(), amt.Exponent())
	}
}

func TestSerializeParseNFTokenOfferRoundTrip(t *testing.T) {
	dst := [20]byte{7, 7, 7}
	exp := uint32(500000000)
	offer := &NFTokenOfferData{
		Owner:        [20]byte{1, 2, 3},
		TokenID:      [32]byte{4, 5, 6},
		Amount:       NewXRPAmount(1000000),
		Destination:  &dst,
		Expiration:   &exp,
		IsSellOffer:  true,
		OwnerNode:    3,
		TokenDirNode: 9,
	}

	decoded, err := parseNFTokenOffer(serializeNFTokenOffer(offer))
	if err != nil {
		t.Fatalf("parseNFTokenOffer() error = %v", err)
	}

	if decoded.Owner != offer.Owner {
		t.Errorf("Owner = %x, want %x", decoded.Owner, offer.Owner)
	}
	if decoded.TokenID != offer.TokenID {
		t.Errorf("TokenID = %x, want %x", decoded.TokenID, offer.TokenID)
	}
	if decoded.IsSellOffer != offer.IsSellOffer {
		t.Errorf("IsSellOffer = %v, want %v", decoded.IsSellOffer, offer.IsSellOffer)
	}
	if decoded.Destination == nil || *decoded.Destination != dst {
		t.Errorf("Destination = %v, want %x", decoded.Destination, dst)
	}
	if decoded.Expiration == nil || *decoded.Expiration != exp {
		t.Errorf("Expiration = %v, want %d", decoded.Expiration, exp)
	}
	if decoded.OwnerNode != offer.OwnerNode || decoded.TokenDirNode != offer.TokenDirNode {
		t.Errorf("node indexes = %d/%d, want %d/%d",
			decoded.OwnerNode, decoded.TokenDirNode, offer.OwnerNode, offer.TokenDirNode)
	}
}

func TestSerializeParseNFTokenOfferWithoutOptionalFields(t *testing.T) {
	offer := &NFTokenOfferData{
		Owner:   [20]byte{1},
		TokenID: [32]byte{2},
		Amount:  NewIssuedAmount(100, 0, "EUR", "rSomeIssuer"),
	}

	decoded, err := parseNFTokenOffer(serializeNFTokenOffer(offer))
	if err != nil {
		t.Fatalf("parseNFTokenOffer() error = %v", err)
	}
	if decoded.Destination != nil {
		t.Error("expected nil Destination")
	}
	if decoded.Expiration != nil {
		t.Error("expected nil Expiration")
	}
	if decoded.IsSellOffer {
		t.Error("expected IsSellOffer false")
	}
}

func TestParseNFTokenOfferTruncated(t *testing.T) {
	if _, err := parseNFTokenOffer([]byte{1, 2, 3}); err == nil {
		t.Error("expected error on truncated data")
	}
}
