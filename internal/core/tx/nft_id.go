package tx

import "encoding/binary"

// NFToken ID flag bits (the Flags field packed into bits 0..16 of the ID).
const (
	nftFlagBurnable     uint16 = 0x0001
	nftFlagOnlyXRP      uint16 = 0x0002
	nftFlagTrustLine    uint16 = 0x0004
	nftFlagTransferable uint16 = 0x0008
	nftFlagMutable      uint16 = 0x0010
)

// Exported NFTokenMint transaction flags, named the way OfferCreate's and
// AccountSet's own flag constants are (offer.go, account_set.go).
const (
	NFTokenMintFlagBurnable     uint32 = uint32(nftFlagBurnable)
	NFTokenMintFlagOnlyXRP      uint32 = uint32(nftFlagOnlyXRP)
	NFTokenMintFlagTrustLine    uint32 = uint32(nftFlagTrustLine)
	NFTokenMintFlagTransferable uint32 = uint32(nftFlagTransferable)
	NFTokenMintFlagMutable      uint32 = uint32(nftFlagMutable)
)

// maxNFTokenTransferFee is the largest TransferFee value accepted by
// NFTokenMint (50%, in hundredths of a basis point: 50000 / 1000 = 50%).
const maxNFTokenTransferFee = 50000

// nftTransferFeeDivisor converts a stored TransferFee into a fraction:
// actual rate = TransferFee / nftTransferFeeDivisor.
const nftTransferFeeDivisor = 100000

// maxTokenURILength is the maximum byte length of a hex-encoded URI.
// NFTokenModify (advanced.go) already references this name for its own URI
// check; NFTokenMint and NFTokenCreateOffer share it.
const maxTokenURILength = 256

// maxNFTokenOfferCancelCount bounds how many offer IDs a single
// NFTokenCancelOffer may name, and also how many offers NFTokenBurn will
// unwind in one transaction before giving up (spec Open Question 2).
const maxNFTokenOfferCancelCount = 500

// NFToken ID layout (256 bits, big-endian):
//
//	bits  0..16  Flags            (uint16)
//	bits 16..32  TransferFee      (uint16)
//	bits 32..192 Issuer           (160-bit account ID)
//	bits 192..224 Taxon (ciphered) (uint32)
//	bits 224..256 Sequence        (uint32)
//
// The page boundary used by the directory engine is the high 160 bits of
// the ID (Flags+TransferFee+Issuer): every token sharing that prefix can
// live on the same page, and the low 96 bits (Taxon+Sequence) retain the
// numeric ordering the page-split algorithm depends on.
const (
	nftIDFlagsOffset    = 0
	nftIDFeeOffset      = 2
	nftIDIssuerOffset   = 4
	nftIDTaxonOffset    = 24
	nftIDSequenceOffset = 28
)

// cipherTaxonMulConst and cipherTaxonAddConst are the constants of the
// simple linear congruential generator rippled uses to scramble the taxon
// stored in an NFToken ID, so that tokens minted with sequential taxons do
// not sort adjacently (which would otherwise pile them onto the same page
// and defeat the point of per-taxon sharding).
//
// Resolves spec Open Question 1: these are not tunable, they must match
// the network-wide deterministic cipher every node applies to the same ID.
const (
	cipherTaxonMulConst uint32 = 384160001
	cipherTaxonAddConst uint32 = 2357503715
)

// cipherTaxon scrambles (or unscrambles, being its own inverse under
// modular arithmetic) a taxon value for storage in an NFToken ID.
func cipherTaxon(taxon, tokenSeq uint32) uint32 {
	return (tokenSeq*cipherTaxonMulConst + cipherTaxonAddConst) ^ taxon
}

// buildNFTokenID assembles the 256-bit NFToken ID from its components.
func buildNFTokenID(flags, transferFee uint16, issuer [20]byte, taxon, tokenSeq uint32) [32]byte {
	var id [32]byte
	binary.BigEndian.PutUint16(id[nftIDFlagsOffset:], flags)
	binary.BigEndian.PutUint16(id[nftIDFeeOffset:], transferFee)
	copy(id[nftIDIssuerOffset:nftIDIssuerOffset+20], issuer[:])
	binary.BigEndian.PutUint32(id[nftIDTaxonOffset:], cipherTaxon(taxon, tokenSeq))
	binary.BigEndian.PutUint32(id[nftIDSequenceOffset:], tokenSeq)
	return id
}

// GenerateNFTokenID builds the ID a mint with these exact parameters will
// receive, for callers (test fixtures, RPC previews) that need to predict
// it before the mint lands. Reference: rippled's token::getNextID.
func GenerateNFTokenID(issuer [20]byte, taxon uint32, tokenSeq uint32, flags uint16, transferFee uint16) [32]byte {
	return buildNFTokenID(flags, transferFee, issuer, taxon, tokenSeq)
}

// CipheredTaxon exposes cipherTaxon for callers (test fixtures) that need to
// pre-invert the scramble: passing CipheredTaxon(tokenSeq, wantTaxon) as the
// NFTokenTaxon of a mint makes the token's final stored taxon equal
// wantTaxon, since cipherTaxon is its own inverse under the same tokenSeq.
func CipheredTaxon(tokenSeq, taxon uint32) uint32 {
	return cipherTaxon(taxon, tokenSeq)
}

// nftIDFlags extracts the Flags field from an NFToken ID.
func nftIDFlags(id [32]byte) uint16 {
	return binary.BigEndian.Uint16(id[nftIDFlagsOffset:])
}

// nftIDTransferFee extracts the TransferFee field from an NFToken ID.
func nftIDTransferFee(id [32]byte) uint16 {
	return binary.BigEndian.Uint16(id[nftIDFeeOffset:])
}

// nftIDIssuer extracts the 160-bit issuer account ID from an NFToken ID.
func nftIDIssuer(id [32]byte) [20]byte {
	var issuer [20]byte
	copy(issuer[:], id[nftIDIssuerOffset:nftIDIssuerOffset+20])
	return issuer
}

// nftIDSequence extracts the minter's token sequence from an NFToken ID.
func nftIDSequence(id [32]byte) uint32 {
	return binary.BigEndian.Uint32(id[nftIDSequenceOffset:])
}

// nftIDTaxon extracts and deciphers the taxon originally passed to NFTokenMint.
func nftIDTaxon(id [32]byte) uint32 {
	ciphered := binary.BigEndian.Uint32(id[nftIDTaxonOffset:])
	return cipherTaxon(ciphered, nftIDSequence(id))
}

// nftIsBurnable reports whether the token can be burned by a non-owner (the
// issuer, or an account the issuer authorized) once it is no longer held
// by its original minter.
func nftIsBurnable(id [32]byte) bool {
	return nftIDFlags(id)&nftFlagBurnable != 0
}

// nftIsOnlyXRP reports whether offers against the token may only use XRP.
func nftIsOnlyXRP(id [32]byte) bool {
	return nftIDFlags(id)&nftFlagOnlyXRP != 0
}

// nftHasTrustLineFlag reports the legacy "requires trust line" bit. The
// automatic trust-line creation it used to trigger was removed by
// fixRemoveNFTokenAutoTrustLine; the bit is preserved in the ID format for
// round-tripping but no longer drives behavior here.
func nftHasTrustLineFlag(id [32]byte) bool {
	return nftIDFlags(id)&nftFlagTrustLine != 0
}

// nftIsTransferable reports whether the token may be transferred to anyone
// other than the issuer.
func nftIsTransferable(id [32]byte) bool {
	return nftIDFlags(id)&nftFlagTransferable != 0
}

// nftIsMutable reports whether the issuer may change the token's URI via
// NFTokenModify.
func nftIsMutable(id [32]byte) bool {
	return nftIDFlags(id)&nftFlagMutable != 0
}

// nftPagePrefix returns the high 160 bits of id: the value every page
// boundary and page key is keyed on.
func nftPagePrefix(id [32]byte) [12]byte {
	var prefix [12]byte
	copy(prefix[:], id[:12])
	return prefix
}

// compareNFTokenIDs orders two NFToken IDs by their low 96 bits (Taxon
// field then Sequence field, both already in their ciphered/serialized
// byte order), which is the ordering the page chain is sorted by. Pages
// themselves are selected by the high 160 bits; within a page, tokens are
// kept sorted by this comparison.
func compareNFTokenIDs(a, b [32]byte) int {
	for i := 0; i < 32; i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}
