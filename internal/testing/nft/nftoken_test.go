package nft_test

// NFToken_test.go - Main NFT tests
// Reference: rippled/src/test/app/NFToken_test.cpp

import (
	"testing"

	"github.com/LeJamon/goXRPLd/internal/core/tx"
	jtx "github.com/LeJamon/goXRPLd/internal/testing"
	"github.com/LeJamon/goXRPLd/internal/testing/nft"
)

// TestEnabled tests that NFT operations are disabled without the amendment and enabled with it.
// Reference: rippled NFToken_test.cpp testEnabled
func TestEnabled(t *testing.T) {
	// Test 1: With amendment DISABLED, all NFT transactions should return temDISABLED
	t.Run("Disabled", func(t *testing.T) {
		env := jtx.NewTestEnv(t)

		alice := jtx.NewAccount("alice")
		env.Fund(alice)
		env.Close()

		// Disable NFT amendments
		env.DisableFeature("NonFungibleTokensV1")
		env.DisableFeature("NonFungibleTokensV1_1")

		// NFTokenMint should fail
		mintTx := nft.NFTokenMint(alice, 0).Build()
		result := env.Submit(mintTx)
		if result.Code != "temDISABLED" {
			t.Errorf("NFTokenMint: expected temDISABLED, got %s", result.Code)
		}

		// NFTokenBurn should fail (using fake NFT ID)
		fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"
		burnTx := tx.NewNFTokenBurn(alice.Address, fakeNFTID)
		burnTx.Fee = "10"
		result = env.Submit(burnTx)
		if result.Code != "temDISABLED" {
			t.Errorf("NFTokenBurn: expected temDISABLED, got %s", result.Code)
		}

		// NFTokenCreateOffer should fail
		offerTx := nft.NFTokenCreateSellOffer(alice, fakeNFTID, tx.NewXRPAmount(1000000)).Build()
		result = env.Submit(offerTx)
		if result.Code != "temDISABLED" {
			t.Errorf("NFTokenCreateOffer: expected temDISABLED, got %s", result.Code)
		}

		// NFTokenCancelOffer should fail
		fakeOfferID := "0000000000000000000000000000000000000000000000000000000000000001"
		cancelTx := tx.NewNFTokenCancelOffer(alice.Address, []string{fakeOfferID})
		cancelTx.Fee = "10"
		result = env.Submit(cancelTx)
		if result.Code != "temDISABLED" {
			t.Errorf("NFTokenCancelOffer: expected temDISABLED, got %s", result.Code)
		}

		// NFTokenAcceptOffer should fail
		acceptTx := tx.NewNFTokenAcceptOffer(alice.Address)
		acceptTx.NFTokenBuyOffer = fakeOfferID
		acceptTx.Fee = "10"
		result = env.Submit(acceptTx)
		if result.Code != "temDISABLED" {
			t.Errorf("NFTokenAcceptOffer: expected temDISABLED, got %s", result.Code)
		}
	})

	// Test 2: With amendment ENABLED, NFT transactions should work
	t.Run("Enabled", func(t *testing.T) {
		env := jtx.NewTestEnv(t)

		alice := jtx.NewAccount("alice")
		env.Fund(alice)
		env.Close()

		// Mint an NFT (amendment enabled by default)
		mintTx := nft.NFTokenMint(alice, 0).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT: %s - %s", result.Code, result.Message)
		}
		env.Close()
	})

	t.Log("testEnabled passed")
}

// TestMintReserve tests that minting onto an existing NFTokenPage charges no
// additional reserve, and that reserve is only ever taken when a page is
// actually created.
// Reference: rippled NFToken_test.cpp testMintReserve
func TestMintReserve(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")

	// Just enough for the base reserve, one owned object (the single page
	// every mint below lands on), and fees for 33 transactions.
	env.FundAmount(alice, env.ReserveBase()+env.ReserveIncrement()+uint64(jtx.XRP(1)))
	env.Close()

	for i := 0; i < 32; i++ {
		result := env.Submit(nft.NFTokenMint(alice, 0).Build())
		jtx.RequireTxSuccess(t, result)
		env.Close()

		info := env.AccountInfo(alice)
		if info.OwnerCount != 1 {
			t.Fatalf("mint %d: OwnerCount = %d, want 1 (all 32 tokens share one page, reserve is charged once)", i, info.OwnerCount)
		}
	}

	info := env.AccountInfo(alice)
	if info.MintedNFTokens != 32 {
		t.Fatalf("MintedNFTokens = %d, want 32", info.MintedNFTokens)
	}
	if info.OwnerCount != 1 {
		t.Fatalf("OwnerCount = %d after minting 32 tokens onto one page, want 1", info.OwnerCount)
	}

	// A 33rd token minted with the same issuer/flags/fee shares the full
	// page, so there is no boundary the split could land on: it must be
	// rejected, not silently charged a second reserve.
	result := env.Submit(nft.NFTokenMint(alice, 0).Build())
	if result.Success {
		t.Fatalf("expected the 33rd same-prefix mint to fail with tecNO_SUITABLE_NFTOKEN_PAGE, got success")
	}
	if result.Code != "tecNO_SUITABLE_NFTOKEN_PAGE" {
		t.Errorf("33rd mint result = %s, want tecNO_SUITABLE_NFTOKEN_PAGE", result.Code)
	}
	env.Close()

	t.Log("testMintReserve passed")
}

// TestMintMaxTokens tests maximum token minting limit.
// Reference: rippled NFToken_test.cpp testMintMaxTokens
func TestMintMaxTokens(t *testing.T) {
	// This test would require modifying ledger state to set MintedNFTokens
	// to near max value. Skipping for now as it requires internal state manipulation.
	t.Skip("testMintMaxTokens requires ledger state manipulation")
}

// TestMintInvalid tests various invalid minting scenarios.
// Reference: rippled NFToken_test.cpp testMintInvalid
func TestMintInvalid(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	minter := jtx.NewAccount("minter")
	env.Fund(alice, minter)
	env.Close()

	// Test: Can't set a transfer fee if the NFT does not have tfTransferable flag
	t.Run("TransferFeeWithoutTransferable", func(t *testing.T) {
		fee := uint16(1000)
		mintTx := nft.NFTokenMint(alice, 0).TransferFee(fee).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow transfer fee without transferable flag")
		}
	})

	// Test: Transfer fee too high (> 50%)
	t.Run("TransferFeeTooHigh", func(t *testing.T) {
		fee := uint16(50001) // > 50000 (50%)
		mintTx := nft.NFTokenMint(alice, 1).Transferable().TransferFee(fee).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow transfer fee > 50%")
		}
	})

	// Test: Account can't also be issuer
	t.Run("IssuerSameAsAccount", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 2).Issuer(alice).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow issuer same as account")
		}
	})

	// Test: URI too long (> 256 bytes)
	t.Run("URITooLong", func(t *testing.T) {
		longURI := make([]byte, 257)
		for i := range longURI {
			longURI[i] = 'x'
		}
		mintTx := nft.NFTokenMint(alice, 3).URI(string(longURI)).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow URI > 256 bytes")
		}
	})

	// Test: Non-existent issuer
	t.Run("NonExistentIssuer", func(t *testing.T) {
		nonExistent := jtx.NewAccount("nonexistent")
		mintTx := nft.NFTokenMint(alice, 4).Issuer(nonExistent).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow non-existent issuer")
		}
	})

	// Test: Minter without permission
	t.Run("MinterWithoutPermission", func(t *testing.T) {
		mintTx := nft.NFTokenMint(minter, 5).Issuer(alice).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow minting without permission")
		}
	})

	env.Close()
	t.Log("testMintInvalid passed")
}

// TestBurnInvalid tests various invalid burn scenarios.
// Reference: rippled NFToken_test.cpp testBurnInvalid
func TestBurnInvalid(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: Try to burn a non-existent token
	t.Run("NonExistentToken", func(t *testing.T) {
		fakeNFTID := "0000000000000000000000000000000000000000000000000000000000000001"
		burnTx := nft.NFTokenBurn(alice, fakeNFTID).Build()
		result := env.Submit(burnTx)
		if result.Success {
			t.Fatal("Should not allow burning non-existent token")
		}
	})

	env.Close()
	t.Log("testBurnInvalid passed")
}

// TestCreateOfferInvalid tests invalid offer creation scenarios.
// Reference: rippled NFToken_test.cpp testCreateOfferInvalid
func TestCreateOfferInvalid(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	fakeNFTID := "0000000800000000000000000000000000000000000000000000000000000001"

	// Test: Buy offer must specify owner
	t.Run("BuyOfferWithoutOwner", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(buyer.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow buy offer without owner")
		}
	})

	// Test: Sell offer cannot specify owner
	t.Run("SellOfferWithOwner", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(alice.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.SetFlags(tx.NFTokenCreateOfferFlagSellNFToken)
		offerTx.Owner = buyer.Address
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow sell offer with owner")
		}
	})

	// Test: Can't buy your own token
	t.Run("BuyOwnToken", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(alice.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.Owner = alice.Address
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow buying own token")
		}
	})

	// Test: Destination can't be the account creating the offer
	t.Run("DestinationIsSelf", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(alice.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.SetFlags(tx.NFTokenCreateOfferFlagSellNFToken)
		offerTx.Destination = alice.Address
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow destination same as account")
		}
	})

	// Test: Expiration of 0 is invalid
	t.Run("ZeroExpiration", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(alice.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.SetFlags(tx.NFTokenCreateOfferFlagSellNFToken)
		exp := uint32(0)
		offerTx.Expiration = &exp
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow zero expiration")
		}
	})

	// Test: NFT ID must be present in ledger
	t.Run("NonExistentNFT", func(t *testing.T) {
		offerTx := nft.NFTokenCreateSellOffer(alice, fakeNFTID, tx.NewXRPAmount(1000000)).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow offer for non-existent NFT")
		}
	})

	// Test: Destination must exist
	t.Run("NonExistentDestination", func(t *testing.T) {
		nonExistent := jtx.NewAccount("nonexistent")
		offerTx := nft.NFTokenCreateSellOffer(alice, fakeNFTID, tx.NewXRPAmount(1000000)).
			Destination(nonExistent).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow non-existent destination")
		}
	})

	env.Close()
	t.Log("testCreateOfferInvalid passed")
}

// TestCancelOfferInvalid tests invalid offer cancellation scenarios.
// Reference: rippled NFToken_test.cpp testCancelOfferInvalid
func TestCancelOfferInvalid(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: Empty list of offers to cancel
	t.Run("EmptyOfferList", func(t *testing.T) {
		cancelTx := tx.NewNFTokenCancelOffer(alice.Address, []string{})
		cancelTx.Fee = "10"
		result := env.Submit(cancelTx)
		if result.Success {
			t.Fatal("Should not allow empty offer list")
		}
	})

	// Test: Duplicate entries in offer list
	t.Run("DuplicateOffers", func(t *testing.T) {
		offerID := "0000000000000000000000000000000000000000000000000000000000000001"
		cancelTx := tx.NewNFTokenCancelOffer(alice.Address, []string{offerID, offerID})
		cancelTx.Fee = "10"
		result := env.Submit(cancelTx)
		if result.Success {
			t.Fatal("Should not allow duplicate offers")
		}
	})

	// Test: Too many offers to cancel (> 500)
	t.Run("TooManyOffers", func(t *testing.T) {
		offers := make([]string, 501)
		for i := range offers {
			offers[i] = "0000000000000000000000000000000000000000000000000000000000000001"
		}
		cancelTx := tx.NewNFTokenCancelOffer(alice.Address, offers)
		cancelTx.Fee = "10"
		result := env.Submit(cancelTx)
		if result.Success {
			t.Fatal("Should not allow more than 500 offers")
		}
	})

	env.Close()
	t.Log("testCancelOfferInvalid passed")
}

// TestAcceptOfferInvalid tests invalid offer acceptance scenarios.
// Reference: rippled NFToken_test.cpp testAcceptOfferInvalid
func TestAcceptOfferInvalid(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: Must specify either buy or sell offer
	t.Run("NoOfferSpecified", func(t *testing.T) {
		acceptTx := tx.NewNFTokenAcceptOffer(buyer.Address)
		acceptTx.Fee = "10"
		result := env.Submit(acceptTx)
		if result.Success {
			t.Fatal("Should not allow accept without offer")
		}
	})

	// Test: BrokerFee requires both buy and sell offers
	t.Run("BrokerFeeWithoutBothOffers", func(t *testing.T) {
		acceptTx := tx.NewNFTokenAcceptOffer(buyer.Address)
		acceptTx.NFTokenSellOffer = "0000000000000000000000000000000000000000000000000000000000000001"
		brokerFee := tx.NewXRPAmount(100000)
		acceptTx.NFTokenBrokerFee = &brokerFee
		acceptTx.Fee = "10"
		result := env.Submit(acceptTx)
		if result.Success {
			t.Fatal("Should not allow broker fee with only sell offer")
		}
	})

	// Test: Zero broker fee is invalid
	t.Run("ZeroBrokerFee", func(t *testing.T) {
		acceptTx := tx.NewNFTokenAcceptOffer(buyer.Address)
		acceptTx.NFTokenSellOffer = "0000000000000000000000000000000000000000000000000000000000000001"
		acceptTx.NFTokenBuyOffer = "0000000000000000000000000000000000000000000000000000000000000002"
		brokerFee := tx.NewXRPAmount(0)
		acceptTx.NFTokenBrokerFee = &brokerFee
		acceptTx.Fee = "10"
		result := env.Submit(acceptTx)
		if result.Success {
			t.Fatal("Should not allow zero broker fee")
		}
	})

	// Test: Offer must exist
	t.Run("NonExistentOffer", func(t *testing.T) {
		acceptTx := nft.NFTokenAcceptSellOffer(buyer, "0000000000000000000000000000000000000000000000000000000000000001").Build()
		result := env.Submit(acceptTx)
		if result.Success {
			t.Fatal("Should not allow accepting non-existent offer")
		}
	})

	// Test: Flags must be zero
	t.Run("InvalidFlags", func(t *testing.T) {
		acceptTx := tx.NewNFTokenAcceptOffer(buyer.Address)
		acceptTx.NFTokenSellOffer = "0000000000000000000000000000000000000000000000000000000000000001"
		acceptTx.SetFlags(1)
		acceptTx.Fee = "10"
		result := env.Submit(acceptTx)
		if result.Success {
			t.Fatal("Should not allow flags on accept offer")
		}
	})

	env.Close()
	t.Log("testAcceptOfferInvalid passed")
}

// TestMintFlagBurnable tests the burnable flag behavior.
// Reference: rippled NFToken_test.cpp testMintFlagBurnable
func TestMintFlagBurnable(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	minter := jtx.NewAccount("minter")
	env.Fund(alice, buyer, minter)
	env.Close()

	// Test: Non-burnable NFT can only be burned by owner
	t.Run("NonBurnableByOwnerOnly", func(t *testing.T) {
		// Mint without burnable flag
		mintTx := nft.NFTokenMint(alice, 0).Transferable().Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint: %s", result.Code)
		}
		// Owner should be able to burn their own token
		// Non-owner (issuer) should NOT be able to burn
		t.Log("Non-burnable NFT minted - full burn test requires NFT ID extraction")
	})

	// Test: Burnable NFT can be burned by issuer
	t.Run("BurnableByIssuer", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 1).Burnable().Transferable().Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint burnable NFT: %s", result.Code)
		}
		t.Log("Burnable NFT minted - full burn test requires NFT ID extraction")
	})

	env.Close()
	t.Log("testMintFlagBurnable passed")
}

// TestMintFlagOnlyXRP tests the OnlyXRP flag behavior.
// Reference: rippled NFToken_test.cpp testMintFlagOnlyXRP
func TestMintFlagOnlyXRP(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: OnlyXRP flag rejects IOU offers
	t.Run("OnlyXRPRejectsIOU", func(t *testing.T) {
		// NFT ID with OnlyXRP flag set (0x0002)
		onlyXRPNftID := "0002000000000000000000000000000000000000000000000000000000000001"

		iouAmount := tx.NewIssuedAmountFromFloat64(100, "USD", alice.Address)
		offerTx := nft.NFTokenCreateBuyOffer(buyer, onlyXRPNftID, iouAmount, alice).Build()
		result := env.Submit(offerTx)

		if result.Success {
			t.Fatal("Should not allow IOU offer for OnlyXRP NFT")
		}
	})

	env.Close()
	t.Log("testMintFlagOnlyXRP passed")
}

// TestMintFlagCreateTrustLines tests the TrustLine flag behavior.
// Reference: rippled NFToken_test.cpp testMintFlagCreateTrustLines
func TestMintFlagCreateTrustLines(t *testing.T) {
	// Note: This flag is deprecated by fixRemoveNFTokenAutoTrustLine amendment
	t.Skip("TrustLine flag is deprecated")
}

// TestMintFlagTransferable tests the transferable flag behavior.
// Reference: rippled NFToken_test.cpp testMintFlagTransferable
func TestMintFlagTransferable(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	becky := jtx.NewAccount("becky")
	minter := jtx.NewAccount("minter")
	env.Fund(alice, becky, minter)
	env.Close()

	// Non-transferable NFTs can only be transferred by/to the issuer
	t.Run("NonTransferableValidation", func(t *testing.T) {
		// Mint non-transferable NFT
		mintTx := nft.NFTokenMint(alice, 0).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint: %s", result.Code)
		}

		// Non-transferable means only issuer can create offers
		// Third party buy offers should fail validation
		t.Log("Non-transferable NFT minted - transfer restrictions require full NFT lifecycle")
	})

	// Transferable NFTs can be bought/sold by anyone
	t.Run("TransferableAllowsThirdParty", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 1).Transferable().Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint transferable NFT: %s", result.Code)
		}
		t.Log("Transferable NFT minted")
	})

	env.Close()
	t.Log("testMintFlagTransferable passed")
}

// TestMintTransferFee tests minting NFTs with transfer fees.
// Reference: rippled NFToken_test.cpp testMintTransferFee
func TestMintTransferFee(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	becky := jtx.NewAccount("becky")
	carol := jtx.NewAccount("carol")
	minter := jtx.NewAccount("minter")
	env.Fund(alice, becky, carol, minter)
	env.Close()

	// Test with no transfer fee
	t.Run("NoTransferFee", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 0).Transferable().Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT without transfer fee: %s", result.Code)
		}
	})

	// Test with minimum transfer fee (1 basis point = 0.01%)
	t.Run("MinTransferFee", func(t *testing.T) {
		fee := uint16(1)
		mintTx := nft.NFTokenMint(alice, 1).Transferable().TransferFee(fee).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT with min transfer fee: %s", result.Code)
		}
	})

	// Test with maximum transfer fee (50%)
	t.Run("MaxTransferFee", func(t *testing.T) {
		fee := uint16(50000)
		mintTx := nft.NFTokenMint(alice, 2).Transferable().TransferFee(fee).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT with max transfer fee: %s", result.Code)
		}
	})

	// Test that transfer fee > 50% is rejected
	t.Run("TransferFeeTooHigh", func(t *testing.T) {
		fee := uint16(50001)
		mintTx := nft.NFTokenMint(alice, 3).Transferable().TransferFee(fee).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow transfer fee > 50%")
		}
	})

	env.Close()
	t.Log("testMintTransferFee passed")
}

// TestMintTaxon tests taxon functionality.
// Reference: rippled NFToken_test.cpp testMintTaxon
func TestMintTaxon(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Close()

	// Test minting with various taxon values
	taxons := []uint32{0, 1, 100, 1000, 0xFFFFFFFF}

	for _, taxon := range taxons {
		mintTx := nft.NFTokenMint(alice, taxon).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT with taxon %d: %s", taxon, result.Code)
		}
	}

	env.Close()
	t.Log("testMintTaxon passed")
}

// TestMintURI tests URI functionality.
// Reference: rippled NFToken_test.cpp testMintURI
func TestMintURI(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Close()

	// Test minting without URI
	t.Run("NoURI", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 0).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT without URI: %s", result.Code)
		}
	})

	// Test minting with valid URI
	t.Run("ValidURI", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 1).URI("https://example.com/nft/1").Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT with URI: %s", result.Code)
		}
	})

	// Test minting with max length URI (256 bytes)
	t.Run("MaxLengthURI", func(t *testing.T) {
		maxURI := make([]byte, 256)
		for i := range maxURI {
			maxURI[i] = 'a'
		}
		mintTx := nft.NFTokenMint(alice, 2).URI(string(maxURI)).Build()
		result := env.Submit(mintTx)
		if !result.Success {
			t.Fatalf("Failed to mint NFT with max length URI: %s", result.Code)
		}
	})

	// Test minting with URI too long
	t.Run("URITooLong", func(t *testing.T) {
		longURI := make([]byte, 257)
		for i := range longURI {
			longURI[i] = 'a'
		}
		mintTx := nft.NFTokenMint(alice, 3).URI(string(longURI)).Build()
		result := env.Submit(mintTx)
		if result.Success {
			t.Fatal("Should not allow URI > 256 bytes")
		}
	})

	env.Close()
	t.Log("testMintURI passed")
}

// TestCreateOfferDestination tests offer destination restrictions.
// Reference: rippled NFToken_test.cpp testCreateOfferDestination
func TestCreateOfferDestination(t *testing.T) {
	env := jtx.NewTestEnv(t)

	issuer := jtx.NewAccount("issuer")
	minter := jtx.NewAccount("minter")
	buyer := jtx.NewAccount("buyer")
	broker := jtx.NewAccount("broker")
	env.Fund(issuer, minter, buyer, broker)
	env.Close()

	// Test: Destination must be an existing account
	t.Run("NonExistentDestination", func(t *testing.T) {
		nonExistent := jtx.NewAccount("nonexistent")
		fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"

		offerTx := nft.NFTokenCreateSellOffer(issuer, fakeNFTID, tx.NewXRPAmount(1000000)).
			Destination(nonExistent).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow non-existent destination")
		}
	})

	// Test: Destination cannot be self
	t.Run("DestinationIsSelf", func(t *testing.T) {
		fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"

		offerTx := nft.NFTokenCreateSellOffer(issuer, fakeNFTID, tx.NewXRPAmount(1000000)).
			Destination(issuer).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow destination same as account")
		}
	})

	env.Close()
	t.Log("testCreateOfferDestination passed")
}

// TestCreateOfferDestinationDisallowIncoming tests disallow incoming offers.
// Reference: rippled NFToken_test.cpp testCreateOfferDestinationDisallowIncoming
func TestCreateOfferDestinationDisallowIncoming(t *testing.T) {
	// This test requires the DisallowIncoming amendment and account flags
	t.Skip("DisallowIncoming requires amendment support")
}

// TestCreateOfferExpiration tests offer expiration behavior.
// Reference: rippled NFToken_test.cpp testCreateOfferExpiration
func TestCreateOfferExpiration(t *testing.T) {
	env := jtx.NewTestEnv(t)

	issuer := jtx.NewAccount("issuer")
	minter := jtx.NewAccount("minter")
	buyer := jtx.NewAccount("buyer")
	env.Fund(issuer, minter, buyer)
	env.Close()

	fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"

	// Test: Zero expiration is invalid
	t.Run("ZeroExpiration", func(t *testing.T) {
		offerTx := nft.NFTokenCreateSellOffer(issuer, fakeNFTID, tx.NewXRPAmount(1000000)).
			Expiration(0).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow zero expiration")
		}
	})

	// Test: Past expiration should fail
	t.Run("PastExpiration", func(t *testing.T) {
		offerTx := nft.NFTokenCreateSellOffer(issuer, fakeNFTID, tx.NewXRPAmount(1000000)).
			Expiration(1).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow past expiration")
		}
	})

	env.Close()
	t.Log("testCreateOfferExpiration passed")
}

// TestCancelOffers tests offer cancellation.
// Reference: rippled NFToken_test.cpp testCancelOffers
func TestCancelOffers(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	becky := jtx.NewAccount("becky")
	minter := jtx.NewAccount("minter")
	env.Fund(alice, becky, minter)
	env.Close()

	// Basic cancellation tests - full tests require offer creation
	// Note: rippled allows canceling non-existent offers silently
	// "If id is not in the ledger we assume the offer was consumed before we got here"
	t.Run("CancelNonExistentOffer", func(t *testing.T) {
		fakeOfferID := "0000000000000000000000000000000000000000000000000000000000000001"
		cancelTx := nft.NFTokenCancelOffer(alice, fakeOfferID).Build()
		result := env.Submit(cancelTx)
		// Rippled behavior: silently succeeds if offer doesn't exist
		// Reference: NFTokenCancelOffer.cpp preclaim "we assume the offer was consumed"
		if !result.Success {
			t.Fatalf("Canceling non-existent offer should succeed (rippled behavior): %s", result.Message)
		}
	})

	env.Close()
	t.Log("testCancelOffers passed")
}

// TestCancelTooManyOffers tests the limit on offer cancellation.
// Reference: rippled NFToken_test.cpp testCancelTooManyOffers
func TestCancelTooManyOffers(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Close()

	// Create 501 offer IDs (over the 500 limit)
	offers := make([]string, 501)
	for i := range offers {
		// Generate unique offer IDs
		offers[i] = "00000000000000000000000000000000000000000000000000000000000000" +
			string(rune('0'+i%10)) + string(rune('0'+(i/10)%10))
	}

	cancelTx := tx.NewNFTokenCancelOffer(alice.Address, offers)
	cancelTx.Fee = "10"
	result := env.Submit(cancelTx)
	if result.Success {
		t.Fatal("Should not allow canceling more than 500 offers")
	}

	env.Close()
	t.Log("testCancelTooManyOffers passed")
}

// TestBrokeredAccept tests brokered NFT sales.
// Reference: rippled NFToken_test.cpp testBrokeredAccept
func TestBrokeredAccept(t *testing.T) {
	env := jtx.NewTestEnv(t)

	issuer := jtx.NewAccount("issuer")
	minter := jtx.NewAccount("minter")
	buyer := jtx.NewAccount("buyer")
	broker := jtx.NewAccount("broker")
	env.Fund(issuer, minter, buyer, broker)
	env.Close()

	// Test validation for brokered mode
	t.Run("BrokeredModeValidation", func(t *testing.T) {
		acceptTx := nft.NFTokenBrokeredSale(broker,
			"0000000000000000000000000000000000000000000000000000000000000001",
			"0000000000000000000000000000000000000000000000000000000000000002",
		).BrokerFee(tx.NewXRPAmount(100000)).Build()

		result := env.Submit(acceptTx)
		// Will fail because offers don't exist
		if result.Success {
			t.Fatal("Should fail for non-existent offers")
		}
	})

	env.Close()
	t.Log("testBrokeredAccept passed")
}

// TestNFTokenOfferOwner tests NFT offer owner field.
// Reference: rippled NFToken_test.cpp testNFTokenOfferOwner
func TestNFTokenOfferOwner(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	becky := jtx.NewAccount("becky")
	env.Fund(alice, becky)
	env.Close()

	fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"

	// Test: Buy offer requires owner
	t.Run("BuyOfferRequiresOwner", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(becky.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Buy offer should require owner")
		}
	})

	// Test: Sell offer must not have owner
	t.Run("SellOfferNoOwner", func(t *testing.T) {
		offerTx := tx.NewNFTokenCreateOffer(alice.Address, fakeNFTID, tx.NewXRPAmount(1000000))
		offerTx.SetFlags(tx.NFTokenCreateOfferFlagSellNFToken)
		offerTx.Owner = becky.Address
		offerTx.Fee = "10"
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Sell offer should not have owner")
		}
	})

	env.Close()
	t.Log("testNFTokenOfferOwner passed")
}

// TestNFTokenWithTickets tests NFT transactions with tickets.
// Reference: rippled NFToken_test.cpp testNFTokenWithTickets
func TestNFTokenWithTickets(t *testing.T) {
	// Tickets require TicketCreate transaction support
	t.Skip("Tickets require TicketCreate transaction support")
}

// TestNFTokenDeleteAccount tests NFT account deletion.
// Reference: rippled NFToken_test.cpp testNFTokenDeleteAccount
func TestNFTokenDeleteAccount(t *testing.T) {
	// Account deletion with NFTs requires AccountDelete transaction support
	t.Skip("Account deletion requires AccountDelete transaction support")
}

// TestNftBuyOffersSellOffers tests the nft_buy_offers and nft_sell_offers RPCs.
// Reference: rippled NFToken_test.cpp testNftBuyOffersSellOffers
func TestNftBuyOffersSellOffers(t *testing.T) {
	// RPC testing requires RPC infrastructure
	t.Skip("RPC testing requires RPC infrastructure")
}

// TestFixNFTokenNegOffer tests the fixNFTokenNegOffer amendment.
// Reference: rippled NFToken_test.cpp testFixNFTokenNegOffer
func TestFixNFTokenNegOffer(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: Zero XRP buy offer should fail
	t.Run("ZeroXRPBuyOffer", func(t *testing.T) {
		fakeNFTID := "0008000000000000000000000000000000000000000000000000000000000001"
		offerTx := nft.NFTokenCreateBuyOffer(buyer, fakeNFTID, tx.NewXRPAmount(0), alice).Build()
		result := env.Submit(offerTx)
		if result.Success {
			t.Fatal("Should not allow zero XRP buy offer")
		}
	})

	env.Close()
	t.Log("testFixNFTokenNegOffer passed")
}

// TestIOUWithTransferFee tests payments with IOU transfer fees.
// Reference: rippled NFToken_test.cpp testIOUWithTransferFee
func TestIOUWithTransferFee(t *testing.T) {
	// IOU transfer fees require trust line and payment testing
	t.Skip("IOU transfer fees require trust line infrastructure")
}

// TestBrokeredSaleToSelf tests brokered sale to self.
// Reference: rippled NFToken_test.cpp testBrokeredSaleToSelf
func TestBrokeredSaleToSelf(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Close()

	// Brokered sale to self scenarios require full NFT lifecycle
	t.Log("testBrokeredSaleToSelf requires full NFT lifecycle implementation")
	env.Close()
}

// TestFixNFTokenRemint tests the fixNFTokenRemint amendment.
// Reference: rippled NFToken_test.cpp testFixNFTokenRemint
func TestFixNFTokenRemint(t *testing.T) {
	// This test requires amendment support and ledger state manipulation
	t.Skip("fixNFTokenRemint requires amendment support")
}

// TestNFTokenMintOffer tests NFTokenMint with Create NFTokenOffer.
// Reference: rippled NFToken_test.cpp testNFTokenMintOffer
func TestNFTokenMintOffer(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")
	env.Fund(alice, buyer)
	env.Close()

	// Test: Mint with amount creates offer
	t.Run("MintWithAmount", func(t *testing.T) {
		mintTx := nft.NFTokenMint(alice, 0).
			Transferable().
			Amount(tx.NewXRPAmount(1000000)).
			Destination(buyer).
			Build()
		result := env.Submit(mintTx)
		// This feature requires NFTokenMintOffer amendment
		t.Logf("Mint with offer result: %s (may require amendment)", result.Code)
	})

	env.Close()
	t.Log("testNFTokenMintOffer passed")
}

// TestSyntheticFieldsFromJSON tests synthetic fields from JSON response.
// Reference: rippled NFToken_test.cpp testSyntheticFieldsFromJSON
func TestSyntheticFieldsFromJSON(t *testing.T) {
	// JSON response testing requires RPC infrastructure
	t.Skip("JSON response testing requires RPC infrastructure")
}

// TestBuyerReserve tests that accepting a buy offer frees the offer's own
// reserve slot before charging the buyer for the page the token lands on,
// so a buyer sitting exactly at their reserve limit still succeeds.
// Reference: rippled NFToken_test.cpp testBuyerReserve
func TestBuyerReserve(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	buyer := jtx.NewAccount("buyer")

	env.Fund(alice)
	env.Close()

	flags := uint16(tx.NFTokenMintFlagTransferable)
	nftID := nft.GetNextNFTokenID(env, alice, 0, flags, 0)
	jtx.RequireTxSuccess(t, env.Submit(nft.NFTokenMint(alice, 0).Transferable().Build()))
	env.Close()

	const price = uint64(1000000) // 1 XRP

	// Exactly enough to cover the buy offer's own reserve slot, the price,
	// and the fee for the offer-creation transaction — nothing left over
	// once the accept settles, matching the reserve floor exactly.
	buyerFunds := env.ReserveBase() + env.ReserveIncrement() + price + env.BaseFee()
	env.FundAmount(buyer, buyerFunds)
	env.Close()

	buyOfferID := nft.GetOfferIndex(env, buyer)
	buyTx := nft.NFTokenCreateBuyOffer(buyer, nftID, tx.NewXRPAmount(int64(price)), alice).Build()
	jtx.RequireTxSuccess(t, env.Submit(buyTx))
	env.Close()

	if info := env.AccountInfo(buyer); info == nil || info.OwnerCount != 1 {
		t.Fatalf("buyer OwnerCount after creating the buy offer = %v, want 1", info)
	}

	// Alice, the token's owner, accepts the standing buy offer. Deleting
	// that offer must free its reserve slot before the new page is
	// reserve-checked, or this is wrongly rejected with
	// tecINSUFFICIENT_RESERVE even though the buyer's total owned-object
	// count never actually increases.
	acceptTx := nft.NFTokenAcceptBuyOffer(alice, buyOfferID).Build()
	result := env.Submit(acceptTx)
	jtx.RequireTxSuccess(t, result)
	env.Close()

	buyerInfo := env.AccountInfo(buyer)
	if buyerInfo == nil {
		t.Fatal("buyer account missing after accept")
	}
	if buyerInfo.OwnerCount != 1 {
		t.Errorf("buyer OwnerCount after accept = %d, want 1 (offer slot freed, new page slot taken)", buyerInfo.OwnerCount)
	}
	if buyerInfo.Balance != env.ReserveBase()+env.ReserveIncrement() {
		t.Errorf("buyer balance after accept = %d, want exactly the reserve floor %d", buyerInfo.Balance, env.ReserveBase()+env.ReserveIncrement())
	}

	t.Log("testBuyerReserve passed")
}

// TestFixAutoTrustLine tests fix for unasked auto-trustline.
// Reference: rippled NFToken_test.cpp testFixAutoTrustLine
func TestFixAutoTrustLine(t *testing.T) {
	// Auto-trustline tests require trust line infrastructure
	t.Skip("Auto-trustline tests require trust line infrastructure")
}

// TestFixNFTIssuerIsIOUIssuer tests fix for NFT issuer is IOU issuer.
// Reference: rippled NFToken_test.cpp testFixNFTIssuerIsIOUIssuer
func TestFixNFTIssuerIsIOUIssuer(t *testing.T) {
	// IOU issuer tests require trust line infrastructure
	t.Skip("IOU issuer tests require trust line infrastructure")
}

// TestNFTokenModify tests NFTokenModify transaction.
// Reference: rippled NFToken_test.cpp testNFTokenModify
func TestNFTokenModify(t *testing.T) {
	env := jtx.NewTestEnv(t)

	alice := jtx.NewAccount("alice")
	env.Fund(alice)
	env.Close()

	fakeNFTID := "0010000000000000000000000000000000000000000000000000000000000001" // Mutable flag set

	// Test: NFTokenModify requires non-zero flags to be rejected
	t.Run("InvalidFlags", func(t *testing.T) {
		modifyTx := tx.NewNFTokenModify(alice.Address, fakeNFTID)
		modifyTx.SetFlags(1)
		modifyTx.Fee = "10"
		result := env.Submit(modifyTx)
		if result.Success {
			t.Fatal("Should not allow flags on modify")
		}
	})

	// Test: Owner cannot be same as account
	t.Run("OwnerSameAsAccount", func(t *testing.T) {
		modifyTx := nft.NFTokenModify(alice, fakeNFTID).Owner(alice).Build()
		result := env.Submit(modifyTx)
		if result.Success {
			t.Fatal("Should not allow owner same as account")
		}
	})

	// Test: URI too long
	t.Run("URITooLong", func(t *testing.T) {
		longURI := make([]byte, 257)
		for i := range longURI {
			longURI[i] = 'x'
		}
		modifyTx := nft.NFTokenModify(alice, fakeNFTID).URI(string(longURI)).Build()
		result := env.Submit(modifyTx)
		if result.Success {
			t.Fatal("Should not allow URI > 256 bytes")
		}
	})

	env.Close()
	t.Log("testNFTokenModify passed")
}
