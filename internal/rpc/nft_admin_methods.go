package rpc

import (
	"encoding/json"
)

// NFT Methods

// NftBuyOffersMethod handles the nft_buy_offers RPC method
type NftBuyOffersMethod struct{}

func (m *NftBuyOffersMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		NFTokenID string `json:"nft_id"`
		LedgerSpecifier
		PaginationParams
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	if request.NFTokenID == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: nft_id")
	}
	
	// TODO: Implement NFT buy offer retrieval
	// 1. Validate NFT token ID format
	// 2. Determine target ledger
	// 3. Find all NFTokenOffer objects that are buy offers for this NFT
	// 4. Apply pagination using marker and limit
	// 5. Return offer details including amounts and expiration
	
	response := map[string]interface{}{
		"nft_id": request.NFTokenID,
		"offers": []interface{}{
			// TODO: Load actual buy offers
			// Each offer should have structure:
			// {
			//   "amount": "1000000000",
			//   "flags": 0,
			//   "nft_offer_index": "OFFER_ID",
			//   "owner": "rBuyer...",
			//   "destination": "rSeller...", // if specified
			//   "expiration": 12345678       // if specified
			// }
		},
		"ledger_hash":  "PLACEHOLDER_LEDGER_HASH",
		"ledger_index": 1000,
		"validated":    true,
	}
	
	return response, nil
}

func (m *NftBuyOffersMethod) RequiredRole() Role {
	return RoleGuest
}

func (m *NftBuyOffersMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// NftSellOffersMethod handles the nft_sell_offers RPC method
type NftSellOffersMethod struct{}

func (m *NftSellOffersMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		NFTokenID string `json:"nft_id"`
		LedgerSpecifier
		PaginationParams
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	if request.NFTokenID == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: nft_id")
	}
	
	// TODO: Implement NFT sell offer retrieval - similar to buy offers
	
	response := map[string]interface{}{
		"nft_id": request.NFTokenID,
		"offers": []interface{}{
			// TODO: Load actual sell offers
		},
		"ledger_hash":  "PLACEHOLDER_LEDGER_HASH",
		"ledger_index": 1000,
		"validated":    true,
	}
	
	return response, nil
}

func (m *NftSellOffersMethod) RequiredRole() Role {
	return RoleGuest
}

func (m *NftSellOffersMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// NftHistoryMethod handles the nft_history RPC method
type NftHistoryMethod struct{}

func (m *NftHistoryMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		NFTokenID string `json:"nft_id"`
		LedgerIndexMin uint32 `json:"ledger_index_min,omitempty"`
		LedgerIndexMax uint32 `json:"ledger_index_max,omitempty"`
		Binary         bool   `json:"binary,omitempty"`
		Forward        bool   `json:"forward,omitempty"`
		PaginationParams
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	if request.NFTokenID == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: nft_id")
	}
	
	// TODO: Implement NFT transaction history
	// Similar to account_tx but filtered for a specific NFT
	
	response := map[string]interface{}{
		"nft_id":      request.NFTokenID,
		"transactions": []interface{}{
			// TODO: Load NFT transaction history
		},
		"validated": true,
	}
	
	return response, nil
}

func (m *NftHistoryMethod) RequiredRole() Role {
	return RoleGuest
}

func (m *NftHistoryMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// NftsByIssuerMethod handles the nfts_by_issuer RPC method
type NftsByIssuerMethod struct{}

func (m *NftsByIssuerMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		Issuer string `json:"issuer"`
		NFTokenTaxon uint32 `json:"nft_taxon,omitempty"`
		LedgerSpecifier
		PaginationParams
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	if request.Issuer == "" {
		return nil, RpcErrorInvalidParams("Missing required parameter: issuer")
	}
	
	// TODO: Implement NFTs by issuer retrieval
	
	response := map[string]interface{}{
		"issuer": request.Issuer,
		"nfts":   []interface{}{
			// TODO: Load NFTs by issuer
		},
		"ledger_hash":  "PLACEHOLDER_LEDGER_HASH",
		"ledger_index": 1000,
		"validated":    true,
	}
	
	return response, nil
}

func (m *NftsByIssuerMethod) RequiredRole() Role {
	return RoleGuest
}

func (m *NftsByIssuerMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// NftInfoMethod handles the nft_info RPC method (Clio-specific)
type NftInfoMethod struct{}

func (m *NftInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement NFT info method (Clio extension)
	return nil, NewRpcError(RpcNOT_SUPPORTED, "notSupported", "notSupported",
		"nft_info is a Clio-specific method not supported in rippled mode")
}

func (m *NftInfoMethod) RequiredRole() Role {
	return RoleGuest
}

func (m *NftInfoMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// Admin Methods - These require admin privileges

// StopMethod handles the stop RPC method
type StopMethod struct{}

func (m *StopMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement graceful server shutdown
	// 1. Validate admin credentials
	// 2. Stop accepting new connections
	// 3. Complete pending transactions
	// 4. Close database connections
	// 5. Shut down server components
	
	response := map[string]interface{}{
		"message": "rippled server stopping",
	}
	
	return response, nil
}

func (m *StopMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *StopMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// ValidationCreateMethod handles the validation_create RPC method
type ValidationCreateMethod struct{}

func (m *ValidationCreateMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		Secret     string `json:"secret,omitempty"`
		KeyType    string `json:"key_type,omitempty"`
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	// TODO: Implement validation key creation
	// 1. Generate or use provided validation key pair
	// 2. Create validation key manifest
	// 3. Configure server to use validation keys
	// 4. Return public key information
	
	response := map[string]interface{}{
		"validation_key":        "VALIDATION_KEY",
		"validation_public_key": "PUBLIC_KEY",
		"validation_seed":       "SEED",
	}
	
	return response, nil
}

func (m *ValidationCreateMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *ValidationCreateMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// ManifestMethod handles the manifest RPC method  
type ManifestMethod struct{}

func (m *ManifestMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var request struct {
		PublicKey string `json:"public_key"`
	}
	
	if params != nil {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, RpcErrorInvalidParams("Invalid parameters: " + err.Error())
		}
	}
	
	// TODO: Implement validator manifest retrieval
	// 1. Look up manifest for specified validator public key
	// 2. Return manifest details including ephemeral keys and signature
	
	response := map[string]interface{}{
		"details": map[string]interface{}{
			// TODO: Load actual manifest details
		},
		"manifest": "MANIFEST_DATA",
		"requested": request.PublicKey,
	}
	
	return response, nil
}

func (m *ManifestMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *ManifestMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// Peer reservation methods
type PeerReservationsAddMethod struct{}

func (m *PeerReservationsAddMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement peer reservation addition
	return map[string]interface{}{
		"previous": []interface{}{},
		"current":  []interface{}{},
	}, nil
}

func (m *PeerReservationsAddMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *PeerReservationsAddMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

type PeerReservationsDelMethod struct{}

func (m *PeerReservationsDelMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement peer reservation deletion
	return map[string]interface{}{
		"previous": []interface{}{},
		"current":  []interface{}{},
	}, nil
}

func (m *PeerReservationsDelMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *PeerReservationsDelMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

type PeerReservationsListMethod struct{}

func (m *PeerReservationsListMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement peer reservation listing
	return map[string]interface{}{
		"reservations": []interface{}{},
	}, nil
}

func (m *PeerReservationsListMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *PeerReservationsListMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

type PeersMethod struct{}

func (m *PeersMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement peer listing
	return map[string]interface{}{
		"peers": []interface{}{},
	}, nil
}

func (m *PeersMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *PeersMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

type ConsensusInfoMethod struct{}

func (m *ConsensusInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	// TODO: Implement consensus info
	return map[string]interface{}{
		"info": map[string]interface{}{},
	}, nil
}

func (m *ConsensusInfoMethod) RequiredRole() Role {
	return RoleAdmin
}

func (m *ConsensusInfoMethod) SupportedApiVersions() []int {
	return []int{ApiVersion1, ApiVersion2, ApiVersion3}
}

// Additional admin methods
type ValidatorListSitesMethod struct{}
func (m *ValidatorListSitesMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{"validator_sites": []interface{}{}}, nil
}
func (m *ValidatorListSitesMethod) RequiredRole() Role { return RoleAdmin }
func (m *ValidatorListSitesMethod) SupportedApiVersions() []int { return []int{ApiVersion1, ApiVersion2, ApiVersion3} }

type ValidatorsMethod struct{}
func (m *ValidatorsMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{"validators": []interface{}{}}, nil
}
func (m *ValidatorsMethod) RequiredRole() Role { return RoleAdmin }
func (m *ValidatorsMethod) SupportedApiVersions() []int { return []int{ApiVersion1, ApiVersion2, ApiVersion3} }

type DownloadShardMethod struct{}
func (m *DownloadShardMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{"message": "shard download initiated"}, nil
}
func (m *DownloadShardMethod) RequiredRole() Role { return RoleAdmin }
func (m *DownloadShardMethod) SupportedApiVersions() []int { return []int{ApiVersion1, ApiVersion2, ApiVersion3} }

type CrawlShardsMethod struct{}
func (m *CrawlShardsMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{"shards": []interface{}{}}, nil
}
func (m *CrawlShardsMethod) RequiredRole() Role { return RoleAdmin }
func (m *CrawlShardsMethod) SupportedApiVersions() []int { return []int{ApiVersion1, ApiVersion2, ApiVersion3} }

type LedgerIndexMethod struct{}
func (m *LedgerIndexMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{"ledger_index": 1000}, nil
}
func (m *LedgerIndexMethod) RequiredRole() Role { return RoleGuest }
func (m *LedgerIndexMethod) SupportedApiVersions() []int { return []int{ApiVersion1, ApiVersion2, ApiVersion3} }