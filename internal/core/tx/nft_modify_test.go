package tx

import (
	"strings"
	"testing"
)

func TestNFTokenModifyValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      *NFTokenModify
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid modify with new URI",
			modify: &NFTokenModify{
				BaseTx:    *NewBaseTx(TypeNFTokenModify, "rIssuer"),
				NFTokenID: "token1",
				URI:       "6578616d706c65",
			},
			expectError: false,
		},
		{
			name: "valid modify with owner set",
			modify: &NFTokenModify{
				BaseTx:    *NewBaseTx(TypeNFTokenModify, "rIssuer"),
				NFTokenID: "token1",
				Owner:     "rAlice",
			},
			expectError: false,
		},
		{
			name: "flags rejected",
			modify: func() *NFTokenModify {
				m := &NFTokenModify{BaseTx: *NewBaseTx(TypeNFTokenModify, "rIssuer"), NFTokenID: "token1"}
				m.SetFlags(1)
				return m
			}(),
			expectError: true,
			errorMsg:    "temINVALID_FLAG: NFTokenModify does not accept any flags",
		},
		{
			name: "missing NFTokenID rejected",
			modify: &NFTokenModify{
				BaseTx: *NewBaseTx(TypeNFTokenModify, "rIssuer"),
			},
			expectError: true,
			errorMsg:    "temMALFORMED: NFTokenID is required",
		},
		{
			name: "owner equal to account rejected",
			modify: &NFTokenModify{
				BaseTx:    *NewBaseTx(TypeNFTokenModify, "rIssuer"),
				NFTokenID: "token1",
				Owner:     "rIssuer",
			},
			expectError: true,
			errorMsg:    "temMALFORMED: Owner cannot be the same as Account",
		},
		{
			name: "oversized URI rejected",
			modify: &NFTokenModify{
				BaseTx:    *NewBaseTx(TypeNFTokenModify, "rIssuer"),
				NFTokenID: "token1",
				URI:       strings.Repeat("ab", maxTokenURILength+1),
			},
			expectError: true,
			errorMsg:    "temMALFORMED: URI too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.modify.Validate()
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error containing %q, got nil", tt.errorMsg)
				} else if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("expected error %q, got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
