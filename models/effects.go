package models

// Effect is an outbound action computed by an engine operation and executed
// by the host after the call commits. Engines never perform transfers
// themselves; they return the full effect list for the call or fail with no
// effects at all.
type Effect interface {
	EffectType() string
}

// TransferEffect sends custodied funds to a recipient.
type TransferEffect struct {
	Recipient string `json:"recipient"`
	Asset     Asset  `json:"asset"`
}

func (TransferEffect) EffectType() string { return "transfer" }

// PullFundsEffect moves token-contract funds from their owner into this
// contract's custody (a transfer-from on the token contract).
type PullFundsEffect struct {
	Owner string `json:"owner"`
	Asset Asset  `json:"asset"`
}

func (PullFundsEffect) EffectType() string { return "pull_funds" }

// TransferTokenEffect hands a custodied token over to a recipient on its
// origin contract.
type TransferTokenEffect struct {
	Contract  string `json:"contract"`
	TokenId   string `json:"token_id"`
	Recipient string `json:"recipient"`
}

func (TransferTokenEffect) EffectType() string { return "transfer_token" }

// MintTokenEffect instructs the bound mint contract to mint a new token to
// an owner.
type MintTokenEffect struct {
	Contract    string  `json:"contract"`
	TokenId     string  `json:"token_id"`
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

func (MintTokenEffect) EffectType() string { return "mint_token" }
