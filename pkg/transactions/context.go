package transactions

import (
	"github.com/Sternrassler/helium-client/pkg/models"
)

// Context is the resource a transaction listing is scoped to. It is sealed:
// only BlockContext, AccountContext, HotspotContext and ValidatorContext
// (as values or pointers) satisfy it. Each embeds the matching models type.
type Context interface {
	isContext()
}

// BlockContext scopes a listing to one block.
type BlockContext struct{ models.Block }

// AccountContext scopes a listing to an account's activity.
type AccountContext struct{ models.Account }

// HotspotContext scopes a listing to a hotspot's activity.
type HotspotContext struct{ models.Hotspot }

// ValidatorContext scopes a listing to a validator's activity.
type ValidatorContext struct{ models.Validator }

func (BlockContext) isContext()     {}
func (AccountContext) isContext()   {}
func (HotspotContext) isContext()   {}
func (ValidatorContext) isContext() {}

// ForBlock scopes to a block by height.
func ForBlock(height int64) Context {
	return BlockContext{models.Block{Height: height}}
}

// ForBlockHash scopes to a block by hash.
func ForBlockHash(hash string) Context {
	return BlockContext{models.Block{Hash: hash}}
}

// ForAccount scopes to an account address.
func ForAccount(address string) Context {
	return AccountContext{models.Account{Address: address}}
}

// ForHotspot scopes to a hotspot address.
func ForHotspot(address string) Context {
	return HotspotContext{models.Hotspot{Address: address}}
}

// ForValidator scopes to a validator address.
func ForValidator(address string) Context {
	return ValidatorContext{models.Validator{Address: address}}
}
