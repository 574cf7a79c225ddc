// Package models defines the ledger resources exchanged with the Helium API.
//
// Resource values (Block, Account, Hotspot, Validator) double as scopes for
// transaction listing: a caller obtains one, or builds one from a known
// identifier, and hands it to the transactions lister.
//
//	block := models.Block{Height: 12345}
//	account := models.Account{Address: "13M8dUbxymE3xtiAXszRkGMmezMhBS8Li7wEsMojLdb4Sdxc4wc"}
//
// Transactions are a closed union behind the Transaction interface. FromJSON
// decodes one wire record into the matching concrete kind, falling back to
// UnknownTransaction for kinds this package does not model field by field.
//
// Amounts on the wire are integers in the currency's base unit. Balance
// converts them to display values using shopspring/decimal so no precision
// is lost to float64.
package models
