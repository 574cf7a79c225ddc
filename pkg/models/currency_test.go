package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name    string
		balance Balance
		want    string
	}{
		{name: "one hnt", balance: NewBalance(100000000, Default), want: "1 HNT"},
		{name: "fractional hnt", balance: NewBalance(12345, Default), want: "0.00012345 HNT"},
		{name: "data credits", balance: NewBalance(42, DataCredit), want: "42 DC"},
		{name: "security", balance: NewBalance(250000000, Security), want: "2.5 STO"},
		{name: "zero", balance: NewBalance(0, Default), want: "0 HNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.balance.String())
		})
	}
}

func TestAccountBalances(t *testing.T) {
	account := Account{Address: "a", Balance: 150000000, DCBalance: 7}
	assert.Equal(t, "1.5", account.HNT().Float().String())
	assert.Equal(t, "7 DC", account.DataCredits().String())
}

func TestBlockReference(t *testing.T) {
	assert.True(t, Block{Height: 1}.HasHeight())
	assert.False(t, Block{Hash: "h"}.HasHeight())
	assert.True(t, Block{Hash: "h"}.HasHash())
	assert.False(t, Block{}.HasHash())
}
