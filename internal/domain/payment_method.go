package domain

import (
	"strings"
)

// Card holds raw card data for a card-not-present transaction.
// Never log or persist these values.
type Card struct {
	Number      string
	ExpMonth    int // 1-12
	ExpYear     int // 2025 or 25
	CVV         string
	HolderName  string
	EntryMode   EntryMode
	AVSAddress  string
	AVSPostCode string
}

// LastFour returns the last four digits of the card number
func (c *Card) LastFour() string {
	n := strings.TrimSpace(c.Number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// EntryMode describes how the card data was captured
type EntryMode int

const (
	EntryModeEcom EntryMode = iota
	EntryModeMoto
	EntryModeManual

	entryModeCount
)

// EntryModes lists every EntryMode
func EntryModes() []EntryMode {
	out := make([]EntryMode, 0, entryModeCount)
	for m := EntryMode(0); m < entryModeCount; m++ {
		out = append(out, m)
	}
	return out
}

// Address is a billing address used for AVS checks
type Address struct {
	StreetAddress1 string
	StreetAddress2 string
	City           string
	State          string
	PostalCode     string
	Country        string
}
