// Package pricing converts purchase amounts (smallest currency unit) into
// game credits. The package table is the product catalogue; the fallback
// rate covers out-of-catalogue amounts and is an explicit policy, not an
// accident of the caller.
package pricing

// packages maps an exact purchase amount in cents to the credits it buys.
// Larger packages carry a volume bonus.
var packages = map[int64]int64{
	500:  100,
	1000: 250,
	2000: 550,
	5000: 1500,
}

// fallbackCentsPerCredit prices amounts outside the catalogue.
const fallbackCentsPerCredit = 4

// Credits returns the number of credits a payment of amountCents buys.
// Non-positive amounts buy nothing.
func Credits(amountCents int64) int64 {
	if amountCents <= 0 {
		return 0
	}
	if credits, ok := packages[amountCents]; ok {
		return credits
	}
	return amountCents / fallbackCentsPerCredit
}

// IsPackage reports whether amountCents matches a catalogue package exactly.
func IsPackage(amountCents int64) bool {
	_, ok := packages[amountCents]
	return ok
}
