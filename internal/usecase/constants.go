package usecase

import "github.com/shopspring/decimal"

// RentAmount is the monthly rent in CZK. The shared balance keeps this much in
// reserve before any automatic debt repayment happens.
var RentAmount = decimal.NewFromInt(24500)

// Snapshot keys.
const (
	KeySessions = "sessions"
	KeyFinance  = "finance"
	KeyDebts    = "debts"
	KeyBudget   = "budget"
)

// SnapshotKeys lists every key written after a mutation.
var SnapshotKeys = []string{KeySessions, KeyFinance, KeyDebts, KeyBudget}

const (
	// DefaultLandlord is the creditor of rent debts.
	DefaultLandlord = "Landlord"

	// DefaultSharedDebtor is the debtor of rent debts.
	DefaultSharedDebtor = "Household"

	// DefaultCategory is used when a finance record has no category.
	DefaultCategory = "Other"

	snapshotVersion = 1
)
