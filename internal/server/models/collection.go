// Package models defines the server-side sync data model: records, the
// collections they live in, and the request/response shapes of a sync call.
package models

import (
	"fmt"

	"github.com/dmitrijs2005/finsync/internal/common"
)

// Collection names a per-user logical partition of records.
type Collection string

const (
	Transactions Collection = "transactions"
	Wallets      Collection = "wallets"
	Budgets      Collection = "budgets"
)

// Collections lists every syncable collection.
func Collections() []Collection {
	return []Collection{Transactions, Wallets, Budgets}
}

// ParseCollection accepts only the fixed set of collection names. The
// returned value is always one of the package constants, never s itself.
func ParseCollection(s string) (Collection, error) {
	for _, c := range Collections() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownCollection, s)
}

func (c Collection) String() string {
	return string(c)
}
