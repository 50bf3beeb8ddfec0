package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row-lock helpers for the order lifecycle: shared locks during the
// availability check at order creation, exclusive locks during the stock
// decrement at confirmation. sqlite (the test dialect) has no row locks and
// rejects the FOR SHARE / FOR UPDATE syntax, so the clause is skipped there.

func ForShare(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "SHARE"})
}

func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
