package services

import (
	"strings"

	"upcache/internal/models"
)

// descriptionPrefixes maps literal description prefixes to the transaction
// type they imply. Matching is case-sensitive with no normalization, and the
// order here is load-bearing: the first matching prefix wins, so new entries
// must be placed with that in mind.
var descriptionPrefixes = []struct {
	prefixes []string
	inferred models.TransactionType
}{
	{[]string{"Cover to", "Cover from"}, models.TransactionTypeCover},
	{[]string{"Forward to", "Forward from"}, models.TransactionTypeForward},
	{[]string{"Transfer to", "Transfer from"}, models.TransactionTypeTransfer},
	{[]string{"Interest"}, models.TransactionTypeInterest},
	{[]string{"Bonus Payment"}, models.TransactionTypeBonus},
}

// InferTransactionType derives the semantic type of a transaction from its
// description, which is usually the merchant name. The result is a pure
// function of the description's literal prefix; a merchant whose name happens
// to start with one of the keywords will be misclassified, so this is a
// heuristic rather than a guarantee.
func InferTransactionType(description string) models.TransactionType {
	for _, rule := range descriptionPrefixes {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(description, prefix) {
				return rule.inferred
			}
		}
	}
	return models.TransactionTypeTransaction
}
