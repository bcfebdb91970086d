package entities

// Settlement is one computed credit produced by settling a round: the amount
// an account receives and why. Losing stakes produce no settlement; the
// debit already happened when the ticket was accepted.
type Settlement struct {
	AccountID string
	Amount    int64
	Reason    EntryReason
}

// TotalSettled sums the credited amounts of a settlement list.
func TotalSettled(settlements []Settlement) int64 {
	var total int64
	for _, s := range settlements {
		total += s.Amount
	}
	return total
}
