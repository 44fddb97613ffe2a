package service

import "time"

// LoanPeriodDays is the number of days a borrower may keep a book.
const LoanPeriodDays = 14

// DueDateFor returns the fixed due date for a borrow started at borrowedAt.
// The due date is computed once at creation and never recalculated.
func DueDateFor(borrowedAt time.Time) time.Time {
	return borrowedAt.AddDate(0, 0, LoanPeriodDays)
}

// ReconcileAvailableCopies recomputes availability after staff change a
// book's total copy count. Copies currently out on loan are preserved:
//
//	borrowed = oldTotal - oldAvailable
//	newAvailable = newTotal - borrowed
//
// The result can go negative when staff shrink the total below the number
// of copies on loan. That is allowed and left visible as a signal of
// over-commitment; returns bring the counter back toward the bound.
func ReconcileAvailableCopies(oldTotal, oldAvailable, newTotal int) int {
	borrowed := oldTotal - oldAvailable
	return newTotal - borrowed
}
