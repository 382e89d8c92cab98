package library

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/entities"
)

// Ledger tracks which account holds which book and settles late fees on return.
type Ledger struct {
	checkouts  CheckoutStore
	books      BookGetter
	accounts   AccountFinder
	loanPeriod time.Duration
}

func NewLedger(checkouts CheckoutStore, books BookGetter, accounts AccountFinder, loanPeriod time.Duration) *Ledger {
	return &Ledger{
		checkouts:  checkouts,
		books:      books,
		accounts:   accounts,
		loanPeriod: loanPeriod,
	}
}

// LoanPeriod is the time between checkout and due.
func (l *Ledger) LoanPeriod() time.Duration {
	return l.loanPeriod
}

// CheckoutResult is the outcome of CheckOut. AlreadyCheckedOut is set when
// the account already held the book; Checkout is then the existing record.
type CheckoutResult struct {
	Checkout          entities.Checkout `json:"checkout"`
	AlreadyCheckedOut bool              `json:"already_checked_out"`
}

// CheckOut lends the book to the caller. Repeating it while the book is still
// held changes nothing.
func (l *Ledger) CheckOut(ctx context.Context, who Identity, isbn string, now time.Time) (*CheckoutResult, error) {
	if !who.IsAuthenticated() {
		return nil, ErrAnonymous
	}
	isbn, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}

	book, err := l.books.GetBook(ctx, isbn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, Operational("get book", err)
	}
	if _, err := l.accounts.GetAccount(who.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, Operational("get account", err)
	}

	now = now.UTC()
	co := entities.Checkout{
		ID:           uuid.NewString(),
		AccountEmail: who.Email,
		ISBN:         isbn,
		CheckoutTime: now,
		DueTime:      now.Add(l.loanPeriod),
	}

	// A concurrent return can remove the row that blocked the insert before
	// it is read back. The insert is then retried.
	for attempt := 0; attempt < 2; attempt++ {
		created, err := l.checkouts.CreateIfAbsent(ctx, &co)
		if err != nil {
			return nil, Operational("create checkout", err)
		}
		if created {
			co.Book = *book
			return &CheckoutResult{Checkout: co}, nil
		}
		existing, err := l.checkouts.GetOpen(ctx, who.Email, isbn)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, Operational("get existing checkout", err)
		}
		return &CheckoutResult{Checkout: *existing, AlreadyCheckedOut: true}, nil
	}
	return nil, Operational("create checkout", errCheckoutContended)
}

var errCheckoutContended = errors.New("checkout kept changing during insert")

// ReturnReceipt describes a settled checkout. The checkout row itself no
// longer exists once the receipt is issued.
type ReturnReceipt struct {
	Checkout   entities.Checkout `json:"checkout"`
	ReturnedAt time.Time         `json:"returned_at"`
	DaysLate   int64             `json:"days_late"`
	Fee        Cents             `json:"late_fee"`
}

// ReturnBook computes the late fee at now, records it on the checkout and
// removes the checkout in a single transaction. ErrNotCheckedOut means the
// caller held no such book and nothing changed.
func (l *Ledger) ReturnBook(ctx context.Context, who Identity, isbn string, now time.Time, dailyRate Cents) (*ReturnReceipt, error) {
	if !who.IsAuthenticated() {
		return nil, ErrAnonymous
	}
	if err := ValidateDailyRate(dailyRate); err != nil {
		return nil, err
	}
	isbn, err := NormalizeISBN(isbn)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	closed, err := l.checkouts.Close(ctx, who.Email, isbn, func(co *entities.Checkout) {
		co.LateFeeCents = int64(CalculateLateFee(*co, now, dailyRate))
		co.Returned = true
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotCheckedOut
		}
		return nil, Operational("close checkout", err)
	}

	return &ReturnReceipt{
		Checkout:   *closed,
		ReturnedAt: now,
		DaysLate:   DaysLate(*closed, now),
		Fee:        Cents(closed.LateFeeCents),
	}, nil
}

// OpenCheckout is an unreturned checkout with its standing at a point in time.
type OpenCheckout struct {
	entities.Checkout
	Overdue    bool  `json:"overdue"`
	DaysLate   int64 `json:"days_late"`
	AccruedFee Cents `json:"accrued_fee"`
}

// ListOpenCheckouts returns the caller's open checkouts with book details.
func (l *Ledger) ListOpenCheckouts(ctx context.Context, who Identity, now time.Time, dailyRate Cents) ([]OpenCheckout, error) {
	if !who.IsAuthenticated() {
		return nil, ErrAnonymous
	}
	checkouts, err := l.checkouts.ListOpenForAccount(ctx, who.Email)
	if err != nil {
		return nil, Operational("list checkouts", err)
	}
	return annotate(checkouts, now, dailyRate, false), nil
}

// ListAllOpenCheckouts returns every open checkout, optionally only the
// overdue ones.
func (l *Ledger) ListAllOpenCheckouts(ctx context.Context, now time.Time, dailyRate Cents, overdueOnly bool) ([]OpenCheckout, error) {
	checkouts, err := l.checkouts.ListOpen(ctx)
	if err != nil {
		return nil, Operational("list checkouts", err)
	}
	return annotate(checkouts, now, dailyRate, overdueOnly), nil
}

func annotate(checkouts []entities.Checkout, now time.Time, dailyRate Cents, overdueOnly bool) []OpenCheckout {
	result := make([]OpenCheckout, 0, len(checkouts))
	for _, co := range checkouts {
		overdue := IsOverdue(co, now)
		if overdueOnly && !overdue {
			continue
		}
		result = append(result, OpenCheckout{
			Checkout:   co,
			Overdue:    overdue,
			DaysLate:   DaysLate(co, now),
			AccruedFee: CalculateLateFee(co, now, dailyRate),
		})
	}
	return result
}
