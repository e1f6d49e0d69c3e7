// Package ledger derives a tenant's month-by-month rent ledger from the
// lease start, the unit rent and the reviewed payment proofs. Nothing here is
// persisted; every call recomputes from its inputs.
package ledger

import (
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusOverdue Status = "overdue"
	StatusPending Status = "pending"
)

// maxMonths bounds the walk from the entry month.
const maxMonths = 60

type Entry struct {
	TenantID   string          `json:"tenant_id"`
	TenantName string          `json:"tenant_name"`
	UnitName   string          `json:"unit_name"`
	Period     string          `json:"period"`
	Expected   decimal.Decimal `json:"expected"`
	Paid       decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"`
	DueDate    time.Time       `json:"due_date"`
	Status     Status          `json:"status"`
}

// PeriodLabel is the month label payment proofs are filed under.
func PeriodLabel(t time.Time) string {
	return t.Format(models.PeriodLayout)
}

// Project returns one entry per month from the tenant's entry month through
// today's month, newest due date first. A tenant without an entry date, with
// an entry date after today, or without a unit has no entries. A unit that no
// longer resolves is reported as Unknown with zero rent.
func Project(tenant models.Tenant, unit *models.Unit, payments []models.PaymentProof, today time.Time) []Entry {
	if tenant.EntryDate == nil || tenant.UnitID == nil || *tenant.UnitID == "" {
		return nil
	}
	today = dateOf(today)
	entry := dateOf(*tenant.EntryDate)
	if entry.After(today) {
		return nil
	}

	unitName, rent := store.Unknown, decimal.Zero
	if unit != nil {
		unitName, rent = unit.Name, unit.MonthlyRent
	}

	paidByPeriod := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if p.TenantID != tenant.ID || p.UnitID != *tenant.UnitID || p.Status != models.PaymentPaid {
			continue
		}
		paidByPeriod[p.Period] = paidByPeriod[p.Period].Add(p.Amount)
	}

	end := monthOf(today)
	month := monthOf(entry)
	var entries []Entry
	for i := 0; i < maxMonths && !month.After(end); i++ {
		days := daysIn(month)

		expected := rent
		if i == 0 && entry.Day() > 1 {
			occupied := days - entry.Day() + 1
			expected = rent.Div(decimal.NewFromInt(int64(days))).Mul(decimal.NewFromInt(int64(occupied))).Round(0)
		}

		period := PeriodLabel(month)
		e := Entry{
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
			UnitName:   unitName,
			Period:     period,
			Expected:   expected,
			Paid:       decimal.Zero,
			DueDate:    dueDate(month, tenant.RentDueDay),
		}
		if e.DueDate.After(today) {
			e.Status = StatusPending
		} else {
			e.Paid = paidByPeriod[period]
			e.Status = statusFor(expected, e.Paid)
		}
		e.Balance = e.Expected.Sub(e.Paid)
		entries = append(entries, e)

		month = month.AddDate(0, 1, 0)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueDate.After(entries[j].DueDate)
	})
	return entries
}

// ForTenant projects a mirrored tenant using the snapshot's unit and payments.
func ForTenant(snap *store.Snapshot, row store.TenantRow, today time.Time) []Entry {
	var unit *models.Unit
	if row.UnitID != nil {
		if u, ok := snap.Unit(*row.UnitID); ok {
			unit = &u.Unit
		}
	}
	var payments []models.PaymentProof
	for _, p := range snap.Payments {
		if p.TenantID == row.ID {
			payments = append(payments, p.PaymentProof)
		}
	}
	return Project(row.Tenant, unit, payments, today)
}

// ForTenants merges the ledgers of several tenants, newest due date first and
// then by tenant name.
func ForTenants(snap *store.Snapshot, rows []store.TenantRow, today time.Time) []Entry {
	var all []Entry
	for _, row := range rows {
		all = append(all, ForTenant(snap, row, today)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].DueDate.Equal(all[j].DueDate) {
			return all[i].DueDate.After(all[j].DueDate)
		}
		return all[i].TenantName < all[j].TenantName
	})
	return all
}

// Totals sums expected, paid and outstanding amounts over entries.
func Totals(entries []Entry) (expected, paid, balance decimal.Decimal) {
	for _, e := range entries {
		expected = expected.Add(e.Expected)
		paid = paid.Add(e.Paid)
		balance = balance.Add(e.Balance)
	}
	return expected, paid, balance
}

func statusFor(expected, paid decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(expected):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusOverdue
	}
}

// dueDate clamps dueDay to the month's last day.
func dueDate(month time.Time, dueDay int) time.Time {
	if dueDay < 1 {
		dueDay = 1
	}
	if last := daysIn(month); dueDay > last {
		dueDay = last
	}
	return time.Date(month.Year(), month.Month(), dueDay, 0, 0, 0, 0, time.UTC)
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
