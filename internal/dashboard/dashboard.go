// Package dashboard reduces fetched transactions into the summary, bank and party views.
package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/finflow/internal/ledger"
)

// RecentLimit is how many of the latest records a summary carries.
const RecentLimit = 5

const (
	OthersBucket = "Others"
	CashBucket   = "Cash"
)

type Summary struct {
	TotalInflow         int64
	ChequeTransactions  int
	ChequeAmount        int64
	CashTransactions    int
	CashAmount          int64
	DigitalTransactions int
	DigitalAmount       int64
	Recent              []ledger.Record
}

// Zero is the summary reported when the data could not be fetched.
func Zero() Summary {
	return Summary{Recent: []ledger.Record{}}
}

// Summarize computes totals per kind and the most recently created records.
// Inflow ignores direction: it is the sum of every amount.
func Summarize(set ledger.Set) Summary {
	s := Zero()

	for _, c := range set.Cash {
		s.CashTransactions++
		s.CashAmount += c.Amount
	}

	for _, c := range set.Cheques {
		s.ChequeTransactions++
		s.ChequeAmount += c.Amount
	}

	for _, d := range set.Digital {
		s.DigitalTransactions++
		s.DigitalAmount += d.Amount
	}

	s.TotalInflow = s.CashAmount + s.ChequeAmount + s.DigitalAmount

	records := set.Records()
	slices.SortStableFunc(records, func(a, b ledger.Record) int {
		return b.Common().CreatedAt.Compare(a.Common().CreatedAt)
	})

	if len(records) > RecentLimit {
		records = records[:RecentLimit]
	}

	s.Recent = records

	return s
}

type BankTotal struct {
	Name   string
	Amount int64
}

// BankDistribution totals cheque and digital amounts by trimmed bank name.
// Blank names count as Others. Cash records form a final Cash bucket when
// they add up to something; a bank literally named Cash shares that bucket.
func BankDistribution(set ledger.Set) []BankTotal {
	var (
		order  []string
		totals = make(map[string]int64)
		cash   int64
	)

	add := func(bank string, amount int64) {
		name := strings.TrimSpace(bank)
		if name == "" {
			name = OthersBucket
		}

		if name == CashBucket {
			cash += amount
			return
		}

		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}

		totals[name] += amount
	}

	for _, c := range set.Cheques {
		add(c.BankName, c.Amount)
	}

	for _, d := range set.Digital {
		add(d.BankName, d.Amount)
	}

	for _, c := range set.Cash {
		cash += c.Amount
	}

	out := make([]BankTotal, 0, len(order)+1)
	for _, name := range order {
		out = append(out, BankTotal{Name: name, Amount: totals[name]})
	}

	if cash > 0 {
		out = append(out, BankTotal{Name: CashBucket, Amount: cash})
	}

	return out
}

type PartyTotal struct {
	Party    string
	Incoming int64
	Outgoing int64
}

func (p PartyTotal) Net() int64 { return p.Incoming - p.Outgoing }

// PartyTotals sums incoming and outgoing amounts per trimmed party name, sorted by name.
func PartyTotals(set ledger.Set) []PartyTotal {
	byParty := make(map[string]*PartyTotal)

	for _, r := range set.Records() {
		e := r.Common()
		name := strings.TrimSpace(e.Party)

		p, ok := byParty[name]
		if !ok {
			p = &PartyTotal{Party: name}
			byParty[name] = p
		}

		switch e.Direction {
		case ledger.DirectionIncoming:
			p.Incoming += e.Amount
		case ledger.DirectionOutgoing:
			p.Outgoing += e.Amount
		}
	}

	out := make([]PartyTotal, 0, len(byParty))
	for _, p := range byParty {
		out = append(out, *p)
	}

	slices.SortFunc(out, func(a, b PartyTotal) int {
		return cmp.Compare(a.Party, b.Party)
	})

	return out
}
