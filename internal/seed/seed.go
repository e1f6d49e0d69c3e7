// Package seed loads a YAML portfolio fixture into the store. Rows whose id
// already exists in the mirror are skipped, so a fixture can be applied more
// than once.
package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/session"
	"github.com/ahmetcoskunkizilkaya/propertydesk/internal/store"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Managers   []Manager  `yaml:"managers"`
	Properties []Property `yaml:"properties"`
	Tenants    []Tenant   `yaml:"tenants"`
	Payments   []Payment  `yaml:"payments"`
	Accounts   []Account  `yaml:"accounts"`
}

type Manager struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
	City  string `yaml:"city"`
}

type Property struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	Address   string   `yaml:"address"`
	City      string   `yaml:"city"`
	State     string   `yaml:"state"`
	Zip       string   `yaml:"zip"`
	Manager   string   `yaml:"manager"`
	Amenities []string `yaml:"amenities"`
	Units     []Unit   `yaml:"units"`
}

type Unit struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Rent     string `yaml:"rent"`
	Bedrooms *int   `yaml:"bedrooms"`
}

type Tenant struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Unit       string `yaml:"unit"`
	EntryDate  string `yaml:"entry_date"`
	RentDueDay int    `yaml:"rent_due_day"`
}

// Payment is a proof to submit; Status paid or rejected also reviews it.
type Payment struct {
	ID     string `yaml:"id"`
	Tenant string `yaml:"tenant"`
	Amount string `yaml:"amount"`
	Period string `yaml:"period"`
	Method string `yaml:"method"`
	Status string `yaml:"status"`
}

type Account struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Profile  string `yaml:"profile"`
}

// AccountCreator is satisfied by services.AuthService.
type AccountCreator interface {
	CreateAccount(req *dto.CreateAccountRequest) (*dto.UserResponse, error)
}

// Result counts what Apply created.
type Result struct {
	Managers   int
	Properties int
	Units      int
	Tenants    int
	Payments   int
	Accounts   int
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Apply writes the fixture through the store in dependency order. accounts
// may be nil, in which case the accounts section is ignored.
func Apply(ctx context.Context, st *store.Store, accounts AccountCreator, f *Fixture) (Result, error) {
	var res Result

	for _, m := range f.Managers {
		if _, ok := st.Snapshot().Manager(m.ID); ok && m.ID != "" {
			continue
		}
		row := &models.Manager{ID: m.ID, Name: m.Name, Email: m.Email, Phone: m.Phone, City: m.City}
		if err := st.CreateManager(ctx, row); err != nil {
			return res, fmt.Errorf("manager %q: %w", m.Name, err)
		}
		res.Managers++
	}

	for _, p := range f.Properties {
		if _, ok := st.Snapshot().Property(p.ID); !ok || p.ID == "" {
			row := &models.Property{
				ID: p.ID, Name: p.Name, Address: p.Address, City: p.City,
				State: p.State, Zip: p.Zip, ManagerID: p.Manager, Amenities: p.Amenities,
			}
			if err := st.CreateProperty(ctx, row); err != nil {
				return res, fmt.Errorf("property %q: %w", p.Name, err)
			}
			p.ID = row.ID
			res.Properties++
		}
		for _, u := range p.Units {
			if _, ok := st.Snapshot().Unit(u.ID); ok && u.ID != "" {
				continue
			}
			rent, err := parseMoney(u.Rent)
			if err != nil {
				return res, fmt.Errorf("unit %q rent: %w", u.Name, err)
			}
			row := &models.Unit{ID: u.ID, Name: u.Name, PropertyID: p.ID, MonthlyRent: rent, Bedrooms: u.Bedrooms}
			if err := st.CreateUnit(ctx, row); err != nil {
				return res, fmt.Errorf("unit %q: %w", u.Name, err)
			}
			res.Units++
		}
	}

	for _, t := range f.Tenants {
		if _, ok := st.Snapshot().Tenant(t.ID); ok && t.ID != "" {
			continue
		}
		row := &models.Tenant{ID: t.ID, Name: t.Name, Email: t.Email, Phone: t.Phone, RentDueDay: t.RentDueDay}
		if t.Unit != "" {
			unit := t.Unit
			row.UnitID = &unit
		}
		if t.EntryDate != "" {
			d, err := models.ParseDate(t.EntryDate)
			if err != nil {
				return res, fmt.Errorf("tenant %q entry_date: %w", t.Name, err)
			}
			row.EntryDate = &d
		}
		if err := st.CreateTenant(ctx, row); err != nil {
			return res, fmt.Errorf("tenant %q: %w", t.Name, err)
		}
		res.Tenants++
	}

	reviewer := session.Identity{ID: "seed", Role: session.RoleSuperAdmin}
	for _, p := range f.Payments {
		if _, ok := st.Snapshot().Payment(p.ID); ok && p.ID != "" {
			continue
		}
		tenant, ok := st.Snapshot().Tenant(p.Tenant)
		if !ok || tenant.UnitID == nil {
			return res, fmt.Errorf("payment %q: tenant %q has no unit", p.Period, p.Tenant)
		}
		amount, err := parseMoney(p.Amount)
		if err != nil {
			return res, fmt.Errorf("payment %q amount: %w", p.Period, err)
		}
		row := &models.PaymentProof{
			ID: p.ID, TenantID: tenant.ID, UnitID: *tenant.UnitID,
			Amount: amount, Period: p.Period, PaymentMethod: p.Method,
		}
		if err := st.SubmitPayment(ctx, row); err != nil {
			return res, fmt.Errorf("payment %q: %w", p.Period, err)
		}
		if status := models.PaymentStatus(p.Status); status == models.PaymentPaid || status == models.PaymentRejected {
			if err := st.ReviewPayment(ctx, reviewer, row.ID, status); err != nil {
				return res, fmt.Errorf("review payment %q: %w", p.Period, err)
			}
		}
		res.Payments++
	}

	if accounts == nil {
		return res, nil
	}
	for _, a := range f.Accounts {
		_, err := accounts.CreateAccount(&dto.CreateAccountRequest{
			Email:     a.Email,
			Password:  a.Password,
			Role:      session.Role(a.Role),
			ProfileID: a.Profile,
		})
		if err != nil {
			return res, fmt.Errorf("account %q: %w", a.Email, err)
		}
		res.Accounts++
	}
	return res, nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
