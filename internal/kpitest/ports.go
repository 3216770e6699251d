package kpitest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/contract"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/payrule"
	"github.com/cmlabs-hris/hris-kpi-engine/internal/domain/shift"
)

// Port names accepted by Ports.FailOn.
const (
	PortShifts      = "shifts"
	PortHolidays    = "holidays"
	PortPayRules    = "pay_rules"
	PortContracts   = "contracts"
	PortAdjustments = "manual_adjustments"
	PortEmployees   = "employees"
)

// Ports is an in-memory implementation of every upstream repository.
// Fields may be set before use; FailOn may be called at any time.
type Ports struct {
	Shifts      []shift.Shift
	Holidays    []shift.Holiday
	PayRules    []payrule.PayRule
	Contracts   []contract.Contract
	Adjustments []contract.ManualAdjustment
	Employees   []employee.Employee

	// Reads counts every port call.
	Reads atomic.Int64

	mu       sync.RWMutex
	failures map[string]error
}

// FailOn makes every read of port return err. A nil err clears the failure.
func (p *Ports) FailOn(port string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures == nil {
		p.failures = make(map[string]error)
	}
	if err == nil {
		delete(p.failures, port)
		return
	}
	p.failures[port] = err
}

func (p *Ports) read(port string) error {
	p.Reads.Add(1)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failures[port]
}

func (p *Ports) ListShifts(ctx context.Context, userID *string, start, endExclusive time.Time) ([]shift.Shift, error) {
	if err := p.read(PortShifts); err != nil {
		return nil, err
	}
	var out []shift.Shift
	for _, s := range p.Shifts {
		if userID != nil && s.UserID != *userID {
			continue
		}
		if s.Start.Before(start) || !s.Start.Before(endExclusive) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *Ports) ListHolidays(ctx context.Context, start, endExclusive time.Time) ([]shift.Holiday, error) {
	if err := p.read(PortHolidays); err != nil {
		return nil, err
	}
	from, to := contract.DateOnly(start), contract.DateOnly(endExclusive)
	var out []shift.Holiday
	for _, h := range p.Holidays {
		d := contract.DateOnly(h.Date)
		if d.Before(from) || !d.Before(to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (p *Ports) ListPayRules(ctx context.Context, userID *string) ([]payrule.PayRule, error) {
	if err := p.read(PortPayRules); err != nil {
		return nil, err
	}
	var out []payrule.PayRule
	for _, r := range p.PayRules {
		if userID == nil || r.AppliesTo(*userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (p *Ports) ListContracts(ctx context.Context, userID string) ([]contract.Contract, error) {
	if err := p.read(PortContracts); err != nil {
		return nil, err
	}
	var out []contract.Contract
	for _, c := range p.Contracts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (p *Ports) GetManualAdjustment(ctx context.Context, userID string, year int) (*contract.ManualAdjustment, error) {
	if err := p.read(PortAdjustments); err != nil {
		return nil, err
	}
	for _, a := range p.Adjustments {
		if a.UserID == userID && a.Year == year {
			adj := a
			return &adj, nil
		}
	}
	return nil, nil
}

func (p *Ports) ListActive(ctx context.Context, start, endExclusive time.Time) ([]employee.Employee, error) {
	if err := p.read(PortEmployees); err != nil {
		return nil, err
	}
	var out []employee.Employee
	for _, e := range p.Employees {
		if !e.HireDate.Before(endExclusive) {
			continue
		}
		if e.ResignationDate != nil && e.ResignationDate.Before(start) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
