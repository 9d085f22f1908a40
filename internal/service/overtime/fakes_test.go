package overtime

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	payrollsvc "github.com/cmlabs-hris/hris-overtime-go/internal/service/payroll"
	"github.com/shopspring/decimal"
)

const testCompanyID = "company-1"

func date(s string) time.Time {
	t, err := time.Parse(overtime.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func companyCtx() context.Context {
	return overtime.ContextWithCompany(context.Background(), testCompanyID)
}

// ========== TRANSACTOR ==========

type snapshotter interface {
	snapshot() (restore func())
}

// fakeTransactor restores every registered store when fn fails.
type fakeTransactor struct {
	stores []snapshotter
	calls  int
}

func (f *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	restores := make([]func(), 0, len(f.stores))
	for _, s := range f.stores {
		restores = append(restores, s.snapshot())
	}
	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// ========== SLIPS ==========

type fakeSlipRepo struct {
	slips map[string]overtime.Slip
	locks []string
	seq   int
}

func newFakeSlipRepo() *fakeSlipRepo {
	return &fakeSlipRepo{slips: make(map[string]overtime.Slip)}
}

func copySlip(s overtime.Slip) overtime.Slip {
	s.Details = append([]overtime.Detail(nil), s.Details...)
	return s
}

func (f *fakeSlipRepo) snapshot() func() {
	saved := make(map[string]overtime.Slip, len(f.slips))
	for id, s := range f.slips {
		saved[id] = copySlip(s)
	}
	return func() { f.slips = saved }
}

func (f *fakeSlipRepo) assignDetailIDs(slip *overtime.Slip) {
	for i := range slip.Details {
		f.seq++
		slip.Details[i].SlipID = slip.ID
		if slip.Details[i].ID == "" {
			slip.Details[i].ID = "detail-" + strconv.Itoa(f.seq)
		}
	}
}

func (f *fakeSlipRepo) Create(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	slip = copySlip(slip)
	f.assignDetailIDs(&slip)
	slip.CreatedAt = time.Now()
	slip.UpdatedAt = slip.CreatedAt
	f.slips[slip.ID] = slip
	return copySlip(slip), nil
}

func (f *fakeSlipRepo) Update(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	if _, ok := f.slips[slip.ID]; !ok {
		return overtime.Slip{}, overtime.ErrSlipNotFound
	}
	slip = copySlip(slip)
	for i := range slip.Details {
		slip.Details[i].ID = ""
	}
	f.assignDetailIDs(&slip)
	f.slips[slip.ID] = slip
	return copySlip(slip), nil
}

func (f *fakeSlipRepo) GetByID(ctx context.Context, id string, companyID string) (overtime.Slip, error) {
	s, ok := f.slips[id]
	if !ok || s.CompanyID != companyID {
		return overtime.Slip{}, overtime.ErrSlipNotFound
	}
	return copySlip(s), nil
}

func (f *fakeSlipRepo) List(ctx context.Context, companyID string, filter overtime.SlipFilter) ([]overtime.Slip, int64, error) {
	var result []overtime.Slip
	for _, s := range f.slips {
		if s.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && s.EmployeeID != *filter.EmployeeID {
			continue
		}
		result = append(result, copySlip(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (f *fakeSlipRepo) Delete(ctx context.Context, id string, companyID string) error {
	if _, err := f.GetByID(ctx, id, companyID); err != nil {
		return err
	}
	delete(f.slips, id)
	return nil
}

func (f *fakeSlipRepo) UpdateDocStatus(ctx context.Context, id string, companyID string, status overtime.DocStatus) error {
	s, err := f.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	s.DocStatus = status
	f.slips[id] = s
	return nil
}

func (f *fakeSlipRepo) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID string) ([]overtime.Slip, error) {
	var result []overtime.Slip
	for _, s := range f.slips {
		if s.EmployeeID != employeeID || s.ID == excludeID || s.DocStatus >= overtime.DocStatusCancelled || !s.HasDateRange() {
			continue
		}
		if s.ToDate.Before(from) || s.FromDate.After(to) {
			continue
		}
		result = append(result, copySlip(s))
	}
	return result, nil
}

func (f *fakeSlipRepo) LockEmployee(ctx context.Context, employeeID string) error {
	f.locks = append(f.locks, employeeID)
	return nil
}

// ========== OVERTIME TYPES ==========

type fakeTypeRepo struct {
	types map[string]overtime.Type
	calls map[string]int
}

func (f *fakeTypeRepo) GetByID(ctx context.Context, id string, companyID string) (overtime.Type, error) {
	f.calls[id]++
	t, ok := f.types[id]
	if !ok || t.CompanyID != companyID {
		return overtime.Type{}, overtime.ErrOvertimeTypeNotFound
	}
	return t, nil
}

func (f *fakeTypeRepo) List(ctx context.Context, companyID string) ([]overtime.Type, error) {
	var result []overtime.Type
	for _, t := range f.types {
		if t.CompanyID == companyID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ========== ATTENDANCE ==========

type fakeAttendanceRepo struct {
	records []attendance.Attendance
}

func (f *fakeAttendanceRepo) add(employeeID, day, overtimeType, duration string) {
	f.addForCompany(testCompanyID, employeeID, day, overtimeType, duration)
}

func (f *fakeAttendanceRepo) addForCompany(companyID, employeeID, day, overtimeType, duration string) {
	f.records = append(f.records, attendance.Attendance{
		ID:                   "att-" + employeeID + "-" + day,
		EmployeeID:           employeeID,
		CompanyID:            companyID,
		Date:                 date(day),
		Status:               attendance.StatusPresent,
		OvertimeType:         strPtr(overtimeType),
		OvertimeDuration:     strPtr(duration),
		StandardWorkingHours: strPtr("08:00:00"),
	})
}

func (f *fakeAttendanceRepo) ListOvertimeAttendance(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, r := range f.records {
		if r.EmployeeID != employeeID || r.Status != attendance.StatusPresent {
			continue
		}
		if r.OvertimeType == nil || *r.OvertimeType == "" {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (f *fakeAttendanceRepo) EmployeesWithOvertime(ctx context.Context, companyID string, employeeIDs []string, from, to time.Time) ([]string, error) {
	var result []string
	for _, id := range employeeIDs {
		records, _ := f.ListOvertimeAttendance(ctx, id, from, to)
		for _, r := range records {
			if r.CompanyID == companyID {
				result = append(result, id)
				break
			}
		}
	}
	return result, nil
}

// ========== EMPLOYEES ==========

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeEmployeeRepo) GetActiveCompanyIDs(ctx context.Context) ([]string, error) {
	return []string{testCompanyID}, nil
}

// ========== PAYROLL ==========

type fakeStructureRepo struct {
	structures  map[string]payroll.SalaryStructure
	assignments map[string]payroll.StructureAssignment
}

func (f *fakeStructureRepo) GetAssignedStructure(ctx context.Context, employeeID string, date time.Time) (payroll.StructureAssignment, error) {
	a, ok := f.assignments[employeeID]
	if !ok || a.FromDate.After(date) {
		return payroll.StructureAssignment{}, payroll.ErrNoStructureAssigned
	}
	return a, nil
}

func (f *fakeStructureRepo) GetByID(ctx context.Context, id string) (payroll.SalaryStructure, error) {
	s, ok := f.structures[id]
	if !ok {
		return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
	}
	return s, nil
}

var errSinkUnavailable = errors.New("additional salary sink unavailable")

type fakeAdditionalSalaryRepo struct {
	salaries      []payroll.AdditionalSalary
	failComponent string
}

func (f *fakeAdditionalSalaryRepo) snapshot() func() {
	saved := append([]payroll.AdditionalSalary(nil), f.salaries...)
	return func() { f.salaries = saved }
}

func (f *fakeAdditionalSalaryRepo) Create(ctx context.Context, salary payroll.AdditionalSalary) (payroll.AdditionalSalary, error) {
	if salary.SalaryComponent == f.failComponent {
		return payroll.AdditionalSalary{}, errSinkUnavailable
	}
	f.salaries = append(f.salaries, salary)
	return salary, nil
}

func (f *fakeAdditionalSalaryRepo) ListByReference(ctx context.Context, refDocType, refDocID string, companyID string) ([]payroll.AdditionalSalary, error) {
	var result []payroll.AdditionalSalary
	for _, a := range f.salaries {
		if a.RefDocType == refDocType && a.RefDocID == refDocID && a.CompanyID == companyID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAdditionalSalaryRepo) ListSubmittedForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]payroll.AdditionalSalary, error) {
	return nil, nil
}

func (f *fakeAdditionalSalaryRepo) CancelByReference(ctx context.Context, refDocType, refDocID string, companyID string) (int64, error) {
	var count int64
	for i, a := range f.salaries {
		if a.RefDocType == refDocType && a.RefDocID == refDocID && a.CompanyID == companyID && a.DocStatus == payroll.DocStatusSubmitted {
			f.salaries[i].DocStatus = payroll.DocStatusCancelled
			count++
		}
	}
	return count, nil
}

type fakeSlipGenerator struct {
	slip  payroll.SalarySlip
	calls int
}

func (f *fakeSlipGenerator) MakeSalarySlip(ctx context.Context, structureID string, employeeID string, postingDate time.Time) (payroll.SalarySlip, error) {
	f.calls++
	return f.slip, nil
}

// ========== HOLIDAYS ==========

type fakeCalendar struct {
	lists map[string]string
	dates []holiday.Date
}

func (f *fakeCalendar) GetListForEmployee(ctx context.Context, employeeID string, companyID string) (string, error) {
	id, ok := f.lists[employeeID]
	if !ok {
		return "", holiday.ErrHolidayListNotFound
	}
	return id, nil
}

func (f *fakeCalendar) HolidayDatesBetween(ctx context.Context, listID string, from, to time.Time, includeWeeklyOff bool) ([]holiday.Date, error) {
	var result []holiday.Date
	for _, d := range f.dates {
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		if d.WeeklyOff && !includeWeeklyOff {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}

// ========== FIXTURE ==========

type fixture struct {
	svc         *OvertimeServiceImpl
	tx          *fakeTransactor
	slips       *fakeSlipRepo
	types       *fakeTypeRepo
	attendance  *fakeAttendanceRepo
	employees   *fakeEmployeeRepo
	structures  *fakeStructureRepo
	additional  *fakeAdditionalSalaryRepo
	calendar    *fakeCalendar
	slipBuilder *fakeSlipGenerator
}

func fixedType(id string, maxHours float64) overtime.Type {
	return overtime.Type{
		ID:                         id,
		CompanyID:                  testCompanyID,
		Name:                       id,
		StandardMultiplier:         decimal.RequireFromString("1.25"),
		WeekendMultiplier:          decimal.RequireFromString("1.5"),
		PublicHolidayMultiplier:    decimal.NewFromInt(2),
		ApplicableForWeekend:       true,
		ApplicableForPublicHoliday: true,
		CalculationMethod:          overtime.CalculationMethodFixedHourlyRate,
		HourlyRate:                 decimal.NewFromInt(10),
		MaximumHours:               maxHours,
		SalaryComponent:            "Overtime Allowance",
	}
}

func componentType(id string, components ...string) overtime.Type {
	t := fixedType(id, 0)
	t.CalculationMethod = overtime.CalculationMethodSalaryComponentBased
	t.HourlyRate = decimal.Zero
	t.ApplicableComponents = components
	return t
}

// newFixture wires the service with three employees on a monthly structure
// and a holiday list holding the first June weekend plus one public holiday.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		slips: newFakeSlipRepo(),
		types: &fakeTypeRepo{
			types: map[string]overtime.Type{
				"ot-fixed":     fixedType("ot-fixed", 0),
				"ot-capped":    fixedType("ot-capped", 2),
				"ot-component": componentType("ot-component", "Basic Salary"),
			},
			calls: make(map[string]int),
		},
		attendance: &fakeAttendanceRepo{},
		employees:  &fakeEmployeeRepo{employees: make(map[string]employee.Employee)},
		structures: &fakeStructureRepo{
			structures: map[string]payroll.SalaryStructure{
				"struct-1": {ID: "struct-1", CompanyID: testCompanyID, Name: "Staff", PayrollFrequency: payroll.FrequencyMonthly},
			},
			assignments: make(map[string]payroll.StructureAssignment),
		},
		additional: &fakeAdditionalSalaryRepo{},
		calendar: &fakeCalendar{
			lists: make(map[string]string),
			dates: []holiday.Date{
				{Date: date("2024-06-01"), WeeklyOff: true},
				{Date: date("2024-06-02"), WeeklyOff: true},
				{Date: date("2024-06-17"), WeeklyOff: false, Description: strPtr("Eid al-Adha")},
			},
		},
		slipBuilder: &fakeSlipGenerator{
			slip: payroll.SalarySlip{
				PaymentDays: 30,
				Earnings: []payroll.SalaryDetail{
					{SalaryComponent: "Basic Salary", Amount: decimal.NewFromInt(3000)},
					{SalaryComponent: "Basic Salary", Amount: decimal.NewFromInt(500), AdditionalSalaryID: strPtr("as-prev")},
					{SalaryComponent: "Housing", Amount: decimal.NewFromInt(700)},
				},
			},
		},
	}

	for _, id := range []string{"emp-1", "emp-2", "emp-3"} {
		f.employees.employees[id] = employee.Employee{ID: id, CompanyID: testCompanyID, FullName: id}
		f.structures.assignments[id] = payroll.StructureAssignment{
			ID: "ssa-" + id, EmployeeID: id, StructureID: "struct-1", CompanyID: testCompanyID, FromDate: date("2024-01-01"),
		}
		f.calendar.lists[id] = "hl-1"
	}

	f.tx = &fakeTransactor{stores: []snapshotter{f.slips, f.additional}}
	f.svc = NewOvertimeService(
		f.tx,
		f.slips,
		f.types,
		f.attendance,
		f.employees,
		f.structures,
		f.additional,
		f.calendar,
		payrollsvc.NewPeriodResolver(),
		f.slipBuilder,
		opts,
	).(*OvertimeServiceImpl)
	return f
}

func defaultOptions() Options {
	return Options{CurrencyPrecision: 2, SubmitPolicy: SubmitPolicyApproval}
}
