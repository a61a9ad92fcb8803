// Package parser implements the payroll file Parser port for CSV uploads.
// Headers are matched through alias normalization so common spreadsheet
// spellings all land on the canonical keys. Parse errors are row-scoped;
// only a file with no extractable rows fails as a whole.
package parser

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"fairworkly/internal/validation/ports"
	"fairworkly/pkg/domain"
)

// Canonical column keys.
const (
	colEmployeeEmail  = "employee_email"
	colEmployeeNumber = "employee_number"
	colEmployeeName   = "employee_name"
	colAward          = "award"
	colClassification = "classification"
	colCategory       = "employment_category"
	colHourlyRate     = "hourly_rate"
	colOrdinaryHours  = "ordinary_hours"
	colOrdinaryPay    = "ordinary_pay"
	colSaturdayHours  = "saturday_hours"
	colSaturdayPay    = "saturday_pay"
	colSundayHours    = "sunday_hours"
	colSundayPay      = "sunday_pay"
	colHolidayHours   = "public_holiday_hours"
	colHolidayPay     = "public_holiday_pay"
	colGrossPay       = "gross_pay"
	colSuperPaid      = "super_paid"
	colPeriodStart    = "period_start"
	colPeriodEnd      = "period_end"
)

// headerAliases maps canonical keys to accepted header variations. Variations
// are matched after normalization, so case, punctuation, and extra whitespace
// never matter.
var headerAliases = map[string][]string{
	colEmployeeEmail:  {"employee email", "email", "staff email", "worker email"},
	colEmployeeNumber: {"employee number", "emp number", "employee id", "staff number"},
	colEmployeeName:   {"employee name", "name", "staff name", "worker name", "full name"},
	colAward:          {"award", "award code", "modern award"},
	colClassification: {"classification", "classification level", "level", "pay grade"},
	colCategory:       {"employment category", "employment type", "category", "engagement type"},
	colHourlyRate:     {"hourly rate", "base rate", "rate", "pay rate"},
	colOrdinaryHours:  {"ordinary hours", "standard hours", "weekday hours"},
	colOrdinaryPay:    {"ordinary pay", "standard pay", "weekday pay"},
	colSaturdayHours:  {"saturday hours", "sat hours"},
	colSaturdayPay:    {"saturday pay", "sat pay"},
	colSundayHours:    {"sunday hours", "sun hours"},
	colSundayPay:      {"sunday pay", "sun pay"},
	colHolidayHours:   {"public holiday hours", "holiday hours", "ph hours"},
	colHolidayPay:     {"public holiday pay", "holiday pay", "ph pay"},
	colGrossPay:       {"gross pay", "gross", "total pay"},
	colSuperPaid:      {"super paid", "super", "superannuation", "superannuation paid"},
	colPeriodStart:    {"period start", "pay period start", "start date"},
	colPeriodEnd:      {"period end", "pay period end", "end date"},
}

// requiredKeys must all be present in the header row; a file missing any of
// them cannot be audited at all.
var requiredKeys = []string{
	colAward, colClassification, colCategory, colHourlyRate,
	colOrdinaryHours, colOrdinaryPay, colGrossPay,
}

// awardAliases maps spreadsheet award spellings to award codes.
var awardAliases = map[string]domain.AwardCode{
	"retail":                        domain.AwardRetail,
	"general retail":                domain.AwardRetail,
	"general retail industry award": domain.AwardRetail,
	"gria":                          domain.AwardRetail,
	"hospitality":                   domain.AwardHospitality,
	"hospitality industry general award": domain.AwardHospitality,
	"higa":                               domain.AwardHospitality,
	"clerks":                             domain.AwardClerks,
	"clerks private sector":              domain.AwardClerks,
	"clerks private sector award":        domain.AwardClerks,
}

// categoryAliases maps spreadsheet employment type spellings to categories.
var categoryAliases = map[string]domain.EmploymentCategory{
	"permanent":  domain.EmploymentPermanent,
	"full time":  domain.EmploymentPermanent,
	"fulltime":   domain.EmploymentPermanent,
	"ft":         domain.EmploymentPermanent,
	"casual":     domain.EmploymentCasual,
	"part time":  domain.EmploymentPartTime,
	"parttime":   domain.EmploymentPartTime,
	"pt":         domain.EmploymentPartTime,
	"fixed term": domain.EmploymentFixedTerm,
	"contract":   domain.EmploymentFixedTerm,
}

var (
	headerPunct = regexp.MustCompile(`[*#\-_.:]+`)
	whitespace  = regexp.MustCompile(`\s+`)
	levelDigits = regexp.MustCompile(`\d+`)
)

// dateLayouts accepted for period bounds, ISO first.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006"}

// CSVParser implements ports.Parser for comma-separated payroll files.
type CSVParser struct {
	aliasToCanonical map[string]string
}

func NewCSVParser() *CSVParser {
	p := &CSVParser{aliasToCanonical: make(map[string]string)}
	for canonical, aliases := range headerAliases {
		p.aliasToCanonical[normalizeHeader(canonical)] = canonical
		for _, alias := range aliases {
			p.aliasToCanonical[normalizeHeader(alias)] = canonical
		}
	}
	return p
}

// Parse reads the whole stream. Row numbers in parse errors are 1-based file
// line numbers, so the header is row 1 and the first data row is row 2.
func (p *CSVParser) Parse(ctx context.Context, r io.Reader) ([]ports.Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, []string{"file is empty"}, nil
	}
	if err != nil {
		return nil, []string{fmt.Sprintf("row 1: cannot read header: %v", err)}, nil
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if canonical, ok := p.aliasToCanonical[normalizeHeader(h)]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	if missing := missingRequired(columns); len(missing) > 0 {
		return nil, []string{fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}, nil
	}
	_, hasEmail := columns[colEmployeeEmail]
	_, hasNumber := columns[colEmployeeNumber]
	if !hasEmail && !hasNumber {
		return nil, []string{"missing required columns: employee_email or employee_number"}, nil
	}

	var rows []ports.Row
	var parseErrors []string
	rowNum := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if len(fields) > 0 {
			// Real file line, so blank lines never shift reported rows.
			rowNum, _ = reader.FieldPos(0)
		} else {
			rowNum++
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if isBlank(fields) {
			continue
		}
		row, rowErr := p.parseRow(fields, columns, rowNum)
		if rowErr != nil {
			parseErrors = append(parseErrors, rowErr.Error())
			continue
		}
		rows = append(rows, row)
	}
	return rows, parseErrors, nil
}

func (p *CSVParser) parseRow(fields []string, columns map[string]int, rowNum int) (ports.Row, error) {
	cell := func(key string) string {
		idx, ok := columns[key]
		if !ok || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	row := ports.Row{
		RowNumber:      rowNum,
		EmployeeEmail:  cell(colEmployeeEmail),
		EmployeeNumber: cell(colEmployeeNumber),
		EmployeeName:   cell(colEmployeeName),
		Classification: cell(colClassification),
	}
	if row.EmployeeEmail == "" && row.EmployeeNumber == "" {
		return ports.Row{}, fmt.Errorf("row %d: employee email or number is required", rowNum)
	}

	award, ok := awardAliases[normalizeHeader(cell(colAward))]
	if !ok {
		return ports.Row{}, fmt.Errorf("row %d: unsupported award %q", rowNum, cell(colAward))
	}
	row.Award = award

	category, ok := categoryAliases[normalizeHeader(cell(colCategory))]
	if !ok {
		return ports.Row{}, fmt.Errorf("row %d: unsupported employment category %q", rowNum, cell(colCategory))
	}
	row.Category = category

	// An empty classification survives parsing so the pre-validation gate can
	// report it per record. A non-empty label must name its level.
	if row.Classification != "" {
		digits := levelDigits.FindString(row.Classification)
		if digits == "" {
			return ports.Row{}, fmt.Errorf("row %d: classification %q does not name a level", rowNum, row.Classification)
		}
		level, err := strconv.Atoi(digits)
		if err != nil {
			return ports.Row{}, fmt.Errorf("row %d: classification %q does not name a level", rowNum, row.Classification)
		}
		row.Level = level
	}

	var err error
	numeric := []struct {
		key  string
		dest *float64
	}{
		{colHourlyRate, &row.HourlyRate},
		{colOrdinaryHours, &row.OrdinaryHours},
		{colOrdinaryPay, &row.OrdinaryPay},
		{colSaturdayHours, &row.SaturdayHours},
		{colSaturdayPay, &row.SaturdayPay},
		{colSundayHours, &row.SundayHours},
		{colSundayPay, &row.SundayPay},
		{colHolidayHours, &row.PublicHolidayHours},
		{colHolidayPay, &row.PublicHolidayPay},
		{colGrossPay, &row.GrossPay},
		{colSuperPaid, &row.SuperPaid},
	}
	for _, n := range numeric {
		if *n.dest, err = parseAmount(cell(n.key)); err != nil {
			return ports.Row{}, fmt.Errorf("row %d: %s: %v", rowNum, n.key, err)
		}
	}

	if row.PeriodStart, err = parseDate(cell(colPeriodStart)); err != nil {
		return ports.Row{}, fmt.Errorf("row %d: %s: %v", rowNum, colPeriodStart, err)
	}
	if row.PeriodEnd, err = parseDate(cell(colPeriodEnd)); err != nil {
		return ports.Row{}, fmt.Errorf("row %d: %s: %v", rowNum, colPeriodEnd, err)
	}
	return row, nil
}

// normalizeHeader lowercases, strips decoration, and collapses whitespace so
// "Hourly-Rate *" and "hourly rate" match the same alias.
func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = headerPunct.ReplaceAllString(h, " ")
	h = whitespace.ReplaceAllString(h, " ")
	return strings.TrimSpace(h)
}

func missingRequired(columns map[string]int) []string {
	var missing []string
	for _, key := range requiredKeys {
		if _, ok := columns[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseAmount coerces a money or hours cell. Empty cells are zero; currency
// decoration is tolerated.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
