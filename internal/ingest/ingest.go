// Package ingest parses the daily performance CSV exported by the affiliate
// platform into sales records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kimostudio/affiliate-dashboard/internal/model"
)

// Columns is the header the file must start with, in order.
var Columns = []string{
	"Tanggal",
	"Klik",
	"Pesanan",
	"Komisi Kotor(Rp)",
	"Produk Terjual",
	"Total Pembelian yang Dibuat(Rp)",
	"Pembeli Baru",
}

var (
	ErrEmptyFile = errors.New("csv file is empty")
	ErrBadHeader = errors.New("csv header does not match the expected columns")
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2/1/2006"}

// SkippedRow is a data line that could not be turned into a record.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is a parsed file. Zeroed lists kept rows in which a non-blank
// numeric cell could not be read.
type Result struct {
	Records []model.SalesRecord `json:"records"`
	Skipped []SkippedRow        `json:"skipped"`
	Zeroed  []SkippedRow        `json:"zeroed"`
}

// Parse reads a CSV for one account. Rows with the wrong column count or an
// unreadable date are skipped; numeric cells that do not parse count as
// zero and the row is listed in Zeroed. When a date repeats, the later row wins. Records come back sorted
// by date.
func Parse(r io.Reader, accountID string) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrEmptyFile
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return Result{}, err
	}

	res := Result{
		Records: make([]model.SalesRecord, 0),
		Skipped: make([]SkippedRow, 0),
		Zeroed:  make([]SkippedRow, 0),
	}
	byDate := make(map[time.Time]int)
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return Result{}, fmt.Errorf("read csv: %w", err)
			}
			res.Skipped = append(res.Skipped, SkippedRow{Line: pe.StartLine, Reason: pe.Err.Error()})
			continue
		}
		line, _ := cr.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		if len(fields) != len(Columns) {
			res.Skipped = append(res.Skipped, SkippedRow{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(Columns), len(fields)),
			})
			continue
		}

		date, err := ParseDate(fields[0])
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}

		rec := model.SalesRecord{AccountID: accountID, Date: date}
		var zeroed []string
		count := func(col int) int {
			n, ok := parseCount(fields[col])
			if !ok {
				zeroed = append(zeroed, Columns[col])
			}
			return n
		}
		amount := func(col int) decimal.Decimal {
			d, ok := parseAmount(fields[col])
			if !ok {
				zeroed = append(zeroed, Columns[col])
			}
			return d
		}
		rec.Clicks = count(1)
		rec.Orders = count(2)
		rec.GrossCommission = amount(3)
		rec.ProductsSold = count(4)
		rec.TotalPurchases = amount(5)
		rec.NewBuyers = count(6)
		if len(zeroed) > 0 {
			res.Zeroed = append(res.Zeroed, SkippedRow{
				Line:   line,
				Reason: "unreadable number stored as 0: " + strings.Join(zeroed, ", "),
			})
		}

		if i, dup := byDate[date]; dup {
			res.Records[i] = rec
			continue
		}
		byDate[date] = len(res.Records)
		res.Records = append(res.Records, rec)
	}

	sort.SliceStable(res.Records, func(i, j int) bool {
		return res.Records[i].Date.Before(res.Records[j].Date)
	})
	return res, nil
}

func checkHeader(header []string) error {
	if len(header) != len(Columns) {
		return fmt.Errorf("%w: got %d columns", ErrBadHeader, len(header))
	}
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if !strings.EqualFold(h, Columns[i]) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrBadHeader, i+1, h, Columns[i])
		}
	}
	return nil
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ParseDate accepts ISO dates and day-first dates with / or - separators.
// The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// cleanNumber drops currency markers and spaces, then normalises digit
// grouping to a plain decimal. Both "1,234,567.5" and the rupiah style
// "1.234.567,5" come out as "1234567.5". A lone separator followed by exactly
// three digits is read as grouping, so "150,000" and "Rp 1.500" are whole
// numbers while "12,5" and "0.75" keep their fraction.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Rp")
	s = strings.TrimPrefix(s, "IDR")
	s = strings.ReplaceAll(s, " ", "")

	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas > 0:
		return ungroup(s, ",", commas)
	case dots > 0:
		return ungroup(s, ".", dots)
	}
	return s
}

func ungroup(s, sep string, n int) string {
	if n > 1 || len(s)-strings.LastIndex(s, sep)-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// parseCount reads a non-negative whole count. ok is false when a non-blank
// cell could not be read and the zero is a substitute.
func parseCount(s string) (n int, ok bool) {
	d, ok := parseAmount(s)
	return int(d.IntPart()), ok
}

// parseAmount reads a non-negative amount. ok is false when a non-blank cell
// could not be read and the zero is a substitute.
func parseAmount(s string) (decimal.Decimal, bool) {
	clean := cleanNumber(s)
	if clean == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
