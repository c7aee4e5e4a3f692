package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// excelEpoch: серийный номер N в Excel это excelEpoch + N дней.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// maxExcelSerial соответствует 9999-12-31.
const maxExcelSerial = 2958465

// Порядок важен: побеждает первый подошедший формат.
var dateLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2",
	"1/2/2006",
	"2-1-2006",
	"2/1/2006",
}

var blankMarkers = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
}

func cellString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// IsBlank reports whether a cell carries no value.
func IsBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case *string:
		return v == nil || IsBlank(*v)
	}

	s := cellString(raw)
	if s == "" {
		return true
	}
	_, ok := blankMarkers[strings.ToLower(s)]
	return ok
}

// ParseString возвращает обрезанную строку или nil для пустой ячейки.
func ParseString(raw any) *string {
	if IsBlank(raw) {
		return nil
	}
	s := cellString(raw)
	return &s
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ParseMoney never fails: anything it cannot read becomes nil.
func ParseMoney(raw any) *float64 {
	switch v := raw.(type) {
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	if IsBlank(raw) {
		return nil
	}

	s := strings.ReplaceAll(cellString(raw), ",", "")
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSpace(s[1 : len(s)-1])
		negative = true
	}

	d, err := decimal.NewFromString(s)
	if err != nil && strings.Count(s, ".") > 1 {
		// "12.88.800" -> "12.88800"
		d, err = decimal.NewFromString(joinExtraDots(s))
	}
	if err != nil {
		// "Rs. 1,000": точка префикса валюты не десятичная
		if i := strings.IndexFunc(s, unicode.IsDigit); i > 0 && strings.IndexFunc(s[:i], unicode.IsLetter) >= 0 {
			s = s[i:]
		}
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) || r == '.' {
				return r
			}
			return -1
		}, s)
		if strings.Count(cleaned, ".") > 1 {
			cleaned = joinExtraDots(cleaned)
		}
		d, err = decimal.NewFromString(cleaned)
	}
	if err != nil {
		return nil
	}

	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return finite(f)
}

func joinExtraDots(s string) string {
	head, tail, _ := strings.Cut(s, ".")
	return head + "." + strings.ReplaceAll(tail, ".", "")
}

var (
	minInt = decimal.NewFromInt(math.MinInt32)
	maxInt = decimal.NewFromInt(math.MaxInt32)
)

// ParseInt отбрасывает дробную часть: "1,234.0" -> 1234. Значения вне
// диапазона integer дают nil.
func ParseInt(raw any) *int64 {
	switch v := raw.(type) {
	case int:
		return intInRange(decimal.NewFromInt(int64(v)))
	case int64:
		return intInRange(decimal.NewFromInt(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return intInRange(decimal.NewFromFloat(v))
	}
	if IsBlank(raw) {
		return nil
	}

	s := strings.ReplaceAll(cellString(raw), ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return intInRange(d)
}

func intInRange(d decimal.Decimal) *int64 {
	d = d.Truncate(0)
	if d.LessThan(minInt) || d.GreaterThan(maxInt) {
		return nil
	}
	i := d.IntPart()
	return &i
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func fromSerial(serial float64) *time.Time {
	if math.IsNaN(serial) || serial < 0 || serial > maxExcelSerial {
		return nil
	}
	d := excelEpoch.AddDate(0, 0, int(serial))
	return &d
}

// isSerialString: цифры и не больше одной точки.
func isSerialString(s string) bool {
	digits := strings.Replace(s, ".", "", 1)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseDate accepts time values, Excel serials (numbers or numeric strings)
// and the string layouts in dateLayouts. The time of day is dropped.
func ParseDate(raw any) *time.Time {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return dateOnly(v)
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		return dateOnly(*v)
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	}
	if IsBlank(raw) {
		return nil
	}

	s := cellString(raw)
	if isSerialString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return fromSerial(f)
		}
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t)
		}
	}
	return nil
}

// FYLabel returns "FY<year>" for the fiscal year ending on date.
func FYLabel(date *time.Time) string {
	if date == nil {
		return ""
	}
	return fmt.Sprintf("FY%d", date.Year())
}

func trimIntegralSuffix(s string) string {
	head, tail, found := strings.Cut(s, ".")
	if !found || head == "" || strings.Trim(tail, "0") != "" {
		return s
	}
	for _, r := range head {
		if r < '0' || r > '9' {
			return s
		}
	}
	return head
}

// normalizeCompanyID: "523,395" -> "523395", "500001.0" -> "500001".
func normalizeCompanyID(raw any) string {
	if IsBlank(raw) {
		return ""
	}
	s := strings.ReplaceAll(cellString(raw), ",", "")
	return trimIntegralSuffix(strings.TrimSpace(s))
}

// normalizeDirectorID сохраняет ведущие нули. Пустая строка означает, что
// идентификатора нет или он нечитаем.
func normalizeDirectorID(raw any) string {
	if IsBlank(raw) {
		return ""
	}
	s := trimIntegralSuffix(cellString(raw))

	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
		default:
			return ""
		}
	}
	if !hasDigit {
		return ""
	}
	return s
}
