package pagedata

import (
	"strconv"
	"strings"
	"time"
)

var levantineMonths = [12]string{
	"كانون الثاني", "شباط", "آذار", "نيسان", "أيار", "حزيران",
	"تموز", "آب", "أيلول", "تشرين الأول", "تشرين الثاني", "كانون الأول",
}

// ArabicDate formats t as "day month year" with Levantine month names and
// Arabic-Indic digits, in loc. The zero time formats as "".
func ArabicDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return ArabicDigits(strconv.Itoa(t.Day())) + " " +
		levantineMonths[t.Month()-1] + " " +
		ArabicDigits(strconv.Itoa(t.Year()))
}

// ArabicDigits replaces ASCII digits with Arabic-Indic digits.
func ArabicDigits(value string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return '٠' + (r - '0')
		}
		return r
	}, value)
}
