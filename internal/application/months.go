package application

import "fmt"

var monthNames = map[string][12]string{
	"id": {"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember"},
	"en": {"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
}

// MonthLabel renders "Oktober 2026" for locale "id"; unknown locales fall back to "id".
func MonthLabel(locale string, year, month int) string {
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames["id"]
	}
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d-%02d", year, month)
	}
	return fmt.Sprintf("%s %d", names[month-1], year)
}
