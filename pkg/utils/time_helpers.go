package utils

import "time"

const dateOnlyLayout = "2006-01-02"

func ParseDateOnly(s string) (time.Time, error) {
	return time.Parse(dateOnlyLayout, s)
}

func FormatDateOnly(t time.Time) string {
	return t.Format(dateOnlyLayout)
}

// EndOfDay возвращает последнюю наносекунду суток t.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
