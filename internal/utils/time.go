package utils

import "time"

// DateLayout is the calendar day key format, YYYY-MM-DD
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar day key in t's location
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses and normalises a calendar day key
func ParseDateKey(key string) (string, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return "", err
	}
	return DateKey(t), nil
}
