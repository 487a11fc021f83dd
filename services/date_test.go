package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateValid(t *testing.T) {
	parsed, err := ParseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, 2026, parsed.Year())
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("15/03/2026")
	assert.Error(t, err)

	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestAddBusinessDaysSkipsWeekend(t *testing.T) {
	// Friday 2026-01-02
	friday := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	// 1 business day after Friday is Monday
	assert.Equal(t, time.Monday, AddBusinessDays(friday, 1).Weekday())
	assert.Equal(t, 5, AddBusinessDays(friday, 1).Day())

	// 5 business days after Friday is the next Friday
	result := AddBusinessDays(friday, 5)
	assert.Equal(t, time.Friday, result.Weekday())
	assert.Equal(t, 9, result.Day())
}

func TestAddBusinessDaysFromMidweek(t *testing.T) {
	// Wednesday 2026-01-07
	wednesday := time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC)

	// 5 business days land on the following Wednesday
	result := AddBusinessDays(wednesday, 5)
	assert.Equal(t, time.Wednesday, result.Weekday())
	assert.Equal(t, 14, result.Day())
}
