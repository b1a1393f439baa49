package services

import (
	"strings"
	"time"

	"bizledger/internal/common"
)

// trimOptional trims a nullable text field; blank values become nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// clearableText trims a patch value. Nil means "leave unchanged"; a blank
// value is kept as "" so the store clears the column.
func clearableText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// parseOptionalDate parses a YYYY-MM-DD field that may be left empty.
func parseOptionalDate(value, field string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := common.ParseDate(strings.TrimSpace(value), field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// pageWindow normalizes page/limit and returns the matching offset.
func pageWindow(page, limit int) (int, int, int, error) {
	page, limit, err := common.ValidatePaginationParams(page, limit)
	if err != nil {
		return 0, 0, 0, err
	}
	return page, limit, (page - 1) * limit, nil
}

func today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
