package services

import (
	"fmt"
	"strings"
	"time"
)

var ErrExportRangeInvalid = fmt.Errorf("%w: export range ends before it starts", ErrInvalidDate)

// ExportRange bounds exported transactions by date, both ends inclusive. A
// blank bound leaves that side open.
type ExportRange struct {
	From string
	To   string
}

func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	exportRange := ExportRange{}
	for _, bound := range []struct {
		name   string
		raw    string
		target *string
	}{
		{"from", rawFrom, &exportRange.From},
		{"to", rawTo, &exportRange.To},
	} {
		value := strings.TrimSpace(bound.raw)
		if value == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, value)
		if err != nil {
			return ExportRange{}, fmt.Errorf("%w: %s %q", ErrInvalidDate, bound.name, bound.raw)
		}
		*bound.target = parsed.Format(dateLayout)
	}

	if exportRange.From != "" && exportRange.To != "" && exportRange.To < exportRange.From {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return exportRange, nil
}

func (exportRange ExportRange) Contains(date string) bool {
	if exportRange.From != "" && date < exportRange.From {
		return false
	}
	if exportRange.To != "" && date > exportRange.To {
		return false
	}
	return true
}
