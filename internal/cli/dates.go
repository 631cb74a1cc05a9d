package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/daybook/internal/calendar"
	"github.com/alexanderramin/daybook/internal/domain"
	dateparser "github.com/markusmobius/go-dateparser"
	"github.com/spf13/pflag"
)

var errInvalidDate = errors.New("unrecognized date")

// parseDate resolves YYYY-MM-DD keys directly and anything else
// ("yesterday", "3 days ago", "March 2") relative to now. Blank means today.
func parseDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return calendar.DateKey(now), nil
	}
	if calendar.ValidDateKey(input) {
		return input, nil
	}

	dt, err := dateparser.Parse(&dateparser.Configuration{CurrentTime: now}, input)
	if err != nil || dt.Time.IsZero() {
		return "", fmt.Errorf("%w: %q", errInvalidDate, input)
	}
	return calendar.DateKey(dt.Time.In(now.Location())), nil
}

// scopeFlag is the --scope value for trends.
type scopeFlag struct {
	scope domain.TrendScope
}

var _ pflag.Value = (*scopeFlag)(nil)

func (f *scopeFlag) String() string {
	if f.scope == "" {
		return string(domain.ScopeAll)
	}
	return string(f.scope)
}

func (f *scopeFlag) Set(s string) error {
	scope, err := domain.ParseTrendScope(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	f.scope = scope
	return nil
}

func (f *scopeFlag) Type() string {
	return "scope"
}
