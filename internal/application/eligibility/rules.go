package eligibility

import (
	"fmt"
	"time"

	"github.com/donor-intake-api/internal/domain"
)

// calendarDay truncates t to its civil date in loc, expressed in UTC so that
// day arithmetic is unaffected by DST transitions.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween is the exact calendar-day difference to - from.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// decide derives the eligibility envelope from the donor's latest interval.
// A nil interval falls back to policy. The donor is ineligible while today is
// strictly before end_date and eligible from end_date on.
func decide(iv *domain.EligibilityInterval, now time.Time, loc *time.Location, policy domain.Policy) domain.EligibilityStatus {
	if iv == nil {
		if policy.EligibleWithoutInterval {
			return domain.EligibilityStatus{
				IsEligible:    true,
				StatusMessage: "No deferral interval on record; eligible to donate",
			}
		}
		return domain.EligibilityStatus{
			StatusMessage: "No eligibility record on file; donor must be reviewed before donating",
		}
	}

	today := calendarDay(now, loc)
	end := calendarDay(iv.EndDate, loc)
	endStr := end.Format(domain.DateLayout)

	if today.Before(end) {
		days := daysBetween(today, end)
		return domain.EligibilityStatus{
			StatusMessage: fmt.Sprintf("Not eligible to donate: %d %s remaining until %s", days, plural(days), endStr),
			RemainingDays: days,
			EndDate:       &endStr,
		}
	}
	return domain.EligibilityStatus{
		IsEligible:    true,
		StatusMessage: "Eligible to donate; waiting period ended " + endStr,
		EndDate:       &endStr,
	}
}

func plural(days int) string {
	if days == 1 {
		return "day"
	}
	return "days"
}
