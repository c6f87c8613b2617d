package intercept

import "github.com/haukened/focusgate/internal/guard/domain"

// route translates an enforcing decision plus the domain's tracker state
// into the redirect the enforcement page needs. Its only side effect beyond
// the caller's event append is opening a delay window for a domain that has
// none; it never calls the authority.
func (s *Service) route(target domain.Target, d domain.Decision) domain.RedirectSpec {
	switch d.Action {
	case domain.ActionDelay:
		w, _ := s.tracker.Start(target.Domain, d.DelaySeconds)
		return domain.RedirectSpec{
			Page:    domain.PageDelayed,
			Target:  target.Raw,
			Message: d.ReminderMessage,
			Seconds: w.RemainingSeconds(s.clock.Now()),
		}
	case domain.ActionConditional:
		return domain.RedirectSpec{
			Page:    domain.PageConditional,
			Target:  target.Raw,
			Message: d.ReminderMessage,
			Minutes: minutesCeil(d.RemainingFocusSeconds),
		}
	default:
		return domain.RedirectSpec{
			Page:    domain.PageBlocked,
			Target:  target.Raw,
			Message: d.ReminderMessage,
		}
	}
}

// minutesCeil converts seconds to whole minutes, rounding up so "125
// seconds left" reads as 3 minutes, never 2.
func minutesCeil(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return (seconds + 59) / 60
}
