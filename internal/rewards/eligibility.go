// Package rewards holds the pure rules of the donor programme: donation
// cooldown, point values and reward tiers. Nothing here touches the store.
package rewards

import "time"

// CooldownMonths is the number of calendar months a donor waits between donations.
const CooldownMonths = 3

// NextEligibleDate returns lastDonation plus the cooldown in calendar months.
// Month overflow is normalised the way time.AddDate does (Nov 30 -> Mar 2).
func NextEligibleDate(lastDonation time.Time) time.Time {
	return lastDonation.AddDate(0, CooldownMonths, 0)
}

// CanDonate reports whether a donor whose last donation was lastDonation may
// donate at now. A donor who never donated is always eligible.
func CanDonate(lastDonation *time.Time, now time.Time) bool {
	if lastDonation == nil {
		return true
	}
	return !now.Before(NextEligibleDate(*lastDonation))
}

// EligibilityCutoff is the latest last-donation timestamp that still counts as
// eligible at now. Store queries filter with
// "last_donation IS NULL OR last_donation <= cutoff".
func EligibilityCutoff(now time.Time) time.Time {
	return now.AddDate(0, -CooldownMonths, 0)
}
