package rewards

import "fmt"

const (
	RequestFulfilledPoints int64 = 50
	ReferralPoints         int64 = 100
	DonationSubmitPoints   int64 = 10

	// UnitML is the volume of one whole-blood unit.
	UnitML = 450
	// MaxUnits bounds a single donation or request.
	MaxUnits = 10
)

func RequestRef(id uint64) string  { return fmt.Sprintf("request:%d", id) }
func ReferralRef(id uint64) string { return fmt.Sprintf("referral:%d", id) }
func DonationRef(id uint64) string { return fmt.Sprintf("donation:%d", id) }
func RedeemRef(token string) string {
	return "redeem:" + token
}
