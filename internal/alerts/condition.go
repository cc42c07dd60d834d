package alerts

import (
	"strconv"
	"strings"

	"github.com/railmon/railmon/internal/aggregate"
)

// evalCondition evaluates a rule condition string against one snapshot and
// the current poller status.
//
// Supported expressions (field operator value):
//
//	credit_balance < 5
//	current_usage > 100
//	projects_count == 0
//	failed_deployments > 0
//	earnings_30d < 10
//	earnings_total < 100
//	referrals_pending > 5
//	trial_days_left < 3
//	status == auth_failed
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, snap *aggregate.Snapshot, status string) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "status" {
		if op == "==" {
			return status == rhs, 0
		}
		return false, 0
	}

	if snap == nil {
		return false, 0
	}

	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	v, ok := numericField(field, snap)
	if !ok {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the snapshot. The second
// return is false for unknown fields and for trial_days_left when no
// workspace is trialing.
func numericField(field string, snap *aggregate.Snapshot) (float64, bool) {
	switch field {
	case "credit_balance":
		return snap.TotalCreditBalance(), true
	case "current_usage":
		return snap.TotalCurrentUsage(), true
	case "projects_count":
		return float64(len(snap.Projects)), true
	case "failed_deployments":
		return float64(snap.FailedDeploymentCount()), true
	case "earnings_30d":
		return snap.Earnings.Templates30d, true
	case "earnings_total":
		return snap.Earnings.TemplatesTotal, true
	case "referrals_pending":
		return float64(snap.Earnings.ReferralsPending), true
	case "trial_days_left":
		return minTrialDays(snap)
	default:
		return 0, false
	}
}

// minTrialDays returns the smallest trial-days-remaining value among
// workspaces that are currently trialing.
func minTrialDays(snap *aggregate.Snapshot) (float64, bool) {
	found := false
	min := 0
	for _, ws := range snap.Workspaces {
		if ws.Customer == nil || !ws.Customer.IsTrialing {
			continue
		}
		if !found || ws.Customer.TrialDaysRemaining < min {
			min = ws.Customer.TrialDaysRemaining
			found = true
		}
	}
	return float64(min), found
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
