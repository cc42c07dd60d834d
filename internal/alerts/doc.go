// Package alerts evaluates threshold rules against each new snapshot and
// delivers webhook notifications (Slack, Teams, plain HTTP) when a rule fires
// or resolves.
//
// Conditions are "field operator value" expressions over snapshot-derived
// numbers (credit_balance, current_usage, failed_deployments, earnings_30d,
// referrals_pending, trial_days_left, projects_count) plus "status ==" checks
// against the poller state. A per-rule cooldown suppresses repeat fires.
package alerts
