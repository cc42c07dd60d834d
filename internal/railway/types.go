package railway

// User is the account identity returned by the me queries.
type User struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Avatar             string `json:"avatar,omitempty"`
	IsVerified         bool   `json:"isVerified,omitempty"`
	RegistrationStatus string `json:"registrationStatus,omitempty"`
}

// Customer is the billing block attached to a workspace.
type Customer struct {
	ID                          string  `json:"id"`
	CreditBalance               float64 `json:"creditBalance"`
	CurrentUsage                float64 `json:"currentUsage"`
	AppliedCredits              float64 `json:"appliedCredits"`
	RemainingUsageCreditBalance float64 `json:"remainingUsageCreditBalance"`
	BillingEmail                string  `json:"billingEmail"`
	State                       string  `json:"state"`
	IsTrialing                  bool    `json:"isTrialing"`
	IsPrepaying                 bool    `json:"isPrepaying"`
	TrialDaysRemaining          int     `json:"trialDaysRemaining"`
}

// Workspace groups projects under one billing customer.
type Workspace struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Customer *Customer `json:"customer,omitempty"`
}

// NamedRef is a bare id/name pair used for environments and services
// embedded in a project listing.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is one Railway project with its environments and services.
type Project struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    string     `json:"createdAt,omitempty"`
	UpdatedAt    string     `json:"updatedAt,omitempty"`
	Environments []NamedRef `json:"environments,omitempty"`
	Services     []NamedRef `json:"services,omitempty"`
}

// Deployment is the latest deployment of one service, tagged with the
// owning service so a flat per-project list stays self-describing.
type Deployment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt,omitempty"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
}

// ReferralStats holds the credited/pending referral counters.
type ReferralStats struct {
	Credited int `json:"credited"`
	Pending  int `json:"pending"`
}

// ReferralInfo is the referral program state of one workspace.
type ReferralInfo struct {
	ID     string        `json:"id"`
	Code   string        `json:"code"`
	Status string        `json:"status"`
	Stats  ReferralStats `json:"referralStats"`
}

// Template is a published workspace template.
type Template struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	TotalPayout float64 `json:"totalPayout"`

	// WorkspaceID is filled in by the aggregator, not by the API.
	WorkspaceID string `json:"workspace_id,omitempty"`
}

// TemplateMetrics is the earnings and deployment breakdown of one template.
type TemplateMetrics struct {
	ActiveDeployments       int     `json:"activeDeployments"`
	DeploymentsLast90Days   int     `json:"deploymentsLast90Days"`
	TotalDeployments        int     `json:"totalDeployments"`
	EarningsLast30Days      float64 `json:"earningsLast30Days"`
	EarningsLast90Days      float64 `json:"earningsLast90Days"`
	TotalEarnings           float64 `json:"totalEarnings"`
	EligibleForSupportBonus bool    `json:"eligibleForSupportBonus"`
	SupportHealth           float64 `json:"supportHealth"`
	TemplateHealth          float64 `json:"templateHealth"`
}
