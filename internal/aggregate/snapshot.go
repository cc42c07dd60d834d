package aggregate

import (
	"time"

	"github.com/railmon/railmon/internal/railway"
)

// Earnings is the derived totals block, recomputed from scratch every cycle
// from the branches that were actually fetched in the same cycle.
type Earnings struct {
	Templates30d      float64 `json:"templates_30d"`
	TemplatesTotal    float64 `json:"templates_total"`
	TemplatesPayout   float64 `json:"templates_payout"`
	ReferralsCredited int     `json:"referrals_credited"`
	ReferralsPending  int     `json:"referrals_pending"`
}

// Snapshot is the fully merged result of one poll cycle. It is built once,
// then handed out by reference and never mutated; consumers see either the
// previous cycle's snapshot or this one, never a partial mix.
type Snapshot struct {
	User       railway.User        `json:"me"`
	Workspaces []railway.Workspace `json:"workspaces"`
	Projects   []railway.Project   `json:"projects"`

	// Deployments is keyed by project ID. A project whose deployments
	// query failed has no key here at all.
	Deployments map[string][]railway.Deployment `json:"deployments"`

	// Referrals is keyed by workspace ID; failed fetches are omitted.
	Referrals map[string]railway.ReferralInfo `json:"referrals"`

	// Templates is the flat list across all workspaces, each tagged with
	// its owning workspace ID.
	Templates []railway.Template `json:"templates"`

	// TemplateMetrics is keyed by template ID; failed fetches are omitted.
	TemplateMetrics map[string]railway.TemplateMetrics `json:"template_metrics"`

	Earnings  Earnings  `json:"earnings"`
	FetchedAt time.Time `json:"fetched_at"`
}

// newSnapshot returns a Snapshot with all maps allocated and all branches at
// their empty defaults.
func newSnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Workspaces:      []railway.Workspace{},
		Projects:        []railway.Project{},
		Deployments:     make(map[string][]railway.Deployment),
		Referrals:       make(map[string]railway.ReferralInfo),
		Templates:       []railway.Template{},
		TemplateMetrics: make(map[string]railway.TemplateMetrics),
		FetchedAt:       now,
	}
}

// FailedDeploymentCount returns how many deployments across all fetched
// projects are in a failed or crashed state.
func (s *Snapshot) FailedDeploymentCount() int {
	var n int
	for _, deps := range s.Deployments {
		for _, d := range deps {
			switch d.Status {
			case "FAILED", "CRASHED":
				n++
			}
		}
	}
	return n
}

// TotalCreditBalance sums the credit balance of every workspace that carries
// a billing block.
func (s *Snapshot) TotalCreditBalance() float64 {
	var total float64
	for _, ws := range s.Workspaces {
		if ws.Customer != nil {
			total += ws.Customer.CreditBalance
		}
	}
	return total
}

// TotalCurrentUsage sums the current usage of every workspace that carries a
// billing block.
func (s *Snapshot) TotalCurrentUsage() float64 {
	var total float64
	for _, ws := range s.Workspaces {
		if ws.Customer != nil {
			total += ws.Customer.CurrentUsage
		}
	}
	return total
}
