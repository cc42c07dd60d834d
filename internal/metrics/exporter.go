package metrics

import (
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/railmon/railmon/internal/aggregate"
)

// Source is the poller state the exporter reads.
type Source interface {
	Snapshot() *aggregate.Snapshot
	LastUpdateSucceeded() bool
}

// Exporter serves snapshot-derived gauges in Prometheus text exposition
// format on /metrics.
type Exporter struct {
	src Source
}

// New creates an Exporter reading from src.
func New(src Source) *Exporter {
	return &Exporter{src: src}
}

func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range e.families() {
		if err := enc.Encode(mf); err != nil {
			return
		}
	}
}

// families builds the metric families for the current poller state.
// Before the first successful cycle only the success gauge is exposed.
func (e *Exporter) families() []*dto.MetricFamily {
	success := 0.0
	if e.src.LastUpdateSucceeded() {
		success = 1.0
	}
	out := []*dto.MetricFamily{
		gauge("railmon_last_update_success",
			"Whether the most recent poll cycle succeeded.", success),
	}

	snap := e.src.Snapshot()
	if snap == nil {
		return out
	}

	out = append(out,
		gauge("railmon_projects",
			"Number of projects in the current snapshot.", float64(len(snap.Projects))),
		gauge("railmon_workspaces",
			"Number of workspaces in the current snapshot.", float64(len(snap.Workspaces))),
		gauge("railmon_templates",
			"Number of published templates in the current snapshot.", float64(len(snap.Templates))),
		gauge("railmon_deployments_failed",
			"Deployments in a failed or crashed state.", float64(snap.FailedDeploymentCount())),
		gauge("railmon_credit_balance_dollars",
			"Credit balance summed across all workspaces.", snap.TotalCreditBalance()),
		gauge("railmon_current_usage_dollars",
			"Current billing-period usage summed across all workspaces.", snap.TotalCurrentUsage()),
		gauge("railmon_earnings_templates_30d_dollars",
			"Template earnings over the last 30 days.", snap.Earnings.Templates30d),
		gauge("railmon_earnings_templates_total_dollars",
			"Lifetime template earnings.", snap.Earnings.TemplatesTotal),
		gauge("railmon_earnings_templates_payout_dollars",
			"Total template payout.", snap.Earnings.TemplatesPayout),
		gauge("railmon_referrals_credited",
			"Credited referrals across all workspaces.", float64(snap.Earnings.ReferralsCredited)),
		gauge("railmon_referrals_pending",
			"Pending referrals across all workspaces.", float64(snap.Earnings.ReferralsPending)),
	)

	if mf := workspaceUsage(snap); mf != nil {
		out = append(out, mf)
	}
	return out
}

// workspaceUsage builds the per-workspace usage gauge, labelled by workspace
// name. Workspaces without a billing block are skipped.
func workspaceUsage(snap *aggregate.Snapshot) *dto.MetricFamily {
	var metrics []*dto.Metric
	for _, ws := range snap.Workspaces {
		if ws.Customer == nil {
			continue
		}
		metrics = append(metrics, &dto.Metric{
			Label: []*dto.LabelPair{{
				Name:  ptr("workspace"),
				Value: ptr(ws.Name),
			}},
			Gauge: &dto.Gauge{Value: ptr64(ws.Customer.CurrentUsage)},
		})
	}
	if len(metrics) == 0 {
		return nil
	}
	return &dto.MetricFamily{
		Name:   ptr("railmon_workspace_usage_dollars"),
		Help:   ptr("Current billing-period usage per workspace."),
		Type:   dto.MetricType_GAUGE.Enum(),
		Metric: metrics,
	}
}

// gauge builds a single-sample unlabelled gauge family.
func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: ptr64(value)}},
		},
	}
}

func ptr(s string) *string     { return &s }
func ptr64(f float64) *float64 { return &f }
