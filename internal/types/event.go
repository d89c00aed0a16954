package types

import "time"

// Event names published when a wizard completes
const (
	EventTenantPlanAssigned = "tenant.plan.assigned"
	EventTenantPlanExtended = "tenant.plan.extended"
)

// PlanWizardEvent is published once the plan-assignment API accepted a wizard submission
// so that tenant and invoice views can refresh
type PlanWizardEvent struct {
	ID        string     `json:"id"`
	EventName string     `json:"event_name"`
	TenantID  string     `json:"tenant_id"`
	PlanID    string     `json:"plan_id"`
	Mode      WizardMode `json:"mode"`
	ActorID   string     `json:"actor_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Data      any        `json:"data,omitempty"`
}
