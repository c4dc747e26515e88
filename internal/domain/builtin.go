package domain

// Category sets for the three built-in domains. Applications use the
// classic TIME quadrants; projects and contracts use lifecycle buckets
// with the same best-to-worst ordering convention.
const (
	// Applications (TIME)
	CategoryInvest    = "Invest"
	CategoryTolerate  = "Tolerate"
	CategoryMigrate   = "Migrate"
	CategoryEliminate = "Eliminate"

	// Capital projects
	CategoryAccelerate = "Accelerate"
	CategoryContinue   = "Continue"
	CategoryReassess   = "Reassess"
	CategoryHold       = "Hold"

	// Contracts
	CategoryRenew       = "Renew"
	CategoryMonitor     = "Monitor"
	CategoryRenegotiate = "Renegotiate"
	CategoryExit        = "Exit"
)

// Built-in domain names.
const (
	Applications = "applications"
	Projects     = "projects"
	Contracts    = "contracts"
)

// Builtin returns the registry of the three shipped domains.
func Builtin() *Registry {
	return NewRegistry(
		Domain{
			Name:  Applications,
			Title: "Application Rationalization",
			Attributes: []AttributeSpec{
				{Key: "business_value", Label: "Business Value", Direction: HigherIsBetter, Min: 0, Max: 10},
				{Key: "technical_health", Label: "Technical Health", Direction: HigherIsBetter, Min: 0, Max: 10},
				{Key: "operational_cost_ratio", Label: "Operational Cost Ratio", Direction: LowerIsBetter, Min: 0, Max: 1},
				{Key: "risk_exposure", Label: "Risk Exposure", Direction: LowerIsBetter, Min: 0, Max: 10},
				{Key: "user_adoption", Label: "User Adoption", Direction: HigherIsBetter, Min: 0, Max: 100},
			},
			Categories: []string{CategoryInvest, CategoryTolerate, CategoryMigrate, CategoryEliminate},
		},
		Domain{
			Name:  Projects,
			Title: "Capital Projects Lifecycle",
			Attributes: []AttributeSpec{
				{Key: "strategic_alignment", Label: "Strategic Alignment", Direction: HigherIsBetter, Min: 0, Max: 10},
				{Key: "npv_index", Label: "NPV Index", Direction: HigherIsBetter, Min: 0, Max: 3},
				{Key: "schedule_confidence", Label: "Schedule Confidence", Direction: HigherIsBetter, Min: 0, Max: 100},
				{Key: "execution_risk", Label: "Execution Risk", Direction: LowerIsBetter, Min: 0, Max: 10},
				{Key: "resource_availability", Label: "Resource Availability", Direction: HigherIsBetter, Min: 0, Max: 100},
			},
			Categories: []string{CategoryAccelerate, CategoryContinue, CategoryReassess, CategoryHold},
		},
		Domain{
			Name:  Contracts,
			Title: "Contract Oversight",
			Attributes: []AttributeSpec{
				{Key: "vendor_performance", Label: "Vendor Performance", Direction: HigherIsBetter, Min: 0, Max: 10},
				{Key: "cost_competitiveness", Label: "Cost Competitiveness", Direction: HigherIsBetter, Min: 0, Max: 10},
				{Key: "compliance_posture", Label: "Compliance Posture", Direction: HigherIsBetter, Min: 0, Max: 100},
				{Key: "dependency_risk", Label: "Dependency Risk", Direction: LowerIsBetter, Min: 0, Max: 10},
				{Key: "utilization", Label: "Utilization", Direction: HigherIsBetter, Min: 0, Max: 100},
			},
			Categories: []string{CategoryRenew, CategoryMonitor, CategoryRenegotiate, CategoryExit},
		},
	)
}
