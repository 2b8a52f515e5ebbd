package template

import "github.com/example/caseflow/internal/core/workflow"

const (
	req  = workflow.RequirementRequired
	opt  = workflow.RequirementOptional
	cond = workflow.RequirementConditional
)

// CaseTypeEnforcement is the default case type and fallback template.
const CaseTypeEnforcement = "enforcement"

// CaseTypePetition covers case types that pass through an external
// submission/approval loop and therefore use the review status table.
const CaseTypePetition = "petition"

// Builtin returns the registry of compiled-in templates. Deployments can
// overlay additional case types from a YAML file; the built-in set is the
// baseline every install carries.
func Builtin() *Registry {
	r, err := NewRegistry(enforcementTemplate(), petitionTemplate())
	if err != nil {
		// Built-in templates are validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return r
}

func enforcementTemplate() Template {
	return Template{
		CaseType:    CaseTypeEnforcement,
		StatusTable: "default",
		Phases: []PhaseSpec{
			{Number: 1, Name: "intake_review", Gates: []GateSpec{
				{Key: "identity_verified", Label: "Client identity verified", Requirement: req},
				{Key: "case_type_confirmed", Label: "Case type confirmed", Requirement: req},
				{Key: "conflict_check", Label: "Conflict of interest check", Requirement: req},
			}},
			{Number: 2, Name: "document_collection", Gates: []GateSpec{
				{Key: "documents_uploaded", Label: "Core documents uploaded", Requirement: req},
				{Key: "power_of_attorney", Label: "Power of attorney on file", Requirement: req},
				{Key: "supporting_evidence", Label: "Supporting evidence collected", Requirement: opt},
			}},
			{Number: 3, Name: "ai_analysis", Gates: []GateSpec{
				{Key: "risk_analysis_generated", Label: "Risk analysis generated", Requirement: req},
				{Key: "ai_summary_generated", Label: "Case summary generated", Requirement: req},
				{Key: "precedent_search", Label: "Precedent search completed", Requirement: cond},
			}},
			{Number: 4, Name: "risk_assessment", Gates: []GateSpec{
				{Key: "risk_score_assigned", Label: "Risk score assigned", Requirement: req},
				{Key: "exposure_quantified", Label: "Financial exposure quantified", Requirement: opt},
			}},
			{Number: 5, Name: "expert_review", Gates: []GateSpec{
				{Key: "risk_analysis_reviewed", Label: "Risk analysis reviewed by expert", Requirement: req},
				{Key: "expert_summary_approved", Label: "Expert summary approved", Requirement: req},
				{Key: "client_consulted", Label: "Client consulted on findings", Requirement: cond},
			}},
			{Number: 6, Name: "petition_preparation", Gates: []GateSpec{
				{Key: "petition_draft_finalized", Label: "Petition draft finalized", Requirement: req},
				{Key: "exhibits_attached", Label: "Exhibits attached", Requirement: req},
				{Key: "translations_certified", Label: "Translations certified", Requirement: cond},
			}},
			{Number: 7, Name: "filing_closure", Gates: []GateSpec{
				{Key: "filing_submitted", Label: "Filing submitted", Requirement: req},
				{Key: "fees_settled", Label: "Fees settled", Requirement: req},
				{Key: "client_notified", Label: "Client notified of outcome", Requirement: opt},
			}},
		},
	}
}

func petitionTemplate() Template {
	t := enforcementTemplate()
	t.CaseType = CaseTypePetition
	t.StatusTable = "review"
	return t
}
