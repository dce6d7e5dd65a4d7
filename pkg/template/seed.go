package template

import (
	"context"

	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
)

// SeedDefaults installs the system note templates on first boot. Idempotent:
// skipped when any system template already exists.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.store.CountSystemTemplates(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, req := range defaultTemplates() {
		if _, err := s.store.Create(ctx, nil, req); err != nil {
			return err
		}
	}
	logger.Log.WithField("count", len(defaultTemplates())).Info("Seeded default templates")
	return nil
}

func defaultTemplates() []models.CreateTemplateRequest {
	return []models.CreateTemplateRequest{
		{
			Name:        "SOAP Note",
			Description: "Standard Subjective, Objective, Assessment, Plan format",
			Category:    "soap",
			IsDefault:   true,
			Sections: []models.TemplateSection{
				{ID: "subjective", Title: "Subjective", Description: "Patient's reported symptoms, history, and concerns", Placeholder: "Chief complaint, HPI, ROS, PMH, medications, allergies, social/family history", Required: true, Order: 0},
				{ID: "objective", Title: "Objective", Description: "Clinical findings, vitals, exam, and test results", Placeholder: "Vital signs, physical exam findings, lab results, imaging", Required: true, Order: 1},
				{ID: "assessment", Title: "Assessment", Description: "Diagnosis and clinical reasoning", Placeholder: "Primary and differential diagnoses with clinical reasoning", Required: true, Order: 2},
				{ID: "plan", Title: "Plan", Description: "Treatment plan, follow-up, and patient education", Placeholder: "Medications, procedures, referrals, follow-up, patient instructions", Required: true, Order: 3},
			},
		},
		{
			Name:        "History & Physical",
			Description: "Comprehensive history and physical examination",
			Category:    "hp",
			IsDefault:   true,
			Sections: []models.TemplateSection{
				{ID: "cc", Title: "Chief Complaint", Description: "Primary reason for the visit", Placeholder: "Patient's main complaint in their own words", Required: true, Order: 0},
				{ID: "hpi", Title: "History of Present Illness", Description: "Detailed history of the current condition", Placeholder: "Onset, location, duration, character, aggravating/relieving factors, timing, severity", Required: true, Order: 1},
				{ID: "pmh", Title: "Past Medical History", Description: "Previous medical conditions and surgeries", Placeholder: "Past diagnoses, hospitalizations, surgeries", Required: true, Order: 2},
				{ID: "medications", Title: "Medications", Description: "Current medications and dosages", Placeholder: "Medication name, dose, frequency, route", Required: true, Order: 3},
				{ID: "allergies", Title: "Allergies", Description: "Known allergies and reactions", Placeholder: "Drug allergies, food allergies, environmental allergies with reactions", Required: true, Order: 4},
				{ID: "social", Title: "Social History", Description: "Social factors affecting health", Placeholder: "Tobacco, alcohol, drug use, occupation, living situation", Required: false, Order: 5},
				{ID: "family", Title: "Family History", Description: "Relevant family medical history", Placeholder: "Family history of relevant conditions", Required: false, Order: 6},
				{ID: "ros", Title: "Review of Systems", Description: "Systematic review by organ system", Placeholder: "Constitutional, HEENT, cardiovascular, respiratory, GI, GU, MSK, neuro, psych, skin", Required: true, Order: 7},
				{ID: "pe", Title: "Physical Examination", Description: "Findings from physical examination", Placeholder: "Vital signs, general appearance, exam by system", Required: true, Order: 8},
				{ID: "assessment_plan", Title: "Assessment & Plan", Description: "Diagnosis and treatment plan", Placeholder: "Diagnoses with treatment plans for each", Required: true, Order: 9},
			},
		},
		{
			Name:        "Progress Note",
			Description: "Follow-up visit documentation",
			Category:    "progress",
			IsDefault:   true,
			Sections: []models.TemplateSection{
				{ID: "interval_history", Title: "Interval History", Description: "Changes since last visit", Placeholder: "Symptoms since last visit, response to treatment, new concerns", Required: true, Order: 0},
				{ID: "current_medications", Title: "Current Medications", Description: "Active medication list", Placeholder: "Current medications with any changes", Required: true, Order: 1},
				{ID: "examination", Title: "Examination", Description: "Focused physical exam", Placeholder: "Relevant physical exam findings", Required: true, Order: 2},
				{ID: "results", Title: "Results Review", Description: "Lab and imaging results", Placeholder: "Recent lab results, imaging, and other test results", Required: false, Order: 3},
				{ID: "assessment", Title: "Assessment", Description: "Current status of conditions", Placeholder: "Status of each problem being addressed", Required: true, Order: 4},
				{ID: "plan", Title: "Plan", Description: "Updated treatment plan", Placeholder: "Medication changes, new orders, referrals, follow-up timeline", Required: true, Order: 5},
			},
		},
		{
			Name:        "Procedure Note",
			Description: "Documentation for procedures performed",
			Category:    "procedure",
			IsDefault:   true,
			Sections: []models.TemplateSection{
				{ID: "indication", Title: "Indication", Description: "Reason for the procedure", Placeholder: "Clinical indication and justification", Required: true, Order: 0},
				{ID: "consent", Title: "Consent", Description: "Consent documentation", Placeholder: "Informed consent obtained, risks discussed", Required: true, Order: 1},
				{ID: "procedure_details", Title: "Procedure Details", Description: "Step-by-step procedure description", Placeholder: "Technique, findings, specimens obtained", Required: true, Order: 2},
				{ID: "complications", Title: "Complications", Description: "Any complications encountered", Placeholder: "None, or description of complications", Required: true, Order: 3},
				{ID: "post_procedure", Title: "Post-Procedure Plan", Description: "Post-procedure care and follow-up", Placeholder: "Recovery instructions, medications, follow-up plan", Required: true, Order: 4},
			},
		},
	}
}
