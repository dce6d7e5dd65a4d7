package dictionary

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/medscribe-ai/platform/pkg/common/logger"
	"github.com/medscribe-ai/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Entries []seedEntry `yaml:"entries"`
}

type seedEntry struct {
	Term          string   `yaml:"term"`
	Alternatives  []string `yaml:"alternatives"`
	Category      string   `yaml:"category"`
	Pronunciation string   `yaml:"pronunciation"`
}

// SeedDefaults populates a provider's dictionary with the starter term set.
// It is a no-op when the provider already has entries. A seed file path may
// override the built-in set.
func (s *Service) SeedDefaults(ctx context.Context, providerID uuid.UUID, seedPath string) error {
	count, err := s.repo.CountByProvider(ctx, providerID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	entries := builtinTerms()
	if seedPath != "" {
		loaded, err := loadSeedFile(seedPath)
		if err != nil {
			logger.Log.WithError(err).WithField("path", seedPath).
				Warn("failed to load dictionary seed file, using built-in terms")
		} else if len(loaded) > 0 {
			entries = loaded
		}
	}

	for _, entry := range entries {
		if _, err := s.repo.Add(ctx, providerID, entry); err != nil {
			return err
		}
	}
	s.cache.Invalidate(ctx, providerID)
	logger.Log.WithFields(map[string]interface{}{
		"provider_id": providerID,
		"entries":     len(entries),
	}).Info("Seeded provider dictionary")
	return nil
}

func loadSeedFile(path string) ([]models.AddDictionaryEntryRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}
	entries := make([]models.AddDictionaryEntryRequest, 0, len(file.Entries))
	for _, e := range file.Entries {
		if e.Term == "" {
			continue
		}
		entries = append(entries, models.AddDictionaryEntryRequest{
			Term:          e.Term,
			Alternatives:  e.Alternatives,
			Category:      e.Category,
			Pronunciation: e.Pronunciation,
		})
	}
	return entries, nil
}

func builtinTerms() []models.AddDictionaryEntryRequest {
	return []models.AddDictionaryEntryRequest{
		{Term: "acetaminophen", Alternatives: []string{"aseta minifin", "a seta minifin", "tylenol"}, Category: "medication"},
		{Term: "amoxicillin", Alternatives: []string{"amox a cillin", "a moxicillin"}, Category: "medication"},
		{Term: "metformin", Alternatives: []string{"met formin", "metforman"}, Category: "medication"},
		{Term: "lisinopril", Alternatives: []string{"liz in o pril", "lisinipril"}, Category: "medication"},
		{Term: "atorvastatin", Alternatives: []string{"a tor va statin", "lipitor"}, Category: "medication"},
		{Term: "omeprazole", Alternatives: []string{"oh mep ra zole", "prilosec"}, Category: "medication"},
		{Term: "hypertension", Alternatives: []string{"hyper tension", "high blood pressure"}, Category: "diagnosis"},
		{Term: "diabetes mellitus", Alternatives: []string{"diabetes malitis", "diabetes melitis"}, Category: "diagnosis"},
		{Term: "hyperlipidemia", Alternatives: []string{"hyper lipid emia", "high cholesterol"}, Category: "diagnosis"},
		{Term: "gastroesophageal reflux", Alternatives: []string{"gastro esophageal", "GERD", "acid reflux"}, Category: "diagnosis"},
		{Term: "cholecystectomy", Alternatives: []string{"cole a cis tectomy", "gallbladder removal"}, Category: "procedure"},
		{Term: "colonoscopy", Alternatives: []string{"colon oscopy", "cole on oscopy"}, Category: "procedure"},
		{Term: "echocardiogram", Alternatives: []string{"echo cardio gram", "echo"}, Category: "procedure"},
		{Term: "bilateral", Alternatives: []string{"by lateral", "bi lateral"}, Category: "anatomy"},
		{Term: "epigastric", Alternatives: []string{"epi gastric", "epa gastric"}, Category: "anatomy"},
		{Term: "subcutaneous", Alternatives: []string{"sub q taneous", "sub cute aneous"}, Category: "anatomy"},
	}
}
