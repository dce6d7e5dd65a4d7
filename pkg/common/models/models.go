package models

import (
	"time"

	"github.com/google/uuid"
)

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // encounter.created, encounter.status_changed, encounter.deleted, note.generated
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Providers
type Provider struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Specialty   string    `json:"specialty,omitempty"`
	Credentials string    `json:"credentials,omitempty"` // e.g. "MD", "DO", "NP"
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GetOrCreateProviderRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Specialty   string `json:"specialty,omitempty"`
	Credentials string `json:"credentials,omitempty"`
}

// ProviderPatch enumerates every updatable provider field; nil means
// "leave untouched".
type ProviderPatch struct {
	Name        *string `json:"name,omitempty"`
	Specialty   *string `json:"specialty,omitempty"`
	Credentials *string `json:"credentials,omitempty"`
}

// Templates
type TemplateSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"` // guidance text fed to the model
	Required    bool   `json:"required"`
	Order       int    `json:"order"`
	Group       string `json:"group,omitempty"`  // e.g. "Subjective", "Orders"
	Format      string `json:"format,omitempty"` // e.g. "paragraph", "bullet"
}

type Template struct {
	ID          uuid.UUID         `json:"id"`
	ProviderID  *uuid.UUID        `json:"provider_id,omitempty"` // nil = system template
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"` // soap, hp, progress, procedure, custom, doxgpt
	Sections    []TemplateSection `json:"sections"`
	IsDefault   bool              `json:"is_default"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type CreateTemplateRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Sections    []TemplateSection `json:"sections"`
	IsDefault   bool              `json:"is_default"`
	System      bool              `json:"system,omitempty"` // true = not owned by the session provider
}

type TemplatePatch struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Category    *string            `json:"category,omitempty"`
	Sections    *[]TemplateSection `json:"sections,omitempty"`
	IsDefault   *bool              `json:"is_default,omitempty"`
}

// Encounters
type Encounter struct {
	ID             uuid.UUID  `json:"id"`
	ProviderID     uuid.UUID  `json:"provider_id"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
	PatientName    string     `json:"patient_name"`
	PatientID      string     `json:"patient_id,omitempty"` // external identifier
	ChiefComplaint string     `json:"chief_complaint,omitempty"`
	Status         string     `json:"status"` // recording, transcribing, generating, review, complete
	DateOfService  time.Time  `json:"date_of_service"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CreateEncounterRequest struct {
	PatientName    string     `json:"patient_name"`
	PatientID      string     `json:"patient_id,omitempty"`
	ChiefComplaint string     `json:"chief_complaint,omitempty"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
}

type EncounterPatch struct {
	PatientName    *string    `json:"patient_name,omitempty"`
	PatientID      *string    `json:"patient_id,omitempty"`
	ChiefComplaint *string    `json:"chief_complaint,omitempty"`
	TemplateID     *uuid.UUID `json:"template_id,omitempty"`
}

// Transcript segments
type TranscriptSegment struct {
	ID          uuid.UUID `json:"id"`
	EncounterID uuid.UUID `json:"encounter_id"`
	Speaker     string    `json:"speaker"` // provider, patient, unknown
	SpeakerName string    `json:"speaker_name,omitempty"`
	Text        string    `json:"text"`
	StartTime   float64   `json:"start_time"` // seconds from encounter start
	EndTime     float64   `json:"end_time"`
	Confidence  *float64  `json:"confidence,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
}

type AddSegmentRequest struct {
	Speaker     string   `json:"speaker"`
	SpeakerName string   `json:"speaker_name,omitempty"`
	Text        string   `json:"text"`
	StartTime   float64  `json:"start_time"`
	EndTime     float64  `json:"end_time"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Order       int      `json:"order"`
}

type SegmentPatch struct {
	Text        *string `json:"text,omitempty"`
	Speaker     *string `json:"speaker,omitempty"`
	SpeakerName *string `json:"speaker_name,omitempty"`
}

// Notes
type NoteSection struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type Diagnosis struct {
	Name           string   `json:"name"`
	Code           string   `json:"code,omitempty"` // ICD-10
	Summary        string   `json:"summary,omitempty"`
	Narrative      string   `json:"narrative,omitempty"`
	PrevCompleted  []string `json:"prev_completed,omitempty"`
	OrderedPlanned []string `json:"ordered_planned,omitempty"`
}

type Note struct {
	ID          uuid.UUID     `json:"id"`
	EncounterID uuid.UUID     `json:"encounter_id"`
	TemplateID  uuid.UUID     `json:"template_id"`
	ProviderID  uuid.UUID     `json:"provider_id"`
	Sections    []NoteSection `json:"sections"`
	Diagnoses   []Diagnosis   `json:"diagnoses,omitempty"`
	FullText    string        `json:"full_text"`
	Status      string        `json:"status"` // draft, reviewed, signed, amended
	SignedAt    *time.Time    `json:"signed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type CreateNoteRequest struct {
	EncounterID uuid.UUID     `json:"encounter_id"`
	TemplateID  uuid.UUID     `json:"template_id"`
	Sections    []NoteSection `json:"sections"`
	Diagnoses   []Diagnosis   `json:"diagnoses,omitempty"`
	FullText    string        `json:"full_text"`
	Status      string        `json:"status"`
}

// Dictionary
type DictionaryEntry struct {
	ID            uuid.UUID `json:"id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	Term          string    `json:"term"` // the correct spelling
	Alternatives  []string  `json:"alternatives"`
	Category      string    `json:"category"` // medication, diagnosis, procedure, anatomy, custom
	Pronunciation string    `json:"pronunciation,omitempty"`
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
}

type AddDictionaryEntryRequest struct {
	Term          string   `json:"term"`
	Alternatives  []string `json:"alternatives"`
	Category      string   `json:"category"`
	Pronunciation string   `json:"pronunciation,omitempty"`
}

type DictionaryEntryPatch struct {
	Term          *string   `json:"term,omitempty"`
	Alternatives  *[]string `json:"alternatives,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Pronunciation *string   `json:"pronunciation,omitempty"`
	Enabled       *bool     `json:"enabled,omitempty"`
}

// Voice enrollment
type VoiceProfile struct {
	ID                 uuid.UUID   `json:"id"`
	ProviderID         uuid.UUID   `json:"provider_id"`
	VoiceSampleIDs     []uuid.UUID `json:"voice_sample_ids"`
	SampleCount        int         `json:"sample_count"`
	EnrollmentComplete bool        `json:"enrollment_complete"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

type VoiceSample struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	AudioData string    `json:"audio_data"` // base64 encoded audio
	Duration  float64   `json:"duration"`   // seconds
	CreatedAt time.Time `json:"created_at"`
}

type AddVoiceSampleRequest struct {
	AudioData string  `json:"audio_data"`
	Duration  float64 `json:"duration"`
}

// Todos
type ProviderTodo struct {
	ID             uuid.UUID  `json:"id"`
	ProviderID     uuid.UUID  `json:"provider_id"`
	EncounterID    *uuid.UUID `json:"encounter_id,omitempty"`
	Text           string     `json:"text"`
	EncounterLabel string     `json:"encounter_label,omitempty"`
	Done           bool       `json:"done"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type EncounterTodo struct {
	ID          uuid.UUID  `json:"id"`
	EncounterID uuid.UUID  `json:"encounter_id"`
	Text        string     `json:"text"`
	Category    string     `json:"category"` // imaging, referral, rx, lab, followup, general
	Done        bool       `json:"done"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type CreateProviderTodoRequest struct {
	Text           string     `json:"text"`
	EncounterID    *uuid.UUID `json:"encounter_id,omitempty"`
	EncounterLabel string     `json:"encounter_label,omitempty"`
}

type CreateEncounterTodoRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

type TodoPatch struct {
	Text *string `json:"text,omitempty"`
}

// Audit trail
type AuditLog struct {
	ID        int64                  `json:"id"`
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  string                 `json:"entity_id"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
