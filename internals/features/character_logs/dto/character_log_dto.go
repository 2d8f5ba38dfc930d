// file: internals/features/character_logs/dto/character_log_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	m "karakterku_backend/internals/features/character_logs/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// ActivityRecordRequest: ketujuh bidang wajib terisi (gerbang kelengkapan).
// Validator mengumpulkan SEMUA field kosong sekaligus, bukan fail-fast.
type ActivityRecordRequest struct {
	WakeUpTime        string   `json:"wake_up_time" validate:"required,datetime=15:04"`
	WorshipActivities []string `json:"worship_activities" validate:"required,min=1,dive,required"`
	WorshipDetail     string   `json:"worship_detail" validate:"required"`
	SportActivity     string   `json:"sport_activity" validate:"required,max=100"`
	SportDetail       string   `json:"sport_detail" validate:"required"`
	MealDescription   string   `json:"meal_description" validate:"required"`
	StudyActivities   []string `json:"study_activities" validate:"required,min=1,dive,required"`
	StudyDetail       string   `json:"study_detail" validate:"required"`
	SocialActivities  []string `json:"social_activities" validate:"required,min=1,dive,required"`
	SocialDetail      string   `json:"social_detail" validate:"required"`
	SleepTime         string   `json:"sleep_time" validate:"required,datetime=15:04"`
}

type SubmitPlanRequest struct {
	LogDate string                `json:"log_date" validate:"required,datetime=2006-01-02"`
	Record  ActivityRecordRequest `json:"record"`
}

type SubmitExecutionRequest struct {
	LogDate string                `json:"log_date" validate:"required,datetime=2006-01-02"`
	Record  ActivityRecordRequest `json:"record"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type ActivityRecordResponse struct {
	WakeUpTime        string   `json:"wake_up_time"`
	WorshipActivities []string `json:"worship_activities"`
	WorshipDetail     string   `json:"worship_detail"`
	SportActivity     string   `json:"sport_activity"`
	SportDetail       string   `json:"sport_detail"`
	MealDescription   string   `json:"meal_description"`
	StudyActivities   []string `json:"study_activities"`
	StudyDetail       string   `json:"study_detail"`
	SocialActivities  []string `json:"social_activities"`
	SocialDetail      string   `json:"social_detail"`
	SleepTime         string   `json:"sleep_time"`
}

type CharacterLogResponse struct {
	CharacterLogID        uuid.UUID  `json:"character_log_id"`
	CharacterLogStudentID uuid.UUID  `json:"character_log_student_id"`
	CharacterLogDate      string     `json:"character_log_date"`
	CharacterLogClassID   *uuid.UUID `json:"character_log_class_id,omitempty"`
	CharacterLogStatus    string     `json:"character_log_status"`

	Plan      *ActivityRecordResponse `json:"plan,omitempty"`
	Execution *ActivityRecordResponse `json:"execution,omitempty"`

	PlanSubmittedAt      *time.Time `json:"plan_submitted_at,omitempty"`
	ExecutionSubmittedAt *time.Time `json:"execution_submitted_at,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	ValidatedAt          *time.Time `json:"validated_at,omitempty"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r ActivityRecordRequest) ToRecord() m.ActivityRecord {
	return m.ActivityRecord{
		WakeUpTime:        r.WakeUpTime,
		WorshipActivities: datatypes.NewJSONSlice(r.WorshipActivities),
		WorshipDetail:     r.WorshipDetail,
		SportActivity:     r.SportActivity,
		SportDetail:       r.SportDetail,
		MealDescription:   r.MealDescription,
		StudyActivities:   datatypes.NewJSONSlice(r.StudyActivities),
		StudyDetail:       r.StudyDetail,
		SocialActivities:  datatypes.NewJSONSlice(r.SocialActivities),
		SocialDetail:      r.SocialDetail,
		SleepTime:         r.SleepTime,
	}
}

// ExecutionUpdateMap: kolom realisasi untuk conditional UPDATE tunggal
// (guard execution_submitted_at IS NULL ada di service)
func (r ActivityRecordRequest) ExecutionUpdateMap(now time.Time) map[string]any {
	return map[string]any{
		"character_log_execution_wake_up_time":       r.WakeUpTime,
		"character_log_execution_worship_activities": datatypes.NewJSONSlice(r.WorshipActivities),
		"character_log_execution_worship_detail":     r.WorshipDetail,
		"character_log_execution_sport_activity":     r.SportActivity,
		"character_log_execution_sport_detail":       r.SportDetail,
		"character_log_execution_meal_description":   r.MealDescription,
		"character_log_execution_study_activities":   datatypes.NewJSONSlice(r.StudyActivities),
		"character_log_execution_study_detail":       r.StudyDetail,
		"character_log_execution_social_activities":  datatypes.NewJSONSlice(r.SocialActivities),
		"character_log_execution_social_detail":      r.SocialDetail,
		"character_log_execution_sleep_time":         r.SleepTime,
		"character_log_execution_submitted_at":       now,
	}
}

func newActivityRecordResponse(rec m.ActivityRecord) *ActivityRecordResponse {
	return &ActivityRecordResponse{
		WakeUpTime:        rec.WakeUpTime,
		WorshipActivities: rec.WorshipActivities,
		WorshipDetail:     rec.WorshipDetail,
		SportActivity:     rec.SportActivity,
		SportDetail:       rec.SportDetail,
		MealDescription:   rec.MealDescription,
		StudyActivities:   rec.StudyActivities,
		StudyDetail:       rec.StudyDetail,
		SocialActivities:  rec.SocialActivities,
		SocialDetail:      rec.SocialDetail,
		SleepTime:         rec.SleepTime,
	}
}

func NewCharacterLogResponse(mdl m.CharacterLogModel) CharacterLogResponse {
	resp := CharacterLogResponse{
		CharacterLogID:        mdl.CharacterLogID,
		CharacterLogStudentID: mdl.CharacterLogStudentID,
		CharacterLogDate:      mdl.CharacterLogDate.Format("2006-01-02"),
		CharacterLogClassID:   mdl.CharacterLogClassID,
		CharacterLogStatus:    mdl.CharacterLogStatus,
		PlanSubmittedAt:       mdl.CharacterLogPlanSubmittedAt,
		ExecutionSubmittedAt:  mdl.CharacterLogExecutionSubmittedAt,
		ApprovedAt:            mdl.CharacterLogApprovedAt,
		ValidatedAt:           mdl.CharacterLogValidatedAt,
	}
	if mdl.CharacterLogPlanSubmittedAt != nil {
		resp.Plan = newActivityRecordResponse(mdl.Plan)
	}
	if mdl.CharacterLogExecutionSubmittedAt != nil {
		resp.Execution = newActivityRecordResponse(mdl.Execution)
	}
	return resp
}

func NewCharacterLogResponses(rows []m.CharacterLogModel) []CharacterLogResponse {
	out := make([]CharacterLogResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewCharacterLogResponse(r))
	}
	return out
}
