// file: internals/features/school/classes/dto/class_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "karakterku_backend/internals/features/school/classes/model"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

type CreateClassRequest struct {
	ClassName         string     `json:"class_name" validate:"required,max=100"`
	ClassAcademicYear string     `json:"class_academic_year" validate:"required,max=20"`
	HomeroomTeacherID *uuid.UUID `json:"homeroom_teacher_id" validate:"omitempty"`
}

type AssignHomeroomRequest struct {
	HomeroomTeacherID uuid.UUID `json:"homeroom_teacher_id" validate:"required"`
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

/* =========================================================
 * RESPONSE
 * ========================================================= */

type ClassResponse struct {
	ClassID                uuid.UUID  `json:"class_id"`
	ClassName              string     `json:"class_name"`
	ClassAcademicYear      string     `json:"class_academic_year"`
	ClassHomeroomTeacherID *uuid.UUID `json:"class_homeroom_teacher_id,omitempty"`
	ClassCreatedAt         time.Time  `json:"class_created_at"`
}

/* =========================================================
 * HELPERS
 * ========================================================= */

func (r CreateClassRequest) ToModel() m.ClassModel {
	return m.ClassModel{
		ClassName:              r.ClassName,
		ClassAcademicYear:      r.ClassAcademicYear,
		ClassHomeroomTeacherID: r.HomeroomTeacherID,
	}
}

func NewClassResponse(mdl m.ClassModel) ClassResponse {
	return ClassResponse{
		ClassID:                mdl.ClassID,
		ClassName:              mdl.ClassName,
		ClassAcademicYear:      mdl.ClassAcademicYear,
		ClassHomeroomTeacherID: mdl.ClassHomeroomTeacherID,
		ClassCreatedAt:         mdl.ClassCreatedAt,
	}
}
