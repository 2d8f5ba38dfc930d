// file: internals/features/scores/dto/behavior_score_dto.go
package dto

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Pengisian slot skor oleh kontributor (partial tidak diizinkan:
// skor & misi wajib sekali isi)
type FillBehaviorScoreRequest struct {
	// pointer supaya nilai 0 tetap dianggap terisi
	Points  *int    `json:"points" validate:"required,min=0,max=100"`
	Mission string  `json:"mission" validate:"required,max=500"`
	Notes   *string `json:"notes" validate:"omitempty,max=1000"`
}
