package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"karakterku_backend/internals/constants"
	"karakterku_backend/internals/features/character_logs/dto"
	"karakterku_backend/internals/features/character_logs/model"
	classModel "karakterku_backend/internals/features/school/classes/model"
	guardianModel "karakterku_backend/internals/features/school/guardians/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&classModel.ClassModel{},
		&classModel.ClassStudentModel{},
		&guardianModel.GuardianStudentModel{},
		&model.CharacterLogModel{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	db        *gorm.DB
	wf        *LogWorkflowService
	studentID uuid.UUID
	parentID  uuid.UUID
	teacherID uuid.UUID
	classID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:        db,
		wf:        NewLogWorkflowService(db, nil, nil),
		studentID: uuid.New(),
		parentID:  uuid.New(),
		teacherID: uuid.New(),
	}

	cls := classModel.ClassModel{
		ClassName:              "7A",
		ClassAcademicYear:      "2024/2025",
		ClassHomeroomTeacherID: &f.teacherID,
	}
	if err := db.Create(&cls).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}
	f.classID = cls.ClassID

	if err := db.Create(&classModel.ClassStudentModel{
		ClassStudentClassID:   f.classID,
		ClassStudentStudentID: f.studentID,
	}).Error; err != nil {
		t.Fatalf("enroll student: %v", err)
	}

	if err := db.Create(&guardianModel.GuardianStudentModel{
		GuardianStudentGuardianID: f.parentID,
		GuardianStudentStudentID:  f.studentID,
	}).Error; err != nil {
		t.Fatalf("link guardian: %v", err)
	}

	return f
}

func validRecord() dto.ActivityRecordRequest {
	return dto.ActivityRecordRequest{
		WakeUpTime:        "04:30",
		WorshipActivities: []string{"subuh_berjamaah", "tadarus"},
		WorshipDetail:     "Subuh di masjid, tadarus setengah juz",
		SportActivity:     "lari",
		SportDetail:       "Lari pagi 20 menit",
		MealDescription:   "Sarapan nasi uduk, makan siang sayur",
		StudyActivities:   []string{"pr_matematika"},
		StudyDetail:       "Mengerjakan PR bab pecahan",
		SocialActivities:  []string{"membantu_orang_tua"},
		SocialDetail:      "Membantu ibu menyiapkan dagangan",
		SleepTime:         "21:00",
	}
}

var logDate = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

/* ===================== SUBMIT PLAN ===================== */

func TestSubmitPlanCreatesDraftLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, logDate, validRecord())
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if entry.CharacterLogStatus != model.StatusDraft {
		t.Errorf("status = %q, want %q", entry.CharacterLogStatus, model.StatusDraft)
	}
	if entry.CharacterLogPlanSubmittedAt == nil {
		t.Error("plan_submitted_at belum terisi")
	}
	if entry.HasExecution() {
		t.Error("execution seharusnya masih kosong")
	}
	if entry.CharacterLogClassID == nil || *entry.CharacterLogClassID != f.classID {
		t.Errorf("class_id = %v, want %v", entry.CharacterLogClassID, f.classID)
	}
}

func TestSubmitPlanTwiceConflictsAndKeepsFirstContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := validRecord()
	if _, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, logDate, first); err != nil {
		t.Fatalf("SubmitPlan() pertama error = %v", err)
	}

	second := validRecord()
	second.MealDescription = "Konten berbeda yang tidak boleh menimpa"
	_, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, logDate, second)

	var ce *ConflictError
	if !asError(err, &ce) {
		t.Fatalf("SubmitPlan() kedua error = %v, want ConflictError", err)
	}
	if ce.CurrentStatus != model.StatusDraft {
		t.Errorf("CurrentStatus = %q, want %q", ce.CurrentStatus, model.StatusDraft)
	}

	stored, err := f.wf.GetByDate(ctx, f.studentID, constants.RoleStudent, f.studentID, logDate)
	if err != nil {
		t.Fatalf("GetByDate() error = %v", err)
	}
	if stored.Plan.MealDescription != first.MealDescription {
		t.Errorf("plan tertimpa: %q", stored.Plan.MealDescription)
	}
}

func TestSubmitPlanValidationListsAllMissingFields(t *testing.T) {
	f := newFixture(t)

	rec := validRecord()
	rec.WorshipActivities = nil
	rec.WorshipDetail = ""
	rec.SleepTime = ""

	_, err := f.wf.SubmitPlan(context.Background(), f.studentID, f.studentID, logDate, rec)

	var ve *ValidationError
	if !asError(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	for _, field := range []string{"worship_activities", "worship_detail", "sleep_time"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("field %q tidak ada di daftar error: %v", field, ve.Fields)
		}
	}

	// ValidationError tidak boleh meninggalkan baris apa pun
	var n int64
	f.db.Model(&model.CharacterLogModel{}).Count(&n)
	if n != 0 {
		t.Errorf("jumlah baris = %d, want 0", n)
	}
}

func TestSubmitPlanPerFieldCompletenessGate(t *testing.T) {
	breakers := []struct {
		field string
		mut   func(*dto.ActivityRecordRequest)
	}{
		{"wake_up_time", func(r *dto.ActivityRecordRequest) { r.WakeUpTime = "" }},
		{"worship_activities", func(r *dto.ActivityRecordRequest) { r.WorshipActivities = []string{} }},
		{"worship_detail", func(r *dto.ActivityRecordRequest) { r.WorshipDetail = "" }},
		{"sport_activity", func(r *dto.ActivityRecordRequest) { r.SportActivity = "" }},
		{"sport_detail", func(r *dto.ActivityRecordRequest) { r.SportDetail = "" }},
		{"meal_description", func(r *dto.ActivityRecordRequest) { r.MealDescription = "" }},
		{"study_activities", func(r *dto.ActivityRecordRequest) { r.StudyActivities = nil }},
		{"study_detail", func(r *dto.ActivityRecordRequest) { r.StudyDetail = "" }},
		{"social_activities", func(r *dto.ActivityRecordRequest) { r.SocialActivities = nil }},
		{"social_detail", func(r *dto.ActivityRecordRequest) { r.SocialDetail = "" }},
		{"sleep_time", func(r *dto.ActivityRecordRequest) { r.SleepTime = "" }},
	}

	for _, tt := range breakers {
		t.Run(tt.field, func(t *testing.T) {
			f := newFixture(t)
			rec := validRecord()
			tt.mut(&rec)

			_, err := f.wf.SubmitPlan(context.Background(), f.studentID, f.studentID, logDate, rec)
			var ve *ValidationError
			if !asError(err, &ve) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if _, ok := ve.Fields[tt.field]; !ok {
				t.Errorf("field %q tidak disebut: %v", tt.field, ve.Fields)
			}
		})
	}
}

func TestSubmitPlanByOtherStudentForbidden(t *testing.T) {
	f := newFixture(t)
	intruder := uuid.New()

	_, err := f.wf.SubmitPlan(context.Background(), intruder, f.studentID, logDate, validRecord())
	var fe *ForbiddenError
	if !asError(err, &fe) {
		t.Fatalf("error = %v, want ForbiddenError", err)
	}
}

/* ===================== SUBMIT EXECUTION ===================== */

func TestSubmitExecutionBeforePlanNotFoundAndNoRow(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.SubmitExecution(context.Background(), f.studentID, f.studentID, logDate, validRecord())
	var nfe *NotFoundError
	if !asError(err, &nfe) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}

	var n int64
	f.db.Model(&model.CharacterLogModel{}).Count(&n)
	if n != 0 {
		t.Errorf("jumlah baris = %d, want 0 (tidak boleh membuat jurnal)", n)
	}
}

func TestSubmitExecutionHappyPathKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustSubmitPlan(t, f, ctx)

	entry, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, logDate, validRecord())
	if err != nil {
		t.Fatalf("SubmitExecution() error = %v", err)
	}
	if entry.CharacterLogStatus != model.StatusDraft {
		t.Errorf("status = %q, want tetap %q", entry.CharacterLogStatus, model.StatusDraft)
	}
	if !entry.HasExecution() {
		t.Error("execution_submitted_at belum terisi")
	}
}

func TestSubmitExecutionTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mustSubmitPlan(t, f, ctx)
	if _, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, logDate, validRecord()); err != nil {
		t.Fatalf("SubmitExecution() pertama error = %v", err)
	}

	_, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, logDate, validRecord())
	var ce *ConflictError
	if !asError(err, &ce) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
}

/* ===================== APPROVE ===================== */

func TestApproveByLinkedGuardian(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := mustSubmitBoth(t, f, ctx)

	approved, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID)
	if err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if approved.CharacterLogStatus != model.StatusParentApproved {
		t.Errorf("status = %q, want %q", approved.CharacterLogStatus, model.StatusParentApproved)
	}
	if approved.CharacterLogApprovedAt == nil {
		t.Error("approved_at belum terisi")
	}
}

func TestApproveByUnlinkedParentForbiddenRegardlessOfStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stranger := uuid.New()

	entry := mustSubmitBoth(t, f, ctx)

	// draft
	if _, err := f.wf.Approve(ctx, stranger, entry.CharacterLogID); !isForbidden(err) {
		t.Fatalf("draft: error = %v, want ForbiddenError", err)
	}

	// setelah approved pun tetap forbidden, pesannya sama
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if _, err := f.wf.Approve(ctx, stranger, entry.CharacterLogID); !isForbidden(err) {
		t.Fatalf("approved: error = %v, want ForbiddenError", err)
	}

	// jurnal tidak ada: respons tidak boleh membedakan (anti existence leak)
	if _, err := f.wf.Approve(ctx, stranger, uuid.New()); !isForbidden(err) {
		t.Fatalf("hilang: error = %v, want ForbiddenError", err)
	}
}

func TestApproveWithoutExecutionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := mustSubmitPlan(t, f, ctx)

	_, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID)
	var ce *ConflictError
	if !asError(err, &ce) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if ce.CurrentStatus != model.StatusDraft {
		t.Errorf("CurrentStatus = %q, want %q", ce.CurrentStatus, model.StatusDraft)
	}
}

func TestApproveTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := mustSubmitBoth(t, f, ctx)
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	_, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID)
	var ce *ConflictError
	if !asError(err, &ce) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if ce.CurrentStatus != model.StatusParentApproved {
		t.Errorf("CurrentStatus = %q, want %q", ce.CurrentStatus, model.StatusParentApproved)
	}
}

/* ===================== VALIDATE ===================== */

func TestValidateFullPipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := mustSubmitBoth(t, f, ctx)
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	validated, err := f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if validated.CharacterLogStatus != model.StatusTeacherValidated {
		t.Errorf("status = %q, want %q", validated.CharacterLogStatus, model.StatusTeacherValidated)
	}

	// Terminal: approve maupun validate ulang harus konflik
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); !isConflict(err) {
		t.Errorf("approve setelah validasi: error = %v, want ConflictError", err)
	}
	if _, err := f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID); !isConflict(err) {
		t.Errorf("validate ulang: error = %v, want ConflictError", err)
	}
}

func TestValidateOnDraftConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry := mustSubmitBoth(t, f, ctx)

	_, err := f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID)
	var ce *ConflictError
	if !asError(err, &ce) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if ce.CurrentStatus != model.StatusDraft {
		t.Errorf("CurrentStatus = %q, want %q", ce.CurrentStatus, model.StatusDraft)
	}
}

func TestValidateByNonHomeroomTeacherForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	otherTeacher := uuid.New()

	entry := mustSubmitBoth(t, f, ctx)
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if _, err := f.wf.Validate(ctx, otherTeacher, entry.CharacterLogID); !isForbidden(err) {
		t.Fatalf("error harus ForbiddenError, dapat %v", err)
	}
}

/* ===================== MONOTONICITY ===================== */

func TestStatusNeverRegresses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rank := map[string]int{
		model.StatusDraft:            0,
		model.StatusParentApproved:   1,
		model.StatusTeacherValidated: 2,
	}

	entry := mustSubmitBoth(t, f, ctx)
	observed := []string{}
	snapshot := func() {
		cur, err := f.wf.GetByDate(ctx, f.studentID, constants.RoleStudent, f.studentID, logDate)
		if err != nil {
			t.Fatalf("GetByDate() error = %v", err)
		}
		observed = append(observed, cur.CharacterLogStatus)
	}

	snapshot()
	_, _ = f.wf.Approve(ctx, f.parentID, entry.CharacterLogID)
	snapshot()
	// operasi gagal tidak boleh menggeser status mundur
	_, _ = f.wf.SubmitExecution(ctx, f.studentID, f.studentID, logDate, validRecord())
	_, _ = f.wf.Approve(ctx, f.parentID, entry.CharacterLogID)
	snapshot()
	_, _ = f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID)
	snapshot()
	_, _ = f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID)
	snapshot()

	for i := 1; i < len(observed); i++ {
		if rank[observed[i]] < rank[observed[i-1]] {
			t.Fatalf("status mundur: %v", observed)
		}
	}
}

/* ===================== READS ===================== */

func TestGetByDateNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.GetByDate(context.Background(), f.studentID, constants.RoleStudent, f.studentID, logDate)
	var nfe *NotFoundError
	if !asError(err, &nfe) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestListPendingApprovalOrderedNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, d, validRecord()); err != nil {
			t.Fatalf("SubmitPlan(%s) error = %v", d, err)
		}
		if _, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, d, validRecord()); err != nil {
			t.Fatalf("SubmitExecution(%s) error = %v", d, err)
		}
	}
	// satu jurnal tanpa realisasi: tidak boleh ikut pending
	if _, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), validRecord()); err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}

	rows, err := f.wf.ListPendingApproval(ctx, f.parentID)
	if err != nil {
		t.Fatalf("ListPendingApproval() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CharacterLogDate.After(rows[i-1].CharacterLogDate) {
			t.Fatalf("urutan bukan terbaru dulu: %v vs %v", rows[i-1].CharacterLogDate, rows[i].CharacterLogDate)
		}
	}

	// wali lain tanpa tautan: kosong
	other, err := f.wf.ListPendingApproval(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ListPendingApproval() error = %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("wali tak tertaut dapat %d jurnal", len(other))
	}
}

func TestListPendingValidationOrderedOldestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, d, validRecord()); err != nil {
			t.Fatalf("SubmitPlan(%s) error = %v", d, err)
		}
		if _, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, d, validRecord()); err != nil {
			t.Fatalf("SubmitExecution(%s) error = %v", d, err)
		}
		entry, err := f.wf.GetByDate(ctx, f.studentID, constants.RoleStudent, f.studentID, d)
		if err != nil {
			t.Fatalf("GetByDate() error = %v", err)
		}
		if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
	}

	rows, err := f.wf.ListPendingValidation(ctx, f.teacherID)
	if err != nil {
		t.Fatalf("ListPendingValidation() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].CharacterLogDate.Before(rows[i-1].CharacterLogDate) {
			t.Fatalf("urutan bukan tertua dulu: %v vs %v", rows[i-1].CharacterLogDate, rows[i].CharacterLogDate)
		}
	}

	// guru lain bukan wali kelas: kosong
	other, err := f.wf.ListPendingValidation(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ListPendingValidation() error = %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("guru non-wali-kelas dapat %d jurnal", len(other))
	}
}

// Jurnal yang dibuat sebelum siswa masuk kelas (class_id NULL) tetap harus
// muncul di daftar pending wali kelasnya yang sekarang, dan bisa divalidasi.
func TestListPendingValidationIncludesLogBeforeEnrollment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	wf := NewLogWorkflowService(db, nil, nil)

	studentID := uuid.New()
	parentID := uuid.New()
	teacherID := uuid.New()

	if err := db.Create(&guardianModel.GuardianStudentModel{
		GuardianStudentGuardianID: parentID,
		GuardianStudentStudentID:  studentID,
	}).Error; err != nil {
		t.Fatalf("link guardian: %v", err)
	}

	// Rencana dikirim saat siswa belum punya kelas
	entry, err := wf.SubmitPlan(ctx, studentID, studentID, logDate, validRecord())
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	if entry.CharacterLogClassID != nil {
		t.Fatalf("class_id = %v, want nil sebelum enrol", entry.CharacterLogClassID)
	}

	// Baru setelah itu siswa masuk kelas
	cls := classModel.ClassModel{
		ClassName:              "7D",
		ClassAcademicYear:      "2024/2025",
		ClassHomeroomTeacherID: &teacherID,
	}
	if err := db.Create(&cls).Error; err != nil {
		t.Fatalf("create class: %v", err)
	}
	if err := db.Create(&classModel.ClassStudentModel{
		ClassStudentClassID:   cls.ClassID,
		ClassStudentStudentID: studentID,
	}).Error; err != nil {
		t.Fatalf("enroll: %v", err)
	}

	if _, err := wf.SubmitExecution(ctx, studentID, studentID, logDate, validRecord()); err != nil {
		t.Fatalf("SubmitExecution() error = %v", err)
	}
	if _, err := wf.Approve(ctx, parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	rows, err := wf.ListPendingValidation(ctx, teacherID)
	if err != nil {
		t.Fatalf("ListPendingValidation() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("len = %d, want 1 (jurnal class_id NULL harus terlihat wali kelas)", len(rows))
	}
	if rows[0].CharacterLogID != entry.CharacterLogID {
		t.Fatalf("jurnal di daftar = %s, want %s", rows[0].CharacterLogID, entry.CharacterLogID)
	}

	// Guru lain tetap tidak melihatnya lewat fallback keanggotaan
	other, err := wf.ListPendingValidation(ctx, uuid.New())
	if err != nil {
		t.Fatalf("ListPendingValidation() error = %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("guru lain dapat %d jurnal lewat fallback", len(other))
	}

	if _, err := wf.Validate(ctx, teacherID, entry.CharacterLogID); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

/* ===================== SIDE EFFECTS ===================== */

type recordingNotifier struct {
	mu   sync.Mutex
	got  []Notification
	done chan struct{}
}

func (r *recordingNotifier) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

type recordingAttributor struct {
	done chan model.CharacterLogModel
}

func (r *recordingAttributor) AttributeValidated(_ context.Context, entry model.CharacterLogModel) error {
	r.done <- entry
	return nil
}

func TestValidateTriggersAttributionAndNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	notifier := &recordingNotifier{done: make(chan struct{}, 8)}
	attributor := &recordingAttributor{done: make(chan model.CharacterLogModel, 1)}
	f.wf = NewLogWorkflowService(f.db, notifier, attributor)

	entry := mustSubmitBoth(t, f, ctx)
	drainNotifications(t, notifier, 1) // realisasi -> wali

	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	drainNotifications(t, notifier, 1) // approve -> guru

	if _, err := f.wf.Validate(ctx, f.teacherID, entry.CharacterLogID); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	drainNotifications(t, notifier, 1) // validasi -> wali

	select {
	case attributed := <-attributor.done:
		if attributed.CharacterLogID != entry.CharacterLogID {
			t.Errorf("log teratribusi = %s, want %s", attributed.CharacterLogID, entry.CharacterLogID)
		}
		if attributed.CharacterLogStatus != model.StatusTeacherValidated {
			t.Errorf("status teratribusi = %q", attributed.CharacterLogStatus)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("atribusi skor tidak terpanggil")
	}

	notifier.mu.Lock()
	roles := make([]string, 0, len(notifier.got))
	for _, n := range notifier.got {
		roles = append(roles, n.RecipientRole)
	}
	notifier.mu.Unlock()
	want := []string{constants.RoleParent, constants.RoleTeacher, constants.RoleParent}
	if len(roles) != len(want) {
		t.Fatalf("penerima notifikasi = %v, want %v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Fatalf("penerima notifikasi = %v, want %v", roles, want)
		}
	}
}

func TestNotifierFailureDoesNotUndoTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.wf = NewLogWorkflowService(f.db, failingNotifier{}, nil)

	entry := mustSubmitBoth(t, f, ctx)
	if _, err := f.wf.Approve(ctx, f.parentID, entry.CharacterLogID); err != nil {
		t.Fatalf("Approve() error = %v (notifier gagal tidak boleh menular)", err)
	}

	cur, err := f.wf.GetByDate(ctx, f.studentID, constants.RoleStudent, f.studentID, logDate)
	if err != nil {
		t.Fatalf("GetByDate() error = %v", err)
	}
	if cur.CharacterLogStatus != model.StatusParentApproved {
		t.Errorf("status = %q, want tetap %q", cur.CharacterLogStatus, model.StatusParentApproved)
	}
}

type failingNotifier struct{}

func (failingNotifier) Send(context.Context, Notification) error {
	return fmt.Errorf("gateway down")
}

/* ===================== HELPERS ===================== */

func mustSubmitPlan(t *testing.T, f *fixture, ctx context.Context) *model.CharacterLogModel {
	t.Helper()
	entry, err := f.wf.SubmitPlan(ctx, f.studentID, f.studentID, logDate, validRecord())
	if err != nil {
		t.Fatalf("SubmitPlan() error = %v", err)
	}
	return entry
}

func mustSubmitBoth(t *testing.T, f *fixture, ctx context.Context) *model.CharacterLogModel {
	t.Helper()
	mustSubmitPlan(t, f, ctx)
	entry, err := f.wf.SubmitExecution(ctx, f.studentID, f.studentID, logDate, validRecord())
	if err != nil {
		t.Fatalf("SubmitExecution() error = %v", err)
	}
	return entry
}

func drainNotifications(t *testing.T, n *recordingNotifier, want int) {
	t.Helper()
	for i := 0; i < want; i++ {
		select {
		case <-n.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("notifikasi ke-%d tidak datang", i+1)
		}
	}
}

func isForbidden(err error) bool {
	var fe *ForbiddenError
	return asError(err, &fe)
}

func isConflict(err error) bool {
	var ce *ConflictError
	return asError(err, &ce)
}

func asError[T error](err error, target *T) bool {
	if err == nil {
		return false
	}
	return errors.As(err, target)
}
