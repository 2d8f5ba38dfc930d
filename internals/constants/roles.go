package constants

import "fmt"

// Daftar role pengguna Karakterku
const (
	RoleStudent     = "student"
	RoleParent      = "parent"
	RoleTeacher     = "teacher"
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
)

// Template pesan error role
const (
	ErrOnlyStudentsCanAccess     = "❌ Hanya siswa yang boleh mengakses fitur %s."
	ErrOnlyParentsCanAccess      = "❌ Hanya orang tua/wali yang boleh mengakses fitur %s."
	ErrOnlyTeachersCanAccess     = "❌ Hanya guru yang boleh mengakses fitur %s."
	ErrOnlyContributorsCanAccess = "❌ Hanya kontributor yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess       = "❌ Hanya admin yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorParent(feature string) string {
	return fmt.Sprintf(ErrOnlyParentsCanAccess, feature)
}

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorContributor(feature string) string {
	return fmt.Sprintf(ErrOnlyContributorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleStudent,
		RoleParent,
		RoleTeacher,
		RoleContributor,
		RoleAdmin,
	}

	StudentOnly = []string{
		RoleStudent,
	}

	ParentOnly = []string{
		RoleParent,
	}

	TeacherAndAbove = []string{
		RoleTeacher,
		RoleAdmin,
	}

	ContributorAndAbove = []string{
		RoleContributor,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
