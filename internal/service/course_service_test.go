package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/model"
)

func newCourseService(env *testEnv) CourseService {
	return NewCourseService(env.courseRepo, env.enrollmentRepo, env.userRepo)
}

func TestCreateCourseDefaultsMaxGrade(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	svc := newCourseService(env)

	resp, err := svc.CreateCourse(claimsFor(teacher), dto.CourseCreateRequest{Name: "Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, float64(100), resp.MaxGrade)
	assert.Equal(t, teacher.ID, resp.TeacherID)

	maxGrade := 20.0
	custom, err := svc.CreateCourse(claimsFor(teacher), dto.CourseCreateRequest{Name: "Databases", MaxGrade: &maxGrade})
	require.NoError(t, err)
	assert.Equal(t, 20.0, custom.MaxGrade)
}

func TestGetCourseRequiresEnrollmentForStudents(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	student := env.seedUser("Stu", "stu@example.com", model.RoleStudent)
	course := env.seedCourse(teacher, "Algorithms", 100)
	svc := newCourseService(env)

	_, err := svc.GetCourse(course.ID, claimsFor(student))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	env.seedEnrollment(course, student)
	resp, err := svc.GetCourse(course.ID, claimsFor(student))
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", resp.Name)
	assert.Equal(t, 1, resp.StudentCount)
}

func TestListCoursesScopedByRole(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	student := env.seedUser("Stu", "stu@example.com", model.RoleStudent)
	enrolled := env.seedCourse(teacher, "Algorithms", 100)
	env.seedCourse(teacher, "Databases", 100)
	env.seedEnrollment(enrolled, student)
	svc := newCourseService(env)

	asTeacher, err := svc.ListCourses(claimsFor(teacher))
	require.NoError(t, err)
	assert.Len(t, asTeacher, 2)

	asStudent, err := svc.ListCourses(claimsFor(student))
	require.NoError(t, err)
	require.Len(t, asStudent, 1)
	assert.Equal(t, enrolled.ID, asStudent[0].ID)
}

func TestEnrollStudentTwiceConflicts(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	student := env.seedUser("Stu", "stu@example.com", model.RoleStudent)
	course := env.seedCourse(teacher, "Algorithms", 100)
	svc := newCourseService(env)

	req := dto.EnrollStudentRequest{StudentID: student.ID}
	resp, err := svc.EnrollStudent(course.ID, claimsFor(teacher), req)
	require.NoError(t, err)
	assert.Equal(t, student.ID, resp.StudentID)

	_, err = svc.EnrollStudent(course.ID, claimsFor(teacher), req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestEnrollRejectsNonStudent(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	colleague := env.seedUser("Other", "other@example.com", model.RoleTeacher)
	course := env.seedCourse(teacher, "Algorithms", 100)
	svc := newCourseService(env)

	_, err := svc.EnrollStudent(course.ID, claimsFor(teacher), dto.EnrollStudentRequest{StudentID: colleague.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRemoveStudentNotEnrolled(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	student := env.seedUser("Stu", "stu@example.com", model.RoleStudent)
	course := env.seedCourse(teacher, "Algorithms", 100)
	svc := newCourseService(env)

	err := svc.RemoveStudent(course.ID, student.ID, claimsFor(teacher))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	env.seedEnrollment(course, student)
	require.NoError(t, svc.RemoveStudent(course.ID, student.ID, claimsFor(teacher)))
}

func TestCourseOwnershipEnforced(t *testing.T) {
	env := newTestEnv()
	owner := env.seedUser("Owner", "owner@example.com", model.RoleTeacher)
	other := env.seedUser("Other", "other@example.com", model.RoleTeacher)
	course := env.seedCourse(owner, "Algorithms", 100)
	svc := newCourseService(env)

	name := "Renamed"
	_, err := svc.UpdateCourse(course.ID, claimsFor(other), dto.CourseUpdateRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = svc.DeleteCourse(course.ID, claimsFor(other))
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestDeleteCourseCascades(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	student := env.seedUser("Stu", "stu@example.com", model.RoleStudent)
	course := env.seedCourse(teacher, "Algorithms", 100)
	env.seedEnrollment(course, student)
	env.seedAssignment(course, futureDeadline(), "Q1", "Q2")
	svc := newCourseService(env)

	require.NoError(t, svc.DeleteCourse(course.ID, claimsFor(teacher)))
	assert.Empty(t, env.store.courses)
	assert.Empty(t, env.store.enrollments)
	assert.Empty(t, env.store.assignments)
	assert.Empty(t, env.store.questions)
}

func TestListStudents(t *testing.T) {
	env := newTestEnv()
	teacher := env.seedUser("Teach", "teach@example.com", model.RoleTeacher)
	alice := env.seedUser("Alice", "alice@example.com", model.RoleStudent)
	bob := env.seedUser("Bob", "bob@example.com", model.RoleStudent)
	course := env.seedCourse(teacher, "Algorithms", 100)
	env.seedEnrollment(course, bob)
	env.seedEnrollment(course, alice)
	svc := newCourseService(env)

	resp, err := svc.ListStudents(course.ID, claimsFor(teacher))
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "Alice", resp[0].Name)
	assert.Equal(t, "Bob", resp[1].Name)
}
