package service

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/util"
)

// memStore is a map-backed stand-in for the database, shared by the fake
// repositories below so cross-entity lookups see the same data.
type memStore struct {
	lastID      uint
	users       map[uint]*model.User
	courses     map[uint]*model.Course
	enrollments map[uint]*model.Enrollment
	assignments map[uint]*model.Assignment
	questions   map[uint]*model.Question
	submissions map[uint]*model.Submission
	answers     map[uint]*model.Answer
	grades      map[uint]*model.Grade
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[uint]*model.User{},
		courses:     map[uint]*model.Course{},
		enrollments: map[uint]*model.Enrollment{},
		assignments: map[uint]*model.Assignment{},
		questions:   map[uint]*model.Question{},
		submissions: map[uint]*model.Submission{},
		answers:     map[uint]*model.Answer{},
		grades:      map[uint]*model.Grade{},
	}
}

func (s *memStore) id() uint {
	s.lastID++
	return s.lastID
}

func (s *memStore) questionsOf(assignmentID uint) []model.Question {
	var qs []model.Question
	for _, q := range s.questions {
		if q.AssignmentID == assignmentID {
			qs = append(qs, *q)
		}
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs
}

func (s *memStore) studentCount(courseID uint) int {
	count := 0
	for _, e := range s.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count
}

func (s *memStore) deleteSubmissionTree(submissionID uint) {
	for id, a := range s.answers {
		if a.SubmissionID == submissionID {
			delete(s.answers, id)
		}
	}
	delete(s.grades, submissionID)
	delete(s.submissions, submissionID)
}

func (s *memStore) deleteAssignmentTree(assignmentID uint) {
	for id, sub := range s.submissions {
		if sub.AssignmentID == assignmentID {
			s.deleteSubmissionTree(id)
		}
	}
	for id, q := range s.questions {
		if q.AssignmentID == assignmentID {
			delete(s.questions, id)
		}
	}
	delete(s.assignments, assignmentID)
}

// testEnv wires every fake repository over one memStore.
type testEnv struct {
	store *memStore

	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	assignmentRepo repository.AssignmentRepository
	questionRepo   repository.QuestionRepository
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
}

func newTestEnv() *testEnv {
	store := newMemStore()
	return &testEnv{
		store:          store,
		userRepo:       &fakeUserRepo{store: store},
		courseRepo:     &fakeCourseRepo{store: store},
		enrollmentRepo: &fakeEnrollmentRepo{store: store},
		assignmentRepo: &fakeAssignmentRepo{store: store},
		questionRepo:   &fakeQuestionRepo{store: store},
		submissionRepo: &fakeSubmissionRepo{store: store},
		answerRepo:     &fakeAnswerRepo{store: store},
	}
}

func (e *testEnv) seedUser(name, email string, role model.UserRole) *model.User {
	u := &model.User{ID: e.store.id(), Name: name, Email: email, Password: "x", Role: role, CreatedAt: time.Now()}
	e.store.users[u.ID] = u
	return u
}

func (e *testEnv) seedCourse(teacher *model.User, name string, maxGrade float64) *model.Course {
	c := &model.Course{ID: e.store.id(), Name: name, TeacherID: teacher.ID, MaxGrade: maxGrade, CreatedAt: time.Now()}
	e.store.courses[c.ID] = c
	return c
}

func (e *testEnv) seedEnrollment(course *model.Course, student *model.User) {
	en := &model.Enrollment{ID: e.store.id(), CourseID: course.ID, StudentID: student.ID, CreatedAt: time.Now()}
	e.store.enrollments[en.ID] = en
}

func (e *testEnv) seedAssignment(course *model.Course, deadline time.Time, questionTexts ...string) *model.Assignment {
	a := &model.Assignment{ID: e.store.id(), Name: "Assignment", CourseID: course.ID, Weight: 10, Deadline: deadline, CreatedAt: time.Now()}
	e.store.assignments[a.ID] = a
	for i, text := range questionTexts {
		q := &model.Question{ID: e.store.id(), AssignmentID: a.ID, Text: text, Order: i + 1}
		e.store.questions[q.ID] = q
		a.Questions = append(a.Questions, *q)
	}
	return a
}

func claimsFor(u *model.User) *util.Claims {
	return &util.Claims{UserID: u.ID, Role: u.Role, Email: u.Email}
}

type fakeUserRepo struct{ store *memStore }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (f *fakeUserRepo) Create(user *model.User) error {
	for _, u := range f.store.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.store.id()
	user.CreatedAt = time.Now()
	cp := *user
	f.store.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindAll(role *model.UserRole) ([]model.User, error) {
	var users []model.User
	for _, u := range f.store.users {
		if role != nil && u.Role != *role {
			continue
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (f *fakeUserRepo) Update(user *model.User) error {
	cp := *user
	f.store.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Delete(id uint) error {
	delete(f.store.users, id)
	return nil
}

func (f *fakeUserRepo) HasDependents(id uint) (bool, error) {
	for _, e := range f.store.enrollments {
		if e.StudentID == id {
			return true, nil
		}
	}
	for _, s := range f.store.submissions {
		if s.StudentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) DeleteCascade(id uint) error {
	for sid, s := range f.store.submissions {
		if s.StudentID == id {
			f.store.deleteSubmissionTree(sid)
		}
	}
	for eid, e := range f.store.enrollments {
		if e.StudentID == id {
			delete(f.store.enrollments, eid)
		}
	}
	delete(f.store.users, id)
	return nil
}

type fakeCourseRepo struct{ store *memStore }

var _ repository.CourseRepository = (*fakeCourseRepo)(nil)

func (f *fakeCourseRepo) Create(course *model.Course) error {
	course.ID = f.store.id()
	course.CreatedAt = time.Now()
	cp := *course
	f.store.courses[cp.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) FindByID(id uint) (*model.Course, error) {
	c, ok := f.store.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) FindByIDWithStudentCount(id uint) (*repository.CourseWithStudentCount, error) {
	c, ok := f.store.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &repository.CourseWithStudentCount{Course: *c, StudentCount: f.store.studentCount(id)}, nil
}

func (f *fakeCourseRepo) FindAllWithStudentCount() ([]repository.CourseWithStudentCount, error) {
	var results []repository.CourseWithStudentCount
	for id, c := range f.store.courses {
		results = append(results, repository.CourseWithStudentCount{Course: *c, StudentCount: f.store.studentCount(id)})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (f *fakeCourseRepo) FindAllByStudentWithStudentCount(studentID uint) ([]repository.CourseWithStudentCount, error) {
	var results []repository.CourseWithStudentCount
	for _, e := range f.store.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if c, ok := f.store.courses[e.CourseID]; ok {
			results = append(results, repository.CourseWithStudentCount{Course: *c, StudentCount: f.store.studentCount(c.ID)})
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (f *fakeCourseRepo) Update(course *model.Course) error {
	cp := *course
	f.store.courses[cp.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) DeleteCascade(id uint) error {
	for aid, a := range f.store.assignments {
		if a.CourseID == id {
			f.store.deleteAssignmentTree(aid)
		}
	}
	for eid, e := range f.store.enrollments {
		if e.CourseID == id {
			delete(f.store.enrollments, eid)
		}
	}
	delete(f.store.courses, id)
	return nil
}

type fakeEnrollmentRepo struct{ store *memStore }

var _ repository.EnrollmentRepository = (*fakeEnrollmentRepo)(nil)

func (f *fakeEnrollmentRepo) Create(enrollment *model.Enrollment) error {
	for _, e := range f.store.enrollments {
		if e.CourseID == enrollment.CourseID && e.StudentID == enrollment.StudentID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = f.store.id()
	enrollment.CreatedAt = time.Now()
	cp := *enrollment
	f.store.enrollments[cp.ID] = &cp
	return nil
}

func (f *fakeEnrollmentRepo) Exists(courseID, studentID uint) (bool, error) {
	for _, e := range f.store.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) ExistsByStudentAndTeacher(studentID, teacherID uint) (bool, error) {
	for _, e := range f.store.enrollments {
		if e.StudentID != studentID {
			continue
		}
		if c, ok := f.store.courses[e.CourseID]; ok && c.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) FindStudentsByCourse(courseID uint) ([]model.User, error) {
	var students []model.User
	for _, e := range f.store.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if u, ok := f.store.users[e.StudentID]; ok {
			students = append(students, *u)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (f *fakeEnrollmentRepo) Delete(courseID, studentID uint) error {
	for id, e := range f.store.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			delete(f.store.enrollments, id)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeAssignmentRepo struct{ store *memStore }

var _ repository.AssignmentRepository = (*fakeAssignmentRepo)(nil)

func (f *fakeAssignmentRepo) Create(assignment *model.Assignment) error {
	assignment.ID = f.store.id()
	assignment.CreatedAt = time.Now()
	for i := range assignment.Questions {
		q := &assignment.Questions[i]
		q.ID = f.store.id()
		q.AssignmentID = assignment.ID
		cp := *q
		f.store.questions[cp.ID] = &cp
	}
	cp := *assignment
	cp.Questions = nil
	f.store.assignments[cp.ID] = &cp
	return nil
}

func (f *fakeAssignmentRepo) FindByID(id uint) (*model.Assignment, error) {
	a, ok := f.store.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	cp.Questions = nil
	return &cp, nil
}

func (f *fakeAssignmentRepo) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	a, ok := f.store.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	cp.Questions = f.store.questionsOf(id)
	return &cp, nil
}

func (f *fakeAssignmentRepo) FindAllWithQuestionCount(courseID *uint) ([]repository.AssignmentWithQuestionCount, error) {
	var results []repository.AssignmentWithQuestionCount
	for id, a := range f.store.assignments {
		if courseID != nil && a.CourseID != *courseID {
			continue
		}
		cp := *a
		cp.Questions = nil
		results = append(results, repository.AssignmentWithQuestionCount{
			Assignment:    cp,
			QuestionCount: len(f.store.questionsOf(id)),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results, nil
}

func (f *fakeAssignmentRepo) Update(assignment *model.Assignment) error {
	cp := *assignment
	cp.Questions = nil
	f.store.assignments[cp.ID] = &cp
	return nil
}

func (f *fakeAssignmentRepo) DeleteCascade(id uint) error {
	f.store.deleteAssignmentTree(id)
	return nil
}

type fakeQuestionRepo struct{ store *memStore }

var _ repository.QuestionRepository = (*fakeQuestionRepo)(nil)

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := f.store.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionRepo) FindByAssignmentID(assignmentID uint) ([]model.Question, error) {
	return f.store.questionsOf(assignmentID), nil
}

type fakeSubmissionRepo struct{ store *memStore }

var _ repository.SubmissionRepository = (*fakeSubmissionRepo)(nil)

func (f *fakeSubmissionRepo) Create(submission *model.Submission) error {
	for _, s := range f.store.submissions {
		if s.StudentID == submission.StudentID && s.AssignmentID == submission.AssignmentID {
			return gorm.ErrDuplicatedKey
		}
	}
	submission.ID = f.store.id()
	submission.CreatedAt = time.Now()
	for i := range submission.Answers {
		a := &submission.Answers[i]
		a.ID = f.store.id()
		a.SubmissionID = submission.ID
		cp := *a
		f.store.answers[cp.ID] = &cp
	}
	cp := *submission
	cp.Answers = nil
	f.store.submissions[cp.ID] = &cp
	return nil
}

func (f *fakeSubmissionRepo) FindByID(id uint) (*model.Submission, error) {
	s, ok := f.store.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissionRepo) FindByIDWithDetails(id uint) (*model.Submission, error) {
	s, ok := f.store.submissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	for _, a := range f.store.answers {
		if a.SubmissionID != id {
			continue
		}
		acp := *a
		if q, ok := f.store.questions[acp.QuestionID]; ok {
			acp.Question = *q
		}
		cp.Answers = append(cp.Answers, acp)
	}
	sort.Slice(cp.Answers, func(i, j int) bool { return cp.Answers[i].Question.Order < cp.Answers[j].Question.Order })
	if g, ok := f.store.grades[id]; ok {
		gcp := *g
		cp.Grade = &gcp
	}
	return &cp, nil
}

func (f *fakeSubmissionRepo) FindByStudentAndAssignment(studentID, assignmentID uint) (*model.Submission, error) {
	for _, s := range f.store.submissions {
		if s.StudentID == studentID && s.AssignmentID == assignmentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) FindAllByAssignment(assignmentID uint) ([]model.Submission, error) {
	var subs []model.Submission
	for _, s := range f.store.submissions {
		if s.AssignmentID == assignmentID {
			subs = append(subs, *s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (f *fakeSubmissionRepo) FindAllByStudent(studentID uint) ([]model.Submission, error) {
	var subs []model.Submission
	for _, s := range f.store.submissions {
		if s.StudentID == studentID {
			subs = append(subs, *s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmittedAt.After(subs[j].SubmittedAt) })
	return subs, nil
}

func (f *fakeSubmissionRepo) DeleteCascade(id uint) error {
	f.store.deleteSubmissionTree(id)
	return nil
}

func (f *fakeSubmissionRepo) Grade(submission *model.Submission, grade *model.Grade) error {
	gcp := *grade
	f.store.grades[gcp.SubmissionID] = &gcp
	if s, ok := f.store.submissions[submission.ID]; ok {
		s.Status = model.SubmissionStatusGraded
	}
	return nil
}

type fakeAnswerRepo struct{ store *memStore }

var _ repository.AnswerRepository = (*fakeAnswerRepo)(nil)

func (f *fakeAnswerRepo) FindBySubmissionID(submissionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	for _, a := range f.store.answers {
		if a.SubmissionID == submissionID {
			answers = append(answers, *a)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].ID < answers[j].ID })
	return answers, nil
}

func (f *fakeAnswerRepo) UpdateAll(answers []model.Answer) error {
	for i := range answers {
		cp := answers[i]
		f.store.answers[cp.ID] = &cp
	}
	return nil
}
