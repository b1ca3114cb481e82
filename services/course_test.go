package services

import (
	"lms/models"
	"lms/testutils"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUniqueSlug(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)

	s, err := NewSlug(db, "Go for Beginners!", 0)
	require.NoError(t, err)
	assert.Equal(t, "go-for-beginners", s)

	course := testutils.CreateTestCourse(t, db, instructor)
	require.NoError(t, db.Model(course).Update("slug", "go-for-beginners").Error)

	s, err = NewSlug(db, "Go for Beginners", 0)
	require.NoError(t, err)
	assert.Equal(t, "go-for-beginners-2", s)

	// the course itself may keep its slug
	s, err = NewSlug(db, "Go for Beginners", course.ID)
	require.NoError(t, err)
	assert.Equal(t, "go-for-beginners", s)

	second := testutils.CreateTestCourse(t, db, instructor)
	require.NoError(t, db.Model(second).Update("slug", "go-for-beginners-7").Error)
	s, err = EnsureUniqueSlug(db, "go-for-beginners", 0)
	require.NoError(t, err)
	assert.Equal(t, "go-for-beginners-8", s)

	s, err = NewSlug(db, "???", 0)
	require.NoError(t, err)
	assert.Equal(t, "course", s)
}

func TestCreateCourse_FillsDerivedFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)

	course := &models.Course{
		InstructorID:   instructor.ID,
		InstructorName: instructor.Name,
		Title:          "Distributed Systems",
		IsPublished:    true,
		Lectures: []models.Lecture{
			{Title: "Intro", Duration: 12},
			{Title: "Consensus", Duration: 30, Questions: []models.Question{
				{Question: "Raft leader?", Options: []string{"one", "many"}, CorrectAnswer: "one"},
			}},
		},
	}
	require.NoError(t, CreateCourse(db, course))

	loaded, err := FindCourse(db, "distributed-systems")
	require.NoError(t, err)
	assert.Equal(t, course.ID, loaded.ID)
	assert.Equal(t, 2, loaded.TotalLectures)
	assert.Equal(t, 42, loaded.TotalDuration)
	assert.NotNil(t, loaded.PublishedDate)
	require.Len(t, loaded.Lectures, 2)
	assert.Equal(t, "Intro", loaded.Lectures[0].Title)
	assert.Equal(t, 1, loaded.Lectures[1].Position)
	require.Len(t, loaded.Lectures[1].Questions, 1)

	byID, err := FindCourse(db, strconv.FormatUint(uint64(course.ID), 10))
	require.NoError(t, err)
	assert.Equal(t, course.ID, byID.ID)

	_, err = FindCourse(db, "missing-slug")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSaveCourse_RegeneratesSlugOnTitleChange(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := &models.Course{InstructorID: instructor.ID, InstructorName: instructor.Name, Title: "Old Title"}
	require.NoError(t, CreateCourse(db, course))

	course.Title = "New Title"
	require.NoError(t, SaveCourse(db, course, true))

	loaded, err := LoadCourse(db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-title", loaded.Slug)
	assert.Equal(t, "New Title", loaded.Title)
}

func TestTogglePublish(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.Unpublished())

	require.NoError(t, TogglePublish(db, course))
	loaded, err := LoadCourse(db, course.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsPublished)
	require.NotNil(t, loaded.PublishedDate)

	require.NoError(t, TogglePublish(db, loaded))
	loaded, err = LoadCourse(db, course.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsPublished)
}

func TestAddAndUpdateLecture(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(2))

	lecture := &models.Lecture{Title: "Third", Duration: 5}
	require.NoError(t, AddLecture(db, course.ID, lecture))
	assert.Equal(t, 2, lecture.Position)

	title := "Third, revised"
	questions := []models.Question{
		{Question: "q", Options: []string{"x", "y"}, CorrectAnswer: "y"},
	}
	updated, err := UpdateLecture(db, course.ID, lecture.ID, LectureUpdate{Title: &title, Questions: &questions})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	require.Len(t, updated.Questions, 1)
	assert.True(t, updated.HasQuiz())

	loaded, err := LoadCourse(db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.TotalLectures)
	assert.Equal(t, 25, loaded.TotalDuration)

	_, err = UpdateLecture(db, course.ID, 9999, LectureUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrLectureNotFound)
	assert.ErrorIs(t, AddLecture(db, 9999, &models.Lecture{Title: "x"}), ErrCourseNotFound)
}

func TestRemoveLecture_RecomputesProgress(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(4))
	entry := testutils.Enroll(t, db, student, course)

	_, err := MarkLectureCompleted(db, student.ID, course.ID, course.Lectures[0].ID)
	require.NoError(t, err)
	_, err = MarkLectureCompleted(db, student.ID, course.ID, course.Lectures[1].ID)
	require.NoError(t, err)

	removed, err := RemoveLecture(db, course.ID, course.Lectures[3].ID)
	require.NoError(t, err)
	assert.Equal(t, course.Lectures[3].ID, removed.ID)

	var stored models.EnrolledCourse
	require.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, 66, stored.Progress)

	_, err = RemoveLecture(db, course.ID, course.Lectures[0].ID)
	require.NoError(t, err)
	require.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, 50, stored.Progress)

	var completions int64
	require.NoError(t, db.Model(&models.LectureCompletion{}).Where("enrolled_course_id = ?", entry.ID).Count(&completions).Error)
	assert.EqualValues(t, 1, completions)

	loaded, err := LoadCourse(db, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TotalLectures)

	_, err = RemoveLecture(db, course.ID, course.Lectures[0].ID)
	assert.ErrorIs(t, err, ErrLectureNotFound)
}

func TestAddReview(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	alice := testutils.CreateTestUser(t, db, models.RoleStudent)
	bob := testutils.CreateTestUser(t, db, models.RoleStudent)
	outsider := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, instructor)
	testutils.Enroll(t, db, alice, course)
	testutils.Enroll(t, db, bob, course)

	_, err := AddReview(db, outsider, course.ID, 5, "great")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	review, err := AddReview(db, alice, course.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, alice.Name, review.UserName)

	_, err = AddReview(db, alice, course.ID, 1, "changed my mind")
	assert.ErrorIs(t, err, ErrReviewExists)

	_, err = AddReview(db, bob, course.ID, 4, "good")
	require.NoError(t, err)

	var stored models.Course
	require.NoError(t, db.First(&stored, course.ID).Error)
	assert.Equal(t, 2, stored.RatingCount)
	assert.InDelta(t, 4.5, stored.RatingAverage, 0.001)

	_, err = AddReview(db, alice, 9999, 5, "x")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteCourse_KeepsHistory(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(1), testutils.WithQuiz(2))
	testutils.Enroll(t, db, student, course)
	_, err := AddReview(db, student, course.ID, 3, "ok")
	require.NoError(t, err)

	require.NoError(t, DeleteCourse(db, course.ID))

	var lectures, questions, reviews, entries int64
	db.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&lectures)
	db.Model(&models.Question{}).Count(&questions)
	db.Model(&models.Review{}).Where("course_id = ?", course.ID).Count(&reviews)
	db.Model(&models.EnrolledCourse{}).Where("course_id = ?", course.ID).Count(&entries)
	assert.Zero(t, lectures)
	assert.Zero(t, questions)
	assert.Zero(t, reviews)
	assert.EqualValues(t, 1, entries)

	assert.ErrorIs(t, DeleteCourse(db, course.ID), ErrCourseNotFound)
}
