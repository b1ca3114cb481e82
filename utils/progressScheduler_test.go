package utils

import (
	"lms/models"
	"lms/services"
	"lms/testutils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeProgressScheduler(t *testing.T) {
	db := testutils.SetupTestDB(t)

	_, err := InitializeProgressScheduler(db, "every tuesday-ish")
	assert.Error(t, err)

	c, err := InitializeProgressScheduler(db, "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	select {
	case <-c.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestReconcileProgress(t *testing.T) {
	db := testutils.SetupTestDB(t)
	instructor := testutils.CreateTestUser(t, db, models.RoleInstructor)
	student := testutils.CreateTestUser(t, db, models.RoleStudent)
	course := testutils.CreateTestCourse(t, db, instructor, testutils.WithLectures(2))
	entry := testutils.Enroll(t, db, student, course)

	_, err := services.MarkLectureCompleted(db, student.ID, course.ID, course.Lectures[0].ID)
	require.NoError(t, err)
	// simulate a stale stored value
	require.NoError(t, db.Model(&models.EnrolledCourse{}).Where("id = ?", entry.ID).Update("progress", 0).Error)

	ReconcileProgress(db)

	var stored models.EnrolledCourse
	require.NoError(t, db.First(&stored, entry.ID).Error)
	assert.Equal(t, 50, stored.Progress)
}
