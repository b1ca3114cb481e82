package services

import (
	"errors"
	"fmt"
	"lms/models"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressResult is returned after a lecture completion
type ProgressResult struct {
	Progress          int    `json:"progress"`
	CompletedLectures []uint `json:"completedLectures"`
}

// QuizResult is returned after a quiz submission
type QuizResult struct {
	Score          int  `json:"score"`
	TotalQuestions int  `json:"totalQuestions"`
	Percentage     int  `json:"percentage"`
	BestScore      int  `json:"bestScore"`
	Attempts       int  `json:"attempts"`
	Improved       bool `json:"improved"`
}

// EnrollmentDetail is one enrolled course together with its current content
type EnrollmentDetail struct {
	Course            models.Course      `json:"course"`
	Progress          int                `json:"progress"`
	CompletedLectures []uint             `json:"completedLectures"`
	LastAccessed      time.Time          `json:"lastAccessed"`
	DateOfPurchase    time.Time          `json:"dateOfPurchase"`
	QuizScores        []models.QuizScore `json:"quizScores"`
}

// StudentRoster lists one student's enrollments in an instructor's courses
type StudentRoster struct {
	UserID    uint                    `json:"userId"`
	UserName  string                  `json:"userName"`
	UserEmail string                  `json:"userEmail"`
	Courses   []models.EnrolledCourse `json:"courses"`
}

func enrollmentOf(db *gorm.DB, userID uint) *gorm.DB {
	return db.Model(&models.Enrollment{}).Select("id").Where("user_id = ?", userID)
}

// lockEnrolledCourse loads the user's entry for the course under a row lock
func lockEnrolledCourse(tx *gorm.DB, userID, courseID uint) (*models.EnrolledCourse, error) {
	var ec models.EnrolledCourse
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("enrollment_id = (?) AND course_id = ?", enrollmentOf(tx, userID), courseID).
		First(&ec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	return &ec, nil
}

func lectureIDs(db *gorm.DB, courseID uint) ([]uint, error) {
	var ids []uint
	if err := db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Order("position, id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load lectures: %w", err)
	}
	return ids, nil
}

func completedIDs(db *gorm.DB, enrolledCourseID uint) ([]uint, error) {
	var ids []uint
	if err := db.Model(&models.LectureCompletion{}).Where("enrolled_course_id = ?", enrolledCourseID).Order("id").Pluck("lecture_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("load completions: %w", err)
	}
	return ids, nil
}

func courseExists(db *gorm.DB, courseID uint) error {
	var count int64
	if err := db.Model(&models.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// MarkLectureCompleted adds the lecture to the user's completed set for the
// course and re-persists progress. Completing a lecture twice is a no-op.
func MarkLectureCompleted(db *gorm.DB, userID, courseID, lectureID uint) (*ProgressResult, error) {
	var result *ProgressResult

	err := db.Transaction(func(tx *gorm.DB) error {
		ec, err := lockEnrolledCourse(tx, userID, courseID)
		if err != nil {
			return err
		}
		if err := courseExists(tx, courseID); err != nil {
			return err
		}

		lectures, err := lectureIDs(tx, courseID)
		if err != nil {
			return err
		}
		if !containsID(lectures, lectureID) {
			return ErrLectureNotFound
		}

		now := time.Now()
		completion := models.LectureCompletion{EnrolledCourseID: ec.ID, LectureID: lectureID, CompletedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
			return fmt.Errorf("record completion: %w", err)
		}

		completed, err := completedIDs(tx, ec.ID)
		if err != nil {
			return err
		}
		progress := Progress(completed, lectures)

		if err := tx.Model(&models.EnrolledCourse{}).Where("id = ?", ec.ID).
			Updates(map[string]interface{}{"progress": progress, "last_accessed": now}).Error; err != nil {
			return fmt.Errorf("update progress: %w", err)
		}

		result = &ProgressResult{Progress: progress, CompletedLectures: completed}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitQuizAnswers scores the answers against the lecture's question set and
// keeps the best score. Every submission counts as an attempt.
func SubmitQuizAnswers(db *gorm.DB, userID, courseID, lectureID uint, answers []QuizAnswer) (*QuizResult, error) {
	var result *QuizResult

	err := db.Transaction(func(tx *gorm.DB) error {
		ec, err := lockEnrolledCourse(tx, userID, courseID)
		if err != nil {
			return err
		}

		var lecture models.Lecture
		err = tx.Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
			Where("id = ? AND course_id = ?", lectureID, courseID).First(&lecture).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLectureNotFound
		}
		if err != nil {
			return fmt.Errorf("load lecture: %w", err)
		}
		if !lecture.HasQuiz() {
			return ErrNoQuiz
		}

		total := len(lecture.Questions)
		score := ScoreQuiz(lecture.Questions, answers)
		now := time.Now()

		var existing models.QuizScore
		err = tx.Where("enrolled_course_id = ? AND lecture_id = ?", ec.ID, lectureID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.QuizScore{
				EnrolledCourseID: ec.ID,
				LectureID:        lectureID,
				Score:            score,
				TotalQuestions:   total,
				Attempts:         1,
				DateTaken:        now,
			}
			if err := tx.Create(&existing).Error; err != nil {
				return fmt.Errorf("record quiz score: %w", err)
			}
			result = &QuizResult{BestScore: score, Attempts: 1, Improved: true}
		case err != nil:
			return fmt.Errorf("load quiz score: %w", err)
		default:
			updates := map[string]interface{}{"attempts": gorm.Expr("attempts + 1")}
			improved := score > existing.Score
			best := existing.Score
			if improved {
				updates["score"] = score
				updates["total_questions"] = total
				updates["date_taken"] = now
				best = score
			}
			if err := tx.Model(&models.QuizScore{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("update quiz score: %w", err)
			}
			result = &QuizResult{BestScore: best, Attempts: existing.Attempts + 1, Improved: improved}
		}

		if err := tx.Model(&models.EnrolledCourse{}).Where("id = ?", ec.ID).Update("last_accessed", now).Error; err != nil {
			return fmt.Errorf("update last accessed: %w", err)
		}

		result.Score = score
		result.TotalQuestions = total
		result.Percentage = Percentage(score, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GrantEnrollment enrolls the user in the course. It reports whether a new
// entry was inserted; granting an existing enrollment again changes nothing.
// Call it inside the transaction that records the payment.
func GrantEnrollment(tx *gorm.DB, user *models.User, course *models.Course) (bool, error) {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Enrollment{UserID: user.ID}).Error; err != nil {
		return false, fmt.Errorf("create enrollment: %w", err)
	}
	var enrollment models.Enrollment
	if err := tx.Where("user_id = ?", user.ID).First(&enrollment).Error; err != nil {
		return false, fmt.Errorf("load enrollment: %w", err)
	}

	now := time.Now()
	entry := models.EnrolledCourse{
		EnrollmentID:   enrollment.ID,
		CourseID:       course.ID,
		Title:          course.Title,
		InstructorID:   course.InstructorID,
		InstructorName: course.InstructorName,
		CourseImage:    course.Image,
		DateOfPurchase: now,
		Progress:       0,
		LastAccessed:   now,
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return false, fmt.Errorf("create enrolled course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if err := tx.Model(&models.Course{}).Where("id = ?", course.ID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error; err != nil {
		return false, fmt.Errorf("increment enrollment count: %w", err)
	}
	return true, nil
}

// IsEnrolled reports whether the user holds an entry for the course
func IsEnrolled(db *gorm.DB, userID, courseID uint) (bool, error) {
	var count int64
	err := db.Model(&models.EnrolledCourse{}).
		Where("enrollment_id = (?) AND course_id = ?", enrollmentOf(db, userID), courseID).
		Count(&count).Error
	return count > 0, err
}

// ListEnrollments returns every course the user is enrolled in, with progress
// recomputed against the current lecture sets
func ListEnrollments(db *gorm.DB, userID uint) ([]models.EnrolledCourse, error) {
	var entries []models.EnrolledCourse
	err := db.Preload("CompletedLectures").Preload("QuizScores").
		Where("enrollment_id = (?)", enrollmentOf(db, userID)).
		Order("date_of_purchase desc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	if len(entries) == 0 {
		return []models.EnrolledCourse{}, nil
	}

	courseIDs := make([]uint, len(entries))
	for i, e := range entries {
		courseIDs[i] = e.CourseID
	}
	byCourse, err := lectureIDsByCourse(db, courseIDs)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].FillCompletedIDs()
		entries[i].Progress = Progress(entries[i].CompletedLectureIDs, byCourse[entries[i].CourseID])
	}
	return entries, nil
}

func lectureIDsByCourse(db *gorm.DB, courseIDs []uint) (map[uint][]uint, error) {
	var rows []struct {
		ID       uint
		CourseID uint
	}
	if err := db.Model(&models.Lecture{}).Select("id, course_id").Where("course_id IN ?", courseIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load lectures: %w", err)
	}
	out := make(map[uint][]uint, len(courseIDs))
	for _, r := range rows {
		out[r.CourseID] = append(out[r.CourseID], r.ID)
	}
	return out, nil
}

// EnrollmentDetails returns the user's entry for the course with the full course content.
// Correct answers are stripped from the returned course.
func EnrollmentDetails(db *gorm.DB, userID, courseID uint) (*EnrollmentDetail, error) {
	var ec models.EnrolledCourse
	err := db.Preload("CompletedLectures").Preload("QuizScores").
		Where("enrollment_id = (?) AND course_id = ?", enrollmentOf(db, userID), courseID).
		First(&ec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}

	course, err := LoadCourse(db, courseID)
	if err != nil {
		return nil, err
	}
	course.HideAnswers()

	ec.FillCompletedIDs()
	return &EnrollmentDetail{
		Course:            *course,
		Progress:          Progress(ec.CompletedLectureIDs, course.LectureIDs()),
		CompletedLectures: ec.CompletedLectureIDs,
		LastAccessed:      ec.LastAccessed,
		DateOfPurchase:    ec.DateOfPurchase,
		QuizScores:        ec.QuizScores,
	}, nil
}

// RecomputeCourseProgress re-persists the stored progress of every enrollment in the course
func RecomputeCourseProgress(db *gorm.DB, courseID uint) (int, error) {
	lectures, err := lectureIDs(db, courseID)
	if err != nil {
		return 0, err
	}

	var entries []models.EnrolledCourse
	if err := db.Preload("CompletedLectures").Where("course_id = ?", courseID).Find(&entries).Error; err != nil {
		return 0, fmt.Errorf("load enrollments: %w", err)
	}

	changed := 0
	for i := range entries {
		entries[i].FillCompletedIDs()
		progress := Progress(entries[i].CompletedLectureIDs, lectures)
		if progress == entries[i].Progress {
			continue
		}
		if err := db.Model(&models.EnrolledCourse{}).Where("id = ?", entries[i].ID).Update("progress", progress).Error; err != nil {
			return changed, fmt.Errorf("update progress: %w", err)
		}
		changed++
	}
	return changed, nil
}

// ReconcileAllProgress runs RecomputeCourseProgress for every course with enrollments
func ReconcileAllProgress(db *gorm.DB) (int, error) {
	var courseIDs []uint
	if err := db.Model(&models.EnrolledCourse{}).Distinct("course_id").Pluck("course_id", &courseIDs).Error; err != nil {
		return 0, fmt.Errorf("load enrolled courses: %w", err)
	}

	total := 0
	for _, id := range courseIDs {
		n, err := RecomputeCourseProgress(db, id)
		total += n
		if err != nil {
			return total, fmt.Errorf("course %d: %w", id, err)
		}
	}
	return total, nil
}

// InstructorStudents groups the enrollments in the instructor's courses by student
func InstructorStudents(db *gorm.DB, instructorID uint) ([]StudentRoster, error) {
	var entries []models.EnrolledCourse
	err := db.Where("course_id IN (?)", db.Model(&models.Course{}).Select("id").Where("instructor_id = ?", instructorID)).
		Order("enrollment_id, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	if len(entries) == 0 {
		return []StudentRoster{}, nil
	}

	enrollmentIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		enrollmentIDs = append(enrollmentIDs, e.EnrollmentID)
	}
	var enrollments []models.Enrollment
	if err := db.Where("id IN ?", enrollmentIDs).Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	owner := make(map[uint]uint, len(enrollments))
	for _, e := range enrollments {
		owner[e.ID] = e.UserID
	}

	userIDs := make([]uint, 0)
	byUser := make(map[uint]*StudentRoster)
	for _, e := range entries {
		uid := owner[e.EnrollmentID]
		roster, ok := byUser[uid]
		if !ok {
			roster = &StudentRoster{UserID: uid}
			byUser[uid] = roster
			userIDs = append(userIDs, uid)
		}
		roster.Courses = append(roster.Courses, e)
	}

	var users []models.User
	if err := db.Select("id, name, email").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		byUser[u.ID].UserName = u.Name
		byUser[u.ID].UserEmail = u.Email
	}

	out := make([]StudentRoster, 0, len(userIDs))
	for _, id := range userIDs {
		out = append(out, *byUser[id])
	}
	return out, nil
}
