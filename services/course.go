package services

import (
	"database/sql"
	"errors"
	"fmt"
	"lms/models"
	"regexp"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func orderedContent(db *gorm.DB) *gorm.DB {
	return db.Preload("Lectures", func(db *gorm.DB) *gorm.DB {
		return db.Order("position, id")
	}).Preload("Lectures.Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position, id")
	})
}

// LoadCourse fetches a course by id with its lectures and questions in order
func LoadCourse(db *gorm.DB, courseID uint) (*models.Course, error) {
	var course models.Course
	err := orderedContent(db).First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	return &course, nil
}

// FindCourse looks a course up by numeric id or by slug
func FindCourse(db *gorm.DB, idOrSlug string) (*models.Course, error) {
	if id, err := strconv.ParseUint(idOrSlug, 10, 64); err == nil && id > 0 {
		return LoadCourse(db, uint(id))
	}

	var course models.Course
	err := orderedContent(db).Where("slug = ?", idOrSlug).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	return &course, nil
}

// EnsureUniqueSlug returns base, or base with the next free numeric suffix when
// base is taken by a course other than excludeID
func EnsureUniqueSlug(db *gorm.DB, base string, excludeID uint) (string, error) {
	var taken []string
	if err := db.Model(&models.Course{}).
		Where("(slug = ? OR slug LIKE ?) AND id <> ?", base, base+"-%", excludeID).
		Pluck("slug", &taken).Error; err != nil {
		return "", err
	}

	baseTaken := false
	maxN := 1
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `-(\d+)$`)
	for _, s := range taken {
		if s == base {
			baseTaken = true
			continue
		}
		if m := re.FindStringSubmatch(s); len(m) == 2 {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxN {
				maxN = n
			}
		}
	}
	if !baseTaken {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, maxN+1), nil
}

// NewSlug derives a unique slug from a course title
func NewSlug(db *gorm.DB, title string, excludeID uint) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}
	return EnsureUniqueSlug(db, base, excludeID)
}

// CreateCourse stores a new course with its curriculum and fills in slug and totals
func CreateCourse(db *gorm.DB, course *models.Course) error {
	return db.Transaction(func(tx *gorm.DB) error {
		s, err := NewSlug(tx, course.Title, 0)
		if err != nil {
			return fmt.Errorf("generate slug: %w", err)
		}
		course.Slug = s

		now := time.Now()
		course.LastUpdated = now
		if course.IsPublished {
			course.PublishedDate = &now
		}
		for i := range course.Lectures {
			course.Lectures[i].Position = i
			for j := range course.Lectures[i].Questions {
				course.Lectures[i].Questions[j].Position = j
			}
		}
		course.TotalLectures, course.TotalDuration = totals(course.Lectures)

		if err := tx.Create(course).Error; err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		return nil
	})
}

// SaveCourse persists edited course fields. When the title changed the slug
// is derived again. Lectures are never written through this path.
func SaveCourse(db *gorm.DB, course *models.Course, titleChanged bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if titleChanged {
			s, err := NewSlug(tx, course.Title, course.ID)
			if err != nil {
				return fmt.Errorf("generate slug: %w", err)
			}
			course.Slug = s
		}
		course.LastUpdated = time.Now()
		if err := tx.Omit("Lectures").Save(course).Error; err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		return nil
	})
}

// TogglePublish flips the published flag, stamping publishedDate on first publication
func TogglePublish(db *gorm.DB, course *models.Course) error {
	course.IsPublished = !course.IsPublished
	updates := map[string]interface{}{"is_published": course.IsPublished}
	if course.IsPublished && course.PublishedDate == nil {
		now := time.Now()
		course.PublishedDate = &now
		updates["published_date"] = now
	}
	return db.Model(&models.Course{}).Where("id = ?", course.ID).Updates(updates).Error
}

func totals(lectures []models.Lecture) (int, int) {
	duration := 0
	for _, l := range lectures {
		duration += l.Duration
	}
	return len(lectures), duration
}

// RefreshCourseTotals recomputes totalLectures and totalDuration from the lecture rows
func RefreshCourseTotals(tx *gorm.DB, courseID uint) error {
	var agg struct {
		Count    int
		Duration int
	}
	if err := tx.Model(&models.Lecture{}).
		Select("COUNT(*) AS count, COALESCE(SUM(duration), 0) AS duration").
		Where("course_id = ?", courseID).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("sum lectures: %w", err)
	}
	return tx.Model(&models.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"total_lectures": agg.Count,
		"total_duration": agg.Duration,
		"last_updated":   time.Now(),
	}).Error
}

// AddLecture appends a lecture to the end of the course curriculum
func AddLecture(db *gorm.DB, courseID uint, lecture *models.Lecture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := courseExists(tx, courseID); err != nil {
			return err
		}

		var maxPos sql.NullInt64
		if err := tx.Model(&models.Lecture{}).Where("course_id = ?", courseID).
			Select("MAX(position)").Row().Scan(&maxPos); err != nil {
			return fmt.Errorf("load positions: %w", err)
		}
		lecture.CourseID = courseID
		lecture.Position = 0
		if maxPos.Valid {
			lecture.Position = int(maxPos.Int64) + 1
		}
		for j := range lecture.Questions {
			lecture.Questions[j].Position = j
		}

		if err := tx.Create(lecture).Error; err != nil {
			return fmt.Errorf("create lecture: %w", err)
		}
		return RefreshCourseTotals(tx, courseID)
	})
}

// LectureUpdate carries the optional changes to a lecture
type LectureUpdate struct {
	Title       *string
	Description *string
	VideoURL    *string
	Duration    *int
	FreePreview *bool
	Position    *int
	Questions   *[]models.Question
}

func loadLecture(tx *gorm.DB, courseID, lectureID uint) (*models.Lecture, error) {
	var lecture models.Lecture
	err := tx.Where("id = ? AND course_id = ?", lectureID, courseID).First(&lecture).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLectureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load lecture: %w", err)
	}
	return &lecture, nil
}

// UpdateLecture applies the update to the lecture addressed by (courseID, lectureID).
// A non-nil Questions replaces the whole question set.
func UpdateLecture(db *gorm.DB, courseID, lectureID uint, upd LectureUpdate) (*models.Lecture, error) {
	var lecture *models.Lecture
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		lecture, err = loadLecture(tx, courseID, lectureID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if upd.Title != nil {
			updates["title"] = *upd.Title
		}
		if upd.Description != nil {
			updates["description"] = *upd.Description
		}
		if upd.VideoURL != nil {
			updates["video_url"] = *upd.VideoURL
		}
		if upd.Duration != nil {
			updates["duration"] = *upd.Duration
		}
		if upd.FreePreview != nil {
			updates["free_preview"] = *upd.FreePreview
		}
		if upd.Position != nil {
			updates["position"] = *upd.Position
		}
		if len(updates) > 0 {
			if err := tx.Model(lecture).Updates(updates).Error; err != nil {
				return fmt.Errorf("update lecture: %w", err)
			}
		}

		if upd.Questions != nil {
			if err := tx.Where("lecture_id = ?", lectureID).Delete(&models.Question{}).Error; err != nil {
				return fmt.Errorf("clear questions: %w", err)
			}
			questions := *upd.Questions
			for j := range questions {
				questions[j].ID = 0
				questions[j].LectureID = lectureID
				questions[j].Position = j
			}
			if len(questions) > 0 {
				if err := tx.Create(&questions).Error; err != nil {
					return fmt.Errorf("create questions: %w", err)
				}
			}
		}

		if err := RefreshCourseTotals(tx, courseID); err != nil {
			return err
		}
		return tx.Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
			First(lecture, lectureID).Error
	})
	if err != nil {
		return nil, err
	}
	return lecture, nil
}

// SetLectureVideo stores an uploaded video on the lecture and returns the
// object id of the video it replaced
func SetLectureVideo(db *gorm.DB, courseID, lectureID uint, url, objectID string) (string, error) {
	lecture, err := loadLecture(db, courseID, lectureID)
	if err != nil {
		return "", err
	}
	previous := lecture.VideoPublicID
	if err := db.Model(lecture).Updates(map[string]interface{}{
		"video_url":       url,
		"video_public_id": objectID,
	}).Error; err != nil {
		return "", fmt.Errorf("update lecture video: %w", err)
	}
	return previous, nil
}

// RemoveLecture deletes a lecture with its questions, completions and quiz
// scores, then brings the course totals and every stored progress up to date.
// It returns the removed lecture so callers can clean up its media.
func RemoveLecture(db *gorm.DB, courseID, lectureID uint) (*models.Lecture, error) {
	var lecture *models.Lecture
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		lecture, err = loadLecture(tx, courseID, lectureID)
		if err != nil {
			return err
		}

		enrolled := tx.Model(&models.EnrolledCourse{}).Select("id").Where("course_id = ?", courseID)
		if err := tx.Where("lecture_id = ? AND enrolled_course_id IN (?)", lectureID, enrolled).
			Delete(&models.LectureCompletion{}).Error; err != nil {
			return fmt.Errorf("delete completions: %w", err)
		}
		if err := tx.Where("lecture_id = ? AND enrolled_course_id IN (?)", lectureID, enrolled).
			Delete(&models.QuizScore{}).Error; err != nil {
			return fmt.Errorf("delete quiz scores: %w", err)
		}
		if err := tx.Where("lecture_id = ?", lectureID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if err := tx.Delete(&models.Lecture{}, lectureID).Error; err != nil {
			return fmt.Errorf("delete lecture: %w", err)
		}
		if err := RefreshCourseTotals(tx, courseID); err != nil {
			return err
		}
		_, err = RecomputeCourseProgress(tx, courseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lecture, nil
}

// DeleteCourse removes a course with its lectures, questions and reviews.
// Enrollment entries and orders for the course are kept as history.
func DeleteCourse(db *gorm.DB, courseID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		lectures := tx.Model(&models.Lecture{}).Select("id").Where("course_id = ?", courseID)
		if err := tx.Where("lecture_id IN (?)", lectures).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions: %w", err)
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Lecture{}).Error; err != nil {
			return fmt.Errorf("delete lectures: %w", err)
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		res := tx.Delete(&models.Course{}, courseID)
		if res.Error != nil {
			return fmt.Errorf("delete course: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

// RefreshRating recomputes the course's ratingAverage and ratingCount from its reviews
func RefreshRating(tx *gorm.DB, courseID uint) error {
	var agg struct {
		Count   int
		Average float64
	}
	if err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("course_id = ?", courseID).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	return tx.Model(&models.Course{}).Where("id = ?", courseID).Updates(map[string]interface{}{
		"rating_average": float64(int(agg.Average*10+0.5)) / 10,
		"rating_count":   agg.Count,
	}).Error
}

// AddReview records the user's review of a course they are enrolled in
func AddReview(db *gorm.DB, user *models.User, courseID uint, rating int, text string) (*models.Review, error) {
	review := &models.Review{
		UserID:   user.ID,
		CourseID: courseID,
		UserName: user.Name,
		Rating:   rating,
		Review:   text,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := courseExists(tx, courseID); err != nil {
			return err
		}
		enrolled, err := IsEnrolled(tx, user.ID, courseID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if !enrolled {
			return ErrNotEnrolled
		}

		var count int64
		if err := tx.Model(&models.Review{}).Where("user_id = ? AND course_id = ?", user.ID, courseID).Count(&count).Error; err != nil {
			return fmt.Errorf("check review: %w", err)
		}
		if count > 0 {
			return ErrReviewExists
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("create review: %w", err)
		}
		return RefreshRating(tx, courseID)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
