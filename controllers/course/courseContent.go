package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services"
	"lms/storage"
	"lms/validators"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

func toQuestions(reqs []courseValidator.QuestionRequest) []models.Question {
	questions := make([]models.Question, 0, len(reqs))
	for _, q := range reqs {
		questions = append(questions, models.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return questions
}

func toLecture(r courseValidator.LectureRequest) models.Lecture {
	return models.Lecture{
		Title:       r.Title,
		Description: r.Description,
		VideoURL:    r.VideoURL,
		Duration:    r.Duration,
		FreePreview: r.FreePreview,
		Questions:   toQuestions(r.Questions),
	}
}

func toLectures(reqs []courseValidator.LectureRequest) []models.Lecture {
	lectures := make([]models.Lecture, 0, len(reqs))
	for _, r := range reqs {
		lectures = append(lectures, toLecture(r))
	}
	return lectures
}

// AddLecture appends a lecture to the course curriculum
func AddLecture(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}
	reqData := c.Locals("validatedLecture").(*courseValidator.LectureRequest)

	lecture := toLecture(*reqData)
	if err := services.AddLecture(database.Database.Db, course.ID, &lecture); err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture added successfully", lecture)
}

func UpdateLecture(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}
	lectureID, valid := validators.ParamID(c, "lectureId")
	if !valid {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
	}
	reqData := c.Locals("validatedLecture").(*courseValidator.UpdateLectureRequest)

	upd := services.LectureUpdate{
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		Duration:    reqData.Duration,
		FreePreview: reqData.FreePreview,
		Position:    reqData.Position,
	}
	if reqData.Questions != nil {
		questions := toQuestions(*reqData.Questions)
		upd.Questions = &questions
	}

	lecture, err := services.UpdateLecture(database.Database.Db, course.ID, lectureID, upd)
	if err != nil {
		return middleware.ServiceError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully", lecture)
}

func DeleteLecture(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}
	lectureID, valid := validators.ParamID(c, "lectureId")
	if !valid {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
	}

	lecture, err := services.RemoveLecture(database.Database.Db, course.ID, lectureID)
	if err != nil {
		return middleware.ServiceError(c, err)
	}
	removeMedia(lecture.VideoPublicID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully", nil)
}

// UploadLectureVideo stores the multipart "video" file and attaches it to the lecture
func UploadLectureVideo(c *fiber.Ctx) error {
	course, ok, err := ownedCourse(c)
	if !ok {
		return err
	}
	lectureID, valid := validators.ParamID(c, "lectureId")
	if !valid {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
	}
	if _, found := course.FindLecture(lectureID); !found {
		return middleware.ServiceError(c, services.ErrLectureNotFound)
	}

	file, err := c.FormFile("video")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please upload a video file", nil)
	}
	if err := storage.CheckType(file, "videos"); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, err.Error(), nil)
	}

	url, objectID, err := storage.Default.Upload(file, "videos")
	if err != nil {
		log.Printf("Error uploading lecture video: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload video!", nil)
	}

	previous, err := services.SetLectureVideo(database.Database.Db, course.ID, lectureID, url, objectID)
	if err != nil {
		removeMedia(objectID)
		return middleware.ServiceError(c, err)
	}
	removeMedia(previous)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video uploaded successfully", fiber.Map{
		"lectureId": lectureID,
		"videoUrl":  url,
	})
}
