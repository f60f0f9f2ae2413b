package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coursehub/catalog-api/internal/core/ports"
)

// CourseHandler exposes the catalog. The caller identity is passed to the
// service on every call; authorization happens there.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List handles GET /v1/courses.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Success      200  {object}  courseListResponse
// @Router       /v1/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.service.ListCourses(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courseListResponse{Data: courses, Count: len(courses)})
}

// Get handles GET /v1/courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  domain.Course
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := courseID(c)
	if err != nil {
		return err
	}

	course, err := h.service.GetCourse(c.Request().Context(), caller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Create handles POST /v1/courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course"
// @Success      201   {object}  domain.Course
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course, err := h.service.CreateCourse(c.Request().Context(), caller(c), ports.CreateCourseInput{
		Title:         req.Title,
		Description:   req.Description,
		Instructor:    req.Instructor,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// Update handles PUT /v1/courses/:id.
//
// @Summary      Update a course
// @Description  Partial update: omitted fields keep their current value.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Course ID"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  domain.Course
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := courseID(c)
	if err != nil {
		return err
	}

	var req updateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course, err := h.service.UpdateCourse(c.Request().Context(), caller(c), id, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete handles DELETE /v1/courses/:id and returns the deleted course.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  domain.Course
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := courseID(c)
	if err != nil {
		return err
	}

	course, err := h.service.DeleteCourse(c.Request().Context(), caller(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}
