package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"davet/internal/attendance"
	"davet/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	FieldsMissing      = "FIELDS_MISSING"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound      = "EVENT_NOT_FOUND"
	EmployeeNotFound   = "EMPLOYEE_NOT_FOUND"
	InvalidCredentials = "INVALID_CREDENTIALS"
)

type CreateEventRequest struct {
	CompanyName    string `json:"companyName"`
	Date           string `json:"date"`
	Location       string `json:"location"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Transportation string `json:"transportation" validate:"omitempty,transportation"`
	VisibleTo      []int  `json:"visibleTo"`
}

// MissingFields lists the required fields absent from the request, in the
// order the API documents them. An empty visibility list counts as missing
// because an event nobody can see is a client mistake, not an intent.
func (r *CreateEventRequest) MissingFields() []string {
	var missing []string
	if r.CompanyName == "" {
		missing = append(missing, "companyName")
	}
	if r.Date == "" {
		missing = append(missing, "date")
	}
	if r.Location == "" {
		missing = append(missing, "location")
	}
	if r.StartTime == "" {
		missing = append(missing, "startTime")
	}
	if r.EndTime == "" {
		missing = append(missing, "endTime")
	}
	if r.Transportation == "" {
		missing = append(missing, "transportation")
	}
	if len(r.VisibleTo) == 0 {
		missing = append(missing, "visibleTo")
	}
	return missing
}

type UpdateEventRequest struct {
	CompanyName    string `json:"companyName" validate:"required"`
	Date           string `json:"date" validate:"required"`
	Location       string `json:"location" validate:"required"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime" validate:"required"`
	Transportation string `json:"transportation" validate:"required,transportation"`
	VisibleTo      []int  `json:"visibleTo"`
}

type RecordResponseRequest struct {
	EmployeeID int   `json:"employeeId" validate:"required,gt=0"`
	Attending  *bool `json:"attending" validate:"required"`
}

type CreateEmployeeRequest struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

type UpdateEmployeeRequest struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

type LoginRequest struct {
	EmployeeID int    `json:"employeeId" validate:"required,gt=0"`
	Password   string `json:"password"`
}

type IdentityResponse struct {
	EmployeeID int  `json:"employeeId"`
	IsAdmin    bool `json:"isAdmin"`
}

type EventResponse struct {
	model.Event
	Summary *attendance.Summary `json:"summary,omitempty"`
}

type StatusResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// ResponseRecordedMessage is published to the notification queue after every
// response upsert.
type ResponseRecordedMessage struct {
	EventID    int64     `json:"event_id"`
	EmployeeID int       `json:"employee_id"`
	Attending  bool      `json:"attending"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code          string   `json:"code"`
	Desc          string   `json:"desc"`
	MissingFields []string `json:"missingFields,omitempty"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func MissingFieldsError(c *ginext.Context, fields []string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code:          FieldsMissing,
			Desc:          "Required fields are missing",
			MissingFields: fields,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func EventNotFoundError(c *ginext.Context) {
	NotFoundError(c, EventNotFound, "Event not found")
}

func EmployeeNotFoundError(c *ginext.Context) {
	NotFoundError(c, EmployeeNotFound, "Employee not found")
}

func InvalidCredentialsError(c *ginext.Context) {
	c.JSON(401, Response{
		Status: "error",
		Error: &Error{
			Code: InvalidCredentials,
			Desc: "Invalid employee id or password",
		},
	})
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}
