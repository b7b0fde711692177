package service

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"davet/internal/attendance"
	"davet/internal/auth"
	"davet/internal/dto"
	"davet/internal/model"
	"davet/internal/rabbit"
	"davet/internal/repo"
	"davet/internal/visibility"
	"davet/pkg/validator"
)

type Service interface {
	Status(ctx *ginext.Context)
	GetAllEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)
	RecordResponse(ctx *ginext.Context)
	ExportEvent(ctx *ginext.Context)
	GetAllEmployees(ctx *ginext.Context)
	CreateEmployee(ctx *ginext.Context)
	UpdateEmployee(ctx *ginext.Context)
	DeleteEmployee(ctx *ginext.Context)
	Login(ctx *ginext.Context)
}

type service struct {
	repo repo.Repository
	log  *zerolog.Logger
	rbt  *rabbit.Client
	auth auth.Authenticator
}

func NewService(repo repo.Repository, logger *zerolog.Logger, rbt *rabbit.Client, authenticator auth.Authenticator) Service {
	return &service{
		repo: repo,
		log:  logger,
		rbt:  rbt,
		auth: authenticator,
	}
}

// viewer reads the optional viewer identity from the query string. With no
// viewer_id the caller gets the unfiltered list, as the original API did.
// A malformed viewer_id is an error, never a silent fall-through to the
// unfiltered view.
func viewer(ctx *ginext.Context) (viewerID int, hasViewer, isAdmin bool, err error) {
	isAdmin = ctx.Query("admin") == "true"
	raw := ctx.Query("viewer_id")
	if raw == "" {
		return 0, false, isAdmin, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, isAdmin, err
	}
	return id, true, isAdmin, nil
}

func (s *service) Status(ctx *ginext.Context) {
	database := "connected"
	status := "ok"
	if err := s.repo.Ping(); err != nil {
		s.log.Error().Err(err).Msg("database ping failed")
		database = "disconnected"
		status = "degraded"
	}

	dto.SuccessResponse(ctx, dto.StatusResponse{
		Status:    status,
		Database:  database,
		Timestamp: time.Now().UTC(),
	})
}

func (s *service) activeRoster(ctx *ginext.Context) ([]model.Employee, error) {
	employees, err := s.repo.GetAllEmployees(ctx)
	if err != nil {
		return nil, err
	}
	roster := make([]model.Employee, 0, len(employees))
	for _, emp := range employees {
		if emp.Active {
			roster = append(roster, emp)
		}
	}
	return roster, nil
}

func (s *service) GetAllEvents(ctx *ginext.Context) {
	viewerID, hasViewer, isAdmin, err := viewer(ctx)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid viewer ID")
		return
	}

	events, err := s.repo.GetAllEvents(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get events from DB")
		dto.InternalServerError(ctx)
		return
	}

	if hasViewer && !isAdmin {
		events = visibility.FilterEvents(events, viewerID, false)
	}

	roster, err := s.activeRoster(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load roster for summaries")
		dto.InternalServerError(ctx)
		return
	}

	resp := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		responses, err := s.repo.GetResponsesByEventID(ctx, events[i].ID)
		if err != nil {
			s.log.Error().Err(err).Int64("event_id", events[i].ID).Msg("failed to load responses for event")
			dto.InternalServerError(ctx)
			return
		}
		events[i].Responses = responses
		if hasViewer && !isAdmin {
			events[i].Responses = visibility.OwnResponses(responses, viewerID)
		}

		summary := attendance.Summarize(responses, roster)
		resp = append(resp, dto.EventResponse{Event: events[i], Summary: &summary})
	}

	dto.SuccessResponse(ctx, resp)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	viewerID, hasViewer, isAdmin, err := viewer(ctx)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid viewer ID")
		return
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	// A hidden event looks exactly like a missing one to an unlisted viewer.
	if hasViewer && !isAdmin && !visibility.IsVisible(event, viewerID, false) {
		dto.EventNotFoundError(ctx)
		return
	}

	roster, err := s.activeRoster(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load roster for summary")
		dto.InternalServerError(ctx)
		return
	}

	summary := attendance.Summarize(event.Responses, roster)
	if hasViewer && !isAdmin {
		event.Responses = visibility.OwnResponses(event.Responses, viewerID)
	}

	dto.SuccessResponse(ctx, dto.EventResponse{Event: *event, Summary: &summary})
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if missing := req.MissingFields(); len(missing) > 0 {
		s.log.Warn().Strs("missing_fields", missing).Msg("event creation rejected")
		dto.MissingFieldsError(ctx, missing)
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		s.log.Error().Msgf("validation failed: %v", verr)
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	event := &model.Event{
		CompanyName:    req.CompanyName,
		Date:           req.Date,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Transportation: req.Transportation,
		VisibleTo:      req.VisibleTo,
	}

	id, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int64("event_id", id).Msg("event created successfully")
	dto.SuccessCreatedResponse(ctx, event)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	event := &model.Event{
		ID:             eventID,
		CompanyName:    req.CompanyName,
		Date:           req.Date,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Transportation: req.Transportation,
		VisibleTo:      req.VisibleTo,
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		switch err {
		case repo.ErrEventNotFound:
			dto.EventNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to update event")
			dto.InternalServerError(ctx)
		}
		return
	}

	responses, err := s.repo.GetResponsesByEventID(ctx, eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load responses after update")
		dto.InternalServerError(ctx)
		return
	}
	event.Responses = responses

	s.log.Info().Int64("event_id", eventID).Msg("event updated successfully")
	dto.SuccessResponse(ctx, event)
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	if err := s.repo.DeleteEvent(ctx, eventID); err != nil {
		switch err {
		case repo.ErrEventNotFound:
			dto.EventNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to delete event")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int64("event_id", eventID).Msg("event deleted with its responses")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) RecordResponse(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	var req dto.RecordResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	employee, err := s.repo.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Unknown employee id")
		return
	}
	if !employee.Active {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Employee is no longer active")
		return
	}

	response := &model.Response{
		EventID:    eventID,
		EmployeeID: req.EmployeeID,
		Attending:  *req.Attending,
	}

	if err := s.repo.UpsertResponseTx(ctx, response); err != nil {
		switch err {
		case repo.ErrEventNotFound:
			dto.EventNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to record response")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().
		Int64("event_id", eventID).
		Int("employee_id", req.EmployeeID).
		Bool("attending", response.Attending).
		Msg("response recorded")

	s.publishResponseRecorded(response)

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to reload event after response")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, event)
}

// publishResponseRecorded hands the response to the notification pipeline.
// Delivery is best effort: a broker outage must not fail the request.
func (s *service) publishResponseRecorded(resp *model.Response) {
	if s.rbt == nil {
		return
	}

	msg := dto.ResponseRecordedMessage{
		EventID:    resp.EventID,
		EmployeeID: resp.EmployeeID,
		Attending:  resp.Attending,
		RecordedAt: resp.RespondedAt,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal response message")
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to publish response message to RabbitMQ")
	}
}

func (s *service) ExportEvent(ctx *ginext.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid event ID")
		return
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		dto.EventNotFoundError(ctx)
		return
	}

	roster, err := s.activeRoster(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load roster for export")
		dto.InternalServerError(ctx)
		return
	}

	ctx.Header("Content-Type", "text/csv; charset=utf-8")
	ctx.Header("Content-Disposition", "attachment; filename="+attendance.Filename(event.CompanyName, event.Date))
	ctx.Status(200)

	if err := attendance.WriteCSV(ctx.Writer, event, roster); err != nil {
		// Headers are already out; nothing left to do but log.
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("failed to write CSV export")
	}
}

func (s *service) GetAllEmployees(ctx *ginext.Context) {
	employees, err := s.repo.GetAllEmployees(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get employees from DB")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessResponse(ctx, employees)
}

func (s *service) CreateEmployee(ctx *ginext.Context) {
	var req dto.CreateEmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	employee := &model.Employee{
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
	}

	id, err := s.repo.CreateEmployeeTx(ctx, employee)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create employee in DB")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Int("employee_id", id).Msg("employee created successfully")
	dto.SuccessCreatedResponse(ctx, employee)
}

func (s *service) UpdateEmployee(ctx *ginext.Context) {
	employeeID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid employee ID")
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	employee := &model.Employee{
		ID:         employeeID,
		Name:       req.Name,
		Department: req.Department,
		Role:       req.Role,
	}

	if err := s.repo.UpdateEmployee(ctx, employee); err != nil {
		switch err {
		case repo.ErrEmployeeNotFound:
			dto.EmployeeNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to update employee")
			dto.InternalServerError(ctx)
		}
		return
	}

	dto.SuccessResponse(ctx, employee)
}

func (s *service) DeleteEmployee(ctx *ginext.Context) {
	employeeID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid employee ID")
		return
	}

	if err := s.repo.DeactivateEmployee(ctx, employeeID); err != nil {
		switch err {
		case repo.ErrEmployeeNotFound:
			dto.EmployeeNotFoundError(ctx)
		default:
			s.log.Error().Err(err).Msg("failed to deactivate employee")
			dto.InternalServerError(ctx)
		}
		return
	}

	s.log.Info().Int("employee_id", employeeID).Msg("employee deactivated")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldBadFormat, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, verr.Error())
		return
	}

	identity, err := s.auth.Authenticate(ctx, auth.Credentials{
		EmployeeID: req.EmployeeID,
		Password:   req.Password,
	})
	if err != nil {
		dto.InvalidCredentialsError(ctx)
		return
	}

	dto.SuccessResponse(ctx, dto.IdentityResponse{
		EmployeeID: identity.EmployeeID,
		IsAdmin:    identity.IsAdmin,
	})
}
