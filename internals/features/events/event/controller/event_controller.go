package controller

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/events/event/dto"
	"eventhub_backend/internals/features/events/event/service"
	helper "eventhub_backend/internals/helpers"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

type EventController struct {
	Service *service.EventService
	Blob    helperOSS.BlobService
	Log     *slog.Logger
}

func NewEventController(svc *service.EventService, blob helperOSS.BlobService, log *slog.Logger) *EventController {
	return &EventController{Service: svc, Blob: blob, Log: log}
}

// POST /events/create-event  (multipart "data" + "files", or JSON)
func (ec *EventController) CreateEvent(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := helperOSS.BindFormJSON(c, "data", &req); err != nil {
		return err
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}

	images, err := helperOSS.UploadFormImages(c, ec.Blob, helperOSS.UploadDir("events", actor.UserID), "files")
	if err != nil {
		return err
	}

	ev, err := ec.Service.Create(c.UserContext(), actor, req, images)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Event created successfully", ev)
}

// GET /events
func (ec *EventController) GetAllEvents(c *fiber.Ctx) error {
	filter, err := helper.ParseFilter(c.Queries(), dto.EventFilterSpec)
	if err != nil {
		return err
	}
	params := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)

	events, total, err := ec.Service.List(c.UserContext(), filter, params)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Events retrieved successfully", events, helper.BuildMeta(total, params))
}

// GET /events/category
func (ec *EventController) GetCategories(c *fiber.Ctx) error {
	cats, err := ec.Service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Event categories retrieved successfully", cats)
}

// GET /events/:slug
func (ec *EventController) GetEventBySlug(c *fiber.Ctx) error {
	ev, err := ec.Service.GetBySlug(c.UserContext(), strings.TrimSpace(c.Params("slug")))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Event retrieved successfully", ev)
}

// PATCH /events/update/:slug
func (ec *EventController) UpdateEvent(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}

	var req dto.UpdateEventRequest
	if err := helperOSS.BindFormJSON(c, "data", &req); err != nil {
		return err
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}

	images, err := helperOSS.UploadFormImages(c, ec.Blob, helperOSS.UploadDir("events", actor.UserID), "files")
	if err != nil {
		return err
	}

	ev, removed, err := ec.Service.Update(c.UserContext(), strings.TrimSpace(c.Params("slug")), actor, req, images)
	if err != nil {
		return err
	}
	helperOSS.DeleteBestEffort(c.UserContext(), ec.Blob, ec.Log, removed)
	return helper.JsonUpdated(c, "Event updated successfully", ev)
}

// DELETE /events/:slug
func (ec *EventController) DeleteEvent(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	images, err := ec.Service.Delete(c.UserContext(), strings.TrimSpace(c.Params("slug")), actor)
	if err != nil {
		return err
	}
	helperOSS.DeleteBestEffort(c.UserContext(), ec.Blob, ec.Log, images)
	return helper.JsonDeleted(c, "Event deleted successfully", nil)
}
