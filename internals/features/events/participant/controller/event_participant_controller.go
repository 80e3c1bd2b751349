package controller

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/events/participant/dto"
	"eventhub_backend/internals/features/events/participant/service"
	helper "eventhub_backend/internals/helpers"
)

type EventParticipantController struct {
	Service *service.EventParticipantService
}

func NewEventParticipantController(svc *service.EventParticipantService) *EventParticipantController {
	return &EventParticipantController{Service: svc}
}

// POST /event-participants/join-event
func (pc *EventParticipantController) JoinEvent(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	var req dto.JoinEventRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	res, err := pc.Service.Join(c.UserContext(), actor, req.EventID)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Joined event successfully", res)
}

// GET /event-participants
func (pc *EventParticipantController) GetAllParticipants(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	filter, err := helper.ParseFilter(c.Queries(), dto.ParticipantFilterSpec)
	if err != nil {
		return err
	}
	params := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)

	rows, total, err := pc.Service.List(c.UserContext(), actor, filter, params)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Event participants retrieved successfully", rows, helper.BuildMeta(total, params))
}

// GET /event-participants/:id
func (pc *EventParticipantController) GetParticipantByID(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	part, err := pc.Service.GetByID(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Event participant retrieved successfully", part)
}

// PATCH /event-participants/:id
func (pc *EventParticipantController) UpdateParticipant(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateParticipantRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	part, err := pc.Service.Update(c.UserContext(), actor, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Event participant updated successfully", part)
}

// DELETE /event-participants/:id
func (pc *EventParticipantController) DeleteParticipant(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := pc.Service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Event participant deleted successfully", nil)
}
