package controller

import (
	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/dashboard/meta/dto"
	"eventhub_backend/internals/features/dashboard/meta/service"
	helper "eventhub_backend/internals/helpers"
	"eventhub_backend/internals/helpers/apperror"
)

type MetaController struct {
	Service *service.MetaService
}

func NewMetaController(svc *service.MetaService) *MetaController {
	return &MetaController{Service: svc}
}

// GET /dashboard/meta-data?startDate=&endDate=&duration=
func (mc *MetaController) GetAdminDashboardMetaData(c *fiber.Ctx) error {
	var q dto.MetaQuery
	if err := c.QueryParser(&q); err != nil {
		return apperror.BadRequest("Invalid query parameters")
	}
	res, err := mc.Service.GetAdminDashboardMetaData(c.UserContext(), q)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Dashboard meta data retrieved successfully", res)
}
