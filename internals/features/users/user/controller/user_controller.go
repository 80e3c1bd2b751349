package controller

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"eventhub_backend/internals/features/users/user/dto"
	"eventhub_backend/internals/features/users/user/service"
	helper "eventhub_backend/internals/helpers"
	helperOSS "eventhub_backend/internals/helpers/oss"
)

type UserController struct {
	Service *service.UserService
	Blob    helperOSS.BlobService
	Log     *slog.Logger
}

func NewUserController(svc *service.UserService, blob helperOSS.BlobService, log *slog.Logger) *UserController {
	return &UserController{Service: svc, Blob: blob, Log: log}
}

// POST /users/register
func (uc *UserController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := helper.BindJSON(c, &req); err != nil {
		return err
	}
	user, err := uc.Service.Register(c.UserContext(), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "User created successfully", user)
}

// GET /users
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	filter, err := helper.ParseFilter(c.Queries(), dto.UserFilterSpec)
	if err != nil {
		return err
	}
	params := helper.ParseFiber(c, "createdAt", "desc", helper.AdminOpts)

	users, total, err := uc.Service.List(c.UserContext(), filter, params)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "Users retrieved successfully", users, helper.BuildMeta(total, params))
}

// GET /users/me
func (uc *UserController) GetMe(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}
	user, err := uc.Service.GetByID(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User retrieved successfully", user)
}

// GET /users/:id
func (uc *UserController) GetUserByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	user, err := uc.Service.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "User retrieved successfully", user)
}

// PATCH /users  (JSON, or multipart with "data" + optional "file")
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	actor, err := helper.GetActor(c)
	if err != nil {
		return err
	}

	var req dto.UpdateProfileRequest
	if err := helperOSS.BindFormJSON(c, "data", &req); err != nil {
		return err
	}
	if err := helper.ValidateStruct(&req); err != nil {
		return err
	}

	urls, err := helperOSS.UploadFormImages(c, uc.Blob, helperOSS.UploadDir("users", actor.UserID), "file")
	if err != nil {
		return err
	}
	var image *string
	if len(urls) > 0 {
		image = &urls[0]
	}

	user, replaced, err := uc.Service.UpdateProfile(c.UserContext(), actor.UserID, req, image)
	if err != nil {
		return err
	}
	if replaced != nil && *replaced != "" {
		helperOSS.DeleteBestEffort(c.UserContext(), uc.Blob, uc.Log, []string{*replaced})
	}
	return helper.JsonUpdated(c, "Profile updated successfully", user)
}
