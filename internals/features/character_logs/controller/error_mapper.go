package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"karakterku_backend/internals/features/character_logs/service"
	helper "karakterku_backend/internals/helpers"
)

// writeWorkflowError memetakan taksonomi error service ke response JSON.
// 422 validasi (semua field sekaligus), 403 forbidden (pesan seragam),
// 409 konflik (+status aktual), 404 not found.
func writeWorkflowError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return helper.JsonValidationError(c, ve.Fields)
	}

	var fe *service.ForbiddenError
	if errors.As(err, &fe) {
		return helper.JsonError(c, fiber.StatusForbidden, fe.Error())
	}

	var ce *service.ConflictError
	if errors.As(err, &ce) {
		return helper.JsonConflictError(c, ce.Message, ce.CurrentStatus)
	}

	var nfe *service.NotFoundError
	if errors.As(err, &nfe) {
		return helper.JsonError(c, fiber.StatusNotFound, nfe.Error())
	}

	return helper.JsonError(c, fiber.StatusInternalServerError, "Terjadi kesalahan internal")
}
