package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/imagehost"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

const pictureField = "profile_picture"

// ProfileHandler serves the signed-in account's profile.
type ProfileHandler struct {
	profiles  *service.ProfileService
	maxUpload int64
}

// NewProfileHandler constructs handler. maxUpload caps how much of an uploaded
// picture is read; the service rejects anything over the limit.
func NewProfileHandler(profiles *service.ProfileService, maxUpload int64) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, maxUpload: maxUpload}
}

// Get GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profileResponse(profile)})
}

// Update PUT /profile. Accepts JSON, or multipart with an optional picture.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	picture, err := h.readPicture(c)
	if err != nil {
		return err
	}

	profile, session, err := h.profiles.UpdateProfile(c.UserContext(), principal.Session, service.ProfileUpdateInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Picture:         picture,
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"profile": profileResponse(profile),
		"session": sessionResponse(session),
	}})
}

func (h *ProfileHandler) readPicture(c *fiber.Ctx) (*imagehost.Image, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid multipart form", nil)
	}
	files := form.File[pictureField]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	file, err := header.Open()
	if err != nil {
		return nil, apperrors.MapError(fmt.Errorf("open upload: %w", err))
	}
	defer file.Close()

	reader := io.Reader(file)
	if h.maxUpload > 0 {
		reader = io.LimitReader(file, h.maxUpload+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.MapError(fmt.Errorf("read upload: %w", err))
	}
	return &imagehost.Image{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
